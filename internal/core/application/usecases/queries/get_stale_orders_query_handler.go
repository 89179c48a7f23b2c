package queries

import (
	"context"
	"time"

	"orderportal/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStaleOrdersQueryHandler finds orders whose last update is older
// than the cutoff. Feeds the reminder job.
type GetStaleOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetStaleOrdersQueryHandler creates a handler for stale-order
// queries.
func NewGetStaleOrdersQueryHandler(db *gorm.DB) GetStaleOrdersQueryHandler {
	return GetStaleOrdersQueryHandler{db: db}
}

// Handle executes the stale-order query.
func (h GetStaleOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetStaleOrdersQuery,
) ([]GetStaleOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetStaleOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			updated_at
		FROM orders
		WHERE status IN ? AND updated_at < ?
		ORDER BY updated_at
	`, query.Statuses(), query.Before()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetStaleOrdersQueryResponse
		var id uuid.UUID
		var updatedAt time.Time

		err = rows.Scan(
			&id,
			&resp.Number,
			&resp.Status,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.UpdatedAt = updatedAt

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
