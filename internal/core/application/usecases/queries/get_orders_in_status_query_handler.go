package queries

import (
	"context"
	"time"

	"orderportal/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersInStatusQueryHandler reads the order listing for one workflow
// status straight from the orders table. Used by the HTTP listing
// endpoint and the stale-order reminder job.
type GetOrdersInStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersInStatusQueryHandler creates a handler for status listing
// queries. Requires a GORM database connection for query execution.
func NewGetOrdersInStatusQueryHandler(db *gorm.DB) GetOrdersInStatusQueryHandler {
	return GetOrdersInStatusQueryHandler{db: db}
}

// Handle executes the listing query.
// Results are sorted by number for stable listings.
func (h GetOrdersInStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersInStatusQuery,
) ([]GetOrdersInStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOrdersInStatusQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			title,
			owner,
			status,
			updated_at
		FROM orders
		WHERE status = ?
		ORDER BY number
	`, query.Status()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrdersInStatusQueryResponse
		var id uuid.UUID
		var updatedAt time.Time

		err = rows.Scan(
			&id,
			&resp.Number,
			&resp.Title,
			&resp.Owner,
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
