// Package queries contains read-only operations against the database.
// Queries bypass the aggregate layer and read projections with raw SQL,
// forming the read side of the CQRS architecture.
package queries

import (
	"errors"
	"time"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var ErrGetOrdersInStatusQueryIsNotConstructed = errors.New(
	"GetOrdersInStatusQuery must be created via NewGetOrdersInStatusQuery constructor",
)

// GetOrdersInStatusQuery retrieves a listing of all orders currently in
// the given workflow status.
//
// Example:
//
//	query, _ := NewGetOrdersInStatusQuery("submitted")
//	handler := NewGetOrdersInStatusQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list submitted orders: %w", err)
//	}
type GetOrdersInStatusQuery struct {
	guard  guard.ConstructorGuard
	status string
}

// NewGetOrdersInStatusQuery creates a listing query for one status.
// The status must be a valid workflow identifier.
func NewGetOrdersInStatusQuery(status string) (GetOrdersInStatusQuery, error) {
	if !kernel.IsIdentifier(status) {
		return GetOrdersInStatusQuery{}, errs.NewValueIsInvalidError("status")
	}

	return GetOrdersInStatusQuery{
		guard:  guard.NewConstructorGuard(),
		status: status,
	}, nil
}

// Status returns the workflow status being listed.
func (q GetOrdersInStatusQuery) Status() string { return q.status }

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrdersInStatusQueryIsNotConstructed if validation fails.
func (q GetOrdersInStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersInStatusQueryIsNotConstructed)
}

// GetOrdersInStatusQueryResponse is one row of the order listing.
type GetOrdersInStatusQueryResponse struct {
	ID        kernel.UUID
	Number    string
	Title     string
	Owner     string
	Status    string
	UpdatedAt time.Time
}
