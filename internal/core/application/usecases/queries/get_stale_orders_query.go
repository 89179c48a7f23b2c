package queries

import (
	"errors"
	"time"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var ErrGetStaleOrdersQueryIsNotConstructed = errors.New(
	"GetStaleOrdersQuery must be created via NewGetStaleOrdersQuery constructor",
)

// GetStaleOrdersQuery retrieves orders that have been sitting untouched
// in one of the given statuses since before a cutoff time. Terminal
// statuses are excluded by the caller, who knows the workflow
// configuration.
type GetStaleOrdersQuery struct {
	guard    guard.ConstructorGuard
	statuses []string
	before   time.Time
}

// NewGetStaleOrdersQuery creates a stale-order query.
// statuses lists the non-terminal statuses to inspect; before is the
// cutoff for the last update.
func NewGetStaleOrdersQuery(statuses []string, before time.Time) (GetStaleOrdersQuery, error) {
	if len(statuses) == 0 {
		return GetStaleOrdersQuery{}, errs.NewValueIsRequiredError("statuses")
	}
	for _, s := range statuses {
		if !kernel.IsIdentifier(s) {
			return GetStaleOrdersQuery{}, errs.NewValueIsInvalidError("statuses")
		}
	}
	if before.IsZero() {
		return GetStaleOrdersQuery{}, errs.NewValueIsRequiredError("before")
	}

	return GetStaleOrdersQuery{
		guard:    guard.NewConstructorGuard(),
		statuses: statuses,
		before:   before,
	}, nil
}

// Statuses returns the statuses being inspected.
func (q GetStaleOrdersQuery) Statuses() []string { return q.statuses }

// Before returns the last-update cutoff.
func (q GetStaleOrdersQuery) Before() time.Time { return q.before }

// Validate ensures the query was created through the constructor.
// Returns ErrGetStaleOrdersQueryIsNotConstructed if validation fails.
func (q GetStaleOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStaleOrdersQueryIsNotConstructed)
}

// GetStaleOrdersQueryResponse is one stale order.
type GetStaleOrdersQueryResponse struct {
	ID        kernel.UUID
	Number    string
	Status    string
	UpdatedAt time.Time
}
