// Package ports defines the contracts between the domain core and its
// collaborators: persistence, transactions, event notification, and
// profile data. These interfaces establish dependency inversion so the
// core stays free of infrastructure concerns and fully testable.
package ports

import (
	"context"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Updates use optimistic concurrency: the stored document carries a
// version that must match the version the aggregate was loaded at, and a
// mismatch fails with a VersionConflictError. The core's contract on
// conflict is to retry the whole operation from a fresh load, never to
// reapply partial state.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// Fails with a VersionConflictError when the stored document changed
	// since the aggregate was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order aggregate by its formatted number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status.
	GetAllInStatus(ctx context.Context, status string) ([]*order.Order, error)

	// NextNumber allocates the next value of the sequential order
	// number. Allocation participates in the surrounding transaction so
	// a rolled-back creation does not burn a number silently.
	NextNumber(ctx context.Context) (int64, error)
}
