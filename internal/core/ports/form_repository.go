package ports

import (
	"context"

	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
)

// FormRepository defines the persistence contract for form aggregates.
// Order operations only ever read forms; writes come from the form-editing
// pages.
type FormRepository interface {
	// Add persists a new form aggregate.
	Add(ctx context.Context, aggregate *form.Form) error

	// Update persists changes to an existing form aggregate.
	Update(ctx context.Context, aggregate *form.Form) error

	// Get retrieves a form aggregate, with its schema resolved, by its
	// unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*form.Form, error)
}
