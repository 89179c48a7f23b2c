package ports

import (
	"context"

	"orderportal/internal/core/domain/model/kernel"
)

// EventType classifies the change events the core emits.
type EventType string

const (
	// EventStatusChanged signals that an order moved to a new status.
	EventStatusChanged EventType = "status_changed"

	// EventFieldChanged signals that order field values were mutated.
	EventFieldChanged EventType = "field_changed"

	// EventReminder signals that an order has been sitting in its
	// current status longer than the configured reminder age.
	EventReminder EventType = "reminder"
)

// Event is a change notification handed to the messaging collaborator.
// The payload names what happened (the target status, the changed field
// identifiers) but never how the resulting message is composed; recipient
// and template resolution happen outside the core.
type Event struct {
	Type    EventType
	OrderID kernel.UUID
	Payload map[string]any
}

// EventPublisher is the fire-and-forget notification sink.
//
// Publish is called only after state changes are safely persisted, and a
// publish failure must never roll the persisted change back; callers log
// and move on.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}
