package commands

import (
	"context"
	"time"

	"orderportal/internal/core/domain/services/workflow"
	"orderportal/internal/core/ports"
)

// ApplyTransitionCommandHandler moves an order along the configured
// status graph. The workflow engine enforces reachability, role
// permission and validity gating; the handler persists the result and
// publishes a status_changed event.
type ApplyTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     workflow.Engine
	publisher  ports.EventPublisher
}

// NewApplyTransitionCommandHandler creates a handler for status
// transition operations.
func NewApplyTransitionCommandHandler(uowFactory OrderUoWFactory, engine workflow.Engine,
	publisher ports.EventPublisher) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		publisher:  publisher,
	}
}

// Handle processes the transition command.
// The event is published only after the new status is committed.
func (h *ApplyTransitionCommandHandler) Handle(ctx context.Context, cmd ApplyTransitionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previous := o.Status()
	if err = h.engine.Apply(o, cmd.Target(), cmd.Role(), time.Now()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.Event{
		Type:    ports.EventStatusChanged,
		OrderID: o.ID(),
		Payload: map[string]any{"from": previous, "to": cmd.Target()},
	})

	return nil
}
