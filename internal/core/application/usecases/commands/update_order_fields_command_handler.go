package commands

import (
	"context"
	"errors"

	"orderportal/internal/core/domain/services/validation"
	"orderportal/internal/core/domain/services/workflow"
	"orderportal/internal/core/ports"
)

// ErrOrderNotEditable is returned when the order's current status does
// not grant edit permission to the caller's role.
var ErrOrderNotEditable = errors.New("order is not editable in its current status by this role")

// UpdateOrderFieldsCommandHandler handles partial field-value
// submissions. It validates the submission against the form schema,
// applies the coerced values and publishes a field_changed event for the
// fields that actually changed.
type UpdateOrderFieldsCommandHandler struct {
	uowFactory UoWFactory
	engine     workflow.Engine
	publisher  ports.EventPublisher
}

// NewUpdateOrderFieldsCommandHandler creates a handler for field update
// operations.
func NewUpdateOrderFieldsCommandHandler(uowFactory UoWFactory, engine workflow.Engine,
	publisher ports.EventPublisher) UpdateOrderFieldsCommandHandler {
	return UpdateOrderFieldsCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		publisher:  publisher,
	}
}

// Handle processes the field update command.
// The submission is validated as a whole and applied atomically; a
// submission that changes nothing is still a success but publishes no
// event.
func (h *UpdateOrderFieldsCommandHandler) Handle(ctx context.Context, cmd UpdateOrderFieldsCommand) error {
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

	if !h.engine.CanEdit(o, cmd.Role()) {
		return ErrOrderNotEditable
	}

	f, err := uow.FormRepository().Get(ctx, o.FormID())
	if err != nil {
		return err
	}

	res := validation.Validate(f.Schema(), o.Values(), cmd.Updates(), validation.Options{
		FormEncoded: cmd.FormEncoded(),
		Role:        cmd.Role(),
	})
	if err = o.ApplyFieldChanges(res.Values, res.Invalid, res.Changed); err != nil {
		return err
	}

	if len(res.Changed) == 0 {
		return uow.Commit(ctx)
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.Event{
		Type:    ports.EventFieldChanged,
		OrderID: o.ID(),
		Payload: map[string]any{"fields": res.Changed},
	})

	return nil
}
