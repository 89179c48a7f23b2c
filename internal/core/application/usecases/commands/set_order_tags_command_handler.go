package commands

import (
	"context"
)

// SetOrderTagsCommandHandler replaces the tag list of an order with
// namespaced tags protected by the caller's role.
type SetOrderTagsCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSetOrderTagsCommandHandler creates a handler for tag replacement
// operations.
func NewSetOrderTagsCommandHandler(uowFactory OrderUoWFactory) SetOrderTagsCommandHandler {
	return SetOrderTagsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the tag replacement command.
func (h *SetOrderTagsCommandHandler) Handle(ctx context.Context, cmd SetOrderTagsCommand) error {
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

	if err = o.SetTags(cmd.Tags(), cmd.Role()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
