package commands

import (
	"context"
)

// SetExternalLinksCommandHandler replaces the external resource links of
// an order. Link URLs are validated by the aggregate.
type SetExternalLinksCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSetExternalLinksCommandHandler creates a handler for link
// replacement operations.
func NewSetExternalLinksCommandHandler(uowFactory OrderUoWFactory) SetExternalLinksCommandHandler {
	return SetExternalLinksCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the link replacement command.
func (h *SetExternalLinksCommandHandler) Handle(ctx context.Context, cmd SetExternalLinksCommand) error {
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

	if err = o.SetExternalLinks(cmd.Links()); err != nil {
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
