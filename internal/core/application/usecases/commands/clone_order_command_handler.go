package commands

import (
	"context"
	"fmt"

	"orderportal/internal/core/domain/services/validation"
	"orderportal/internal/core/domain/services/workflow"
)

// CloneOrderCommandHandler opens a new order copied from an existing
// one. Values marked erase-on-clone in the schema start empty; status,
// history, tags, links and attachments are not carried over.
type CloneOrderCommandHandler struct {
	uowFactory    UoWFactory
	engine        workflow.Engine
	numberPattern string
}

// NewCloneOrderCommandHandler creates a handler for clone operations.
func NewCloneOrderCommandHandler(uowFactory UoWFactory, engine workflow.Engine,
	numberPattern string) CloneOrderCommandHandler {
	return CloneOrderCommandHandler{
		uowFactory:    uowFactory,
		engine:        engine,
		numberPattern: numberPattern,
	}
}

// Handle processes the clone command.
// The clone gets a freshly allocated number and starts in the initial
// workflow status regardless of where the source order currently is.
func (h *CloneOrderCommandHandler) Handle(ctx context.Context, cmd CloneOrderCommand) error {
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

	source, err := uow.OrderRepository().Get(ctx, cmd.SourceID())
	if err != nil {
		return err
	}

	f, err := uow.FormRepository().Get(ctx, source.FormID())
	if err != nil {
		return err
	}

	seq, err := uow.OrderRepository().NextNumber(ctx)
	if err != nil {
		return err
	}

	clone, err := source.Clone(cmd.NewID(), fmt.Sprintf(h.numberPattern, seq),
		f.Schema(), h.engine.Initial().ID)
	if err != nil {
		return err
	}

	res := validation.Validate(f.Schema(), clone.Values(), nil, validation.Options{})
	if err = clone.ApplyFieldChanges(res.Values, res.Invalid, res.Changed); err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, clone); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
