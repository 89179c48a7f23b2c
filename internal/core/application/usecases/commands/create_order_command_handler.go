package commands

import (
	"context"
	"fmt"

	"orderportal/internal/core/domain/model/order"
	"orderportal/internal/core/domain/services/autopopulate"
	"orderportal/internal/core/domain/services/validation"
	"orderportal/internal/core/domain/services/workflow"
	"orderportal/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Allocates the next order number, seeds field values from the owner's
// account and institution profiles, and stores the order in the initial
// workflow status.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, engine, profiles, sources, "ORD-%06d")
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), formID, "HPLC run", "r.daneel")
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory    UoWFactory
	engine        workflow.Engine
	profiles      ports.ProfileProvider
	sources       map[string]string
	numberPattern string
}

// NewCreateOrderCommandHandler creates a handler for order creation
// operations. sources maps field identifiers to profile keys for
// autopopulation; numberPattern is an fmt verb pattern such as "ORD-%06d".
func NewCreateOrderCommandHandler(uowFactory UoWFactory, engine workflow.Engine,
	profiles ports.ProfileProvider, sources map[string]string,
	numberPattern string) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:    uowFactory,
		engine:        engine,
		profiles:      profiles,
		sources:       sources,
		numberPattern: numberPattern,
	}
}

// Handle processes the order creation command.
// Profile lookups happen before the transaction opens; number allocation
// participates in the transaction so a rolled-back creation does not burn
// a number.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	account, err := h.profiles.AccountProfile(ctx, cmd.Owner())
	if err != nil {
		return fmt.Errorf("load account profile for %s: %w", cmd.Owner(), err)
	}
	university, err := h.profiles.UniversityProfile(ctx, cmd.Owner())
	if err != nil {
		return fmt.Errorf("load university profile for %s: %w", cmd.Owner(), err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	f, err := uow.FormRepository().Get(ctx, cmd.FormID())
	if err != nil {
		return err
	}

	seq, err := uow.OrderRepository().NextNumber(ctx)
	if err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), fmt.Sprintf(h.numberPattern, seq),
		f, cmd.Title(), cmd.Owner(), h.engine.Initial().ID)
	if err != nil {
		return err
	}

	autopopulate.Populate(o, account, university, h.sources)

	// Seed the invalid-field map so status gating is correct before the
	// first edit.
	res := validation.Validate(f.Schema(), o.Values(), nil, validation.Options{})
	if err = o.ApplyFieldChanges(res.Values, res.Invalid, res.Changed); err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
