package commands

import (
	"errors"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var errCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand is not constructed. Use NewCreateOrderCommand")

// CreateOrderCommand carries everything needed to open a new order
// against an enabled form.
type CreateOrderCommand struct {
	guard   guard.ConstructorGuard
	orderID kernel.UUID
	formID  kernel.UUID
	title   string
	owner   string
}

func NewCreateOrderCommand(orderID kernel.UUID, formID kernel.UUID,
	title string, owner string) (CreateOrderCommand, error) {
	var cmd CreateOrderCommand
	err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setFormID(formID),
		cmd.setTitle(title),
		cmd.setOwner(owner),
	)
	if err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.guard = guard.NewConstructorGuard()
	return cmd, nil
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setFormID(formID kernel.UUID) error {
	if err := formID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("formID", err)
	}
	c.formID = formID
	return nil
}

func (c *CreateOrderCommand) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	c.title = title
	return nil
}

func (c *CreateOrderCommand) setOwner(owner string) error {
	if owner == "" {
		return errs.NewValueIsRequiredError("owner")
	}
	c.owner = owner
	return nil
}

func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CreateOrderCommand) FormID() kernel.UUID  { return c.formID }
func (c CreateOrderCommand) Title() string        { return c.title }
func (c CreateOrderCommand) Owner() string        { return c.owner }

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(errCreateOrderCommandIsNotConstructed)
}
