package commands

import (
	"errors"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var errUpdateOrderFieldsCommandIsNotConstructed = errors.New(
	"UpdateOrderFieldsCommand is not constructed. Use NewUpdateOrderFieldsCommand")

// UpdateOrderFieldsCommand carries a partial field-value submission for
// an existing order.
type UpdateOrderFieldsCommand struct {
	guard       guard.ConstructorGuard
	orderID     kernel.UUID
	updates     map[string]any
	role        kernel.Role
	formEncoded bool
}

func NewUpdateOrderFieldsCommand(orderID kernel.UUID, updates map[string]any,
	role kernel.Role, formEncoded bool) (UpdateOrderFieldsCommand, error) {
	var cmd UpdateOrderFieldsCommand
	err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRole(role),
	)
	if err != nil {
		return UpdateOrderFieldsCommand{}, err
	}

	cmd.updates = updates
	cmd.formEncoded = formEncoded
	cmd.guard = guard.NewConstructorGuard()
	return cmd, nil
}

func (c *UpdateOrderFieldsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderFieldsCommand) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("role", err)
	}
	c.role = role
	return nil
}

func (c UpdateOrderFieldsCommand) OrderID() kernel.UUID  { return c.orderID }
func (c UpdateOrderFieldsCommand) Updates() map[string]any { return c.updates }
func (c UpdateOrderFieldsCommand) Role() kernel.Role     { return c.role }
func (c UpdateOrderFieldsCommand) FormEncoded() bool     { return c.formEncoded }

func (c UpdateOrderFieldsCommand) Validate() error {
	return c.guard.Validate(errUpdateOrderFieldsCommandIsNotConstructed)
}
