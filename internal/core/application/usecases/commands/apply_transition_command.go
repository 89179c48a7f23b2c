package commands

import (
	"errors"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var errApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand is not constructed. Use NewApplyTransitionCommand")

// ApplyTransitionCommand carries a request to move an order to a new
// workflow status.
type ApplyTransitionCommand struct {
	guard   guard.ConstructorGuard
	orderID kernel.UUID
	target  string
	role    kernel.Role
}

func NewApplyTransitionCommand(orderID kernel.UUID, target string,
	role kernel.Role) (ApplyTransitionCommand, error) {
	var cmd ApplyTransitionCommand
	err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setRole(role),
	)
	if err != nil {
		return ApplyTransitionCommand{}, err
	}

	cmd.guard = guard.NewConstructorGuard()
	return cmd, nil
}

func (c *ApplyTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	c.orderID = orderID
	return nil
}

func (c *ApplyTransitionCommand) setTarget(target string) error {
	if target == "" {
		return errs.NewValueIsRequiredError("target")
	}
	c.target = target
	return nil
}

func (c *ApplyTransitionCommand) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("role", err)
	}
	c.role = role
	return nil
}

func (c ApplyTransitionCommand) OrderID() kernel.UUID { return c.orderID }
func (c ApplyTransitionCommand) Target() string       { return c.target }
func (c ApplyTransitionCommand) Role() kernel.Role    { return c.role }

func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(errApplyTransitionCommandIsNotConstructed)
}
