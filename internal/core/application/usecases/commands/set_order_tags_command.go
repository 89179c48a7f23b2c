package commands

import (
	"errors"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var errSetOrderTagsCommandIsNotConstructed = errors.New(
	"SetOrderTagsCommand is not constructed. Use NewSetOrderTagsCommand")

// SetOrderTagsCommand carries a full replacement tag list for an order.
// Namespaced tags in the submission are honored for staff only; the
// aggregate preserves existing namespaced tags for everyone else.
type SetOrderTagsCommand struct {
	guard   guard.ConstructorGuard
	orderID kernel.UUID
	tags    []string
	role    kernel.Role
}

func NewSetOrderTagsCommand(orderID kernel.UUID, tags []string,
	role kernel.Role) (SetOrderTagsCommand, error) {
	var cmd SetOrderTagsCommand
	err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRole(role),
	)
	if err != nil {
		return SetOrderTagsCommand{}, err
	}

	cmd.tags = tags
	cmd.guard = guard.NewConstructorGuard()
	return cmd, nil
}

func (c *SetOrderTagsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	c.orderID = orderID
	return nil
}

func (c *SetOrderTagsCommand) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("role", err)
	}
	c.role = role
	return nil
}

func (c SetOrderTagsCommand) OrderID() kernel.UUID { return c.orderID }
func (c SetOrderTagsCommand) Tags() []string       { return c.tags }
func (c SetOrderTagsCommand) Role() kernel.Role    { return c.role }

func (c SetOrderTagsCommand) Validate() error {
	return c.guard.Validate(errSetOrderTagsCommandIsNotConstructed)
}
