package commands

import (
	"errors"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var errCloneOrderCommandIsNotConstructed = errors.New(
	"CloneOrderCommand is not constructed. Use NewCloneOrderCommand")

// CloneOrderCommand carries a request to open a new order prefilled from
// an existing one. Ownership stays with the source order's owner.
type CloneOrderCommand struct {
	guard    guard.ConstructorGuard
	sourceID kernel.UUID
	newID    kernel.UUID
}

func NewCloneOrderCommand(sourceID kernel.UUID, newID kernel.UUID) (CloneOrderCommand, error) {
	var cmd CloneOrderCommand
	err := errors.Join(
		cmd.setSourceID(sourceID),
		cmd.setNewID(newID),
	)
	if err != nil {
		return CloneOrderCommand{}, err
	}

	cmd.guard = guard.NewConstructorGuard()
	return cmd, nil
}

func (c *CloneOrderCommand) setSourceID(sourceID kernel.UUID) error {
	if err := sourceID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("sourceID", err)
	}
	c.sourceID = sourceID
	return nil
}

func (c *CloneOrderCommand) setNewID(newID kernel.UUID) error {
	if err := newID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("newID", err)
	}
	c.newID = newID
	return nil
}

func (c CloneOrderCommand) SourceID() kernel.UUID { return c.sourceID }
func (c CloneOrderCommand) NewID() kernel.UUID    { return c.newID }

func (c CloneOrderCommand) Validate() error {
	return c.guard.Validate(errCloneOrderCommandIsNotConstructed)
}
