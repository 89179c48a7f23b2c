package commands

import (
	"errors"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var errSetExternalLinksCommandIsNotConstructed = errors.New(
	"SetExternalLinksCommand is not constructed. Use NewSetExternalLinksCommand")

// SetExternalLinksCommand carries a full replacement of the external
// resource links attached to an order.
type SetExternalLinksCommand struct {
	guard   guard.ConstructorGuard
	orderID kernel.UUID
	links   []order.ExternalLink
}

func NewSetExternalLinksCommand(orderID kernel.UUID,
	links []order.ExternalLink) (SetExternalLinksCommand, error) {
	var cmd SetExternalLinksCommand
	if err := cmd.setOrderID(orderID); err != nil {
		return SetExternalLinksCommand{}, err
	}

	cmd.links = links
	cmd.guard = guard.NewConstructorGuard()
	return cmd, nil
}

func (c *SetExternalLinksCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	c.orderID = orderID
	return nil
}

func (c SetExternalLinksCommand) OrderID() kernel.UUID        { return c.orderID }
func (c SetExternalLinksCommand) Links() []order.ExternalLink { return c.links }

func (c SetExternalLinksCommand) Validate() error {
	return c.guard.Validate(errSetExternalLinksCommandIsNotConstructed)
}
