package order

import (
	"errors"
	"fmt"
	"time"

	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder, RestoreOrder, or Clone.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder, RestoreOrder, or Clone")

	// ErrOrderTitleIsRequired is returned when an order is created without a title.
	ErrOrderTitleIsRequired = errs.NewValueIsRequiredError("order title")

	// ErrFormNotAcceptingOrders is returned when creating an order against
	// a form that is neither enabled nor in testing.
	ErrFormNotAcceptingOrders = errors.New("form does not accept orders in its current status")
)

// ExternalLink is a titled URL attached to an order, pointing at related
// resources outside the portal.
type ExternalLink struct {
	Href  string
	Title string
}

// Order represents one submission against a form. It is the aggregate root
// that owns the field values, validation state, status history, tags,
// external links, and attachment names of the submission.
//
// Order uses private fields to ensure encapsulation and maintains its
// invariants through validated methods. Use NewOrder to create orders and
// RestoreOrder to reconstruct them from persistence.
type Order struct {
	id          kernel.UUID
	number      string
	formID      kernel.UUID
	formVersion int
	title       string
	owner       string
	status      string

	// version is the optimistic-concurrency revision; the repository
	// checks it on update and bumps it on success.
	version int

	values  map[string]any
	invalid map[string]string
	history map[string]string

	tags        []string
	links       []ExternalLink
	attachments []string

	createdAt time.Time
	updatedAt time.Time

	// changed holds the identifiers mutated by the most recent field
	// operation; it is the sole input to the audit log entry.
	changed []string

	// isConstructed ensures the order was created via a constructor.
	isConstructed bool
}

// NewOrder creates an order against the given form. The form must be in a
// status that accepts orders. Every leaf field of the form's schema gets a
// nil entry in the value map, and the initial status is stamped into
// history with today's date.
//
// Parameters:
//   - id: unique identifier for the order
//   - number: the formatted sequential order number
//   - f: the owning form (resolved schema included)
//   - title: submission title (required)
//   - owner: account identifier of the submitting user
//   - initialStatus: the workflow's initial status identifier
func NewOrder(id kernel.UUID, number string, f *form.Form, title, owner, initialStatus string) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrOrderTitleIsRequired
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if owner == "" {
		return nil, errs.NewValueIsRequiredError("order owner")
	}
	if !kernel.IsIdentifier(initialStatus) {
		return nil, errs.NewValueIsInvalidErrorWithCause("initial status",
			fmt.Errorf("%q does not match the identifier pattern", initialStatus))
	}
	if !f.Status().AcceptsOrders() {
		return nil, ErrFormNotAcceptingOrders
	}

	values := make(map[string]any, f.Schema().Len())
	for _, leaf := range f.Schema().LeafIDs() {
		values[leaf] = nil
	}

	now := time.Now().UTC()
	return &Order{
		id:            id,
		number:        number,
		formID:        f.ID(),
		formVersion:   f.Version(),
		title:         title,
		owner:         owner,
		status:        initialStatus,
		version:       1,
		values:        values,
		invalid:       make(map[string]string),
		history:       map[string]string{initialStatus: now.Format(kernel.DateLayout)},
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running
// creation rules. Values, invalid, and history maps are taken as stored.
func RestoreOrder(
	id kernel.UUID,
	number string,
	formID kernel.UUID,
	formVersion int,
	title, owner, status string,
	version int,
	values map[string]any,
	invalid map[string]string,
	history map[string]string,
	tags []string,
	links []ExternalLink,
	attachments []string,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), formID.Validate()); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrOrderTitleIsRequired
	}
	if !kernel.IsIdentifier(status) {
		return nil, errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%q does not match the identifier pattern", status))
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("order version")
	}

	if values == nil {
		values = make(map[string]any)
	}
	if invalid == nil {
		invalid = make(map[string]string)
	}
	if history == nil {
		history = make(map[string]string)
	}

	return &Order{
		id:            id,
		number:        number,
		formID:        formID,
		formVersion:   formVersion,
		title:         title,
		owner:         owner,
		status:        status,
		version:       version,
		values:        values,
		invalid:       invalid,
		history:       history,
		tags:          tags,
		links:         links,
		attachments:   attachments,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed for nil or directly instantiated orders.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the formatted sequential order number.
func (o *Order) Number() string {
	return o.number
}

// FormID returns the identifier of the owning form.
func (o *Order) FormID() kernel.UUID {
	return o.formID
}

// FormVersion returns the version of the form the order was created from.
func (o *Order) FormVersion() int {
	return o.formVersion
}

// Title returns the submission title.
func (o *Order) Title() string {
	return o.title
}

// Owner returns the account identifier of the submitting user.
func (o *Order) Owner() string {
	return o.owner
}

// Status returns the current workflow status identifier.
func (o *Order) Status() string {
	return o.status
}

// Version returns the optimistic-concurrency revision the order was
// loaded at.
func (o *Order) Version() int {
	return o.version
}

// Values returns the field value map keyed by leaf field identifiers.
// The returned map must be treated as read-only.
func (o *Order) Values() map[string]any {
	return o.values
}

// FieldValue returns the value of one field and whether the field exists.
func (o *Order) FieldValue(identifier string) (any, bool) {
	v, ok := o.values[identifier]
	return v, ok
}

// Invalid returns the map of field identifiers to validation failure
// reasons. An empty map means the order is valid.
// The returned map must be treated as read-only.
func (o *Order) Invalid() map[string]string {
	return o.invalid
}

// HasInvalidFields reports whether any field currently fails validation.
func (o *Order) HasInvalidFields() bool {
	return len(o.invalid) > 0
}

// History returns the map of status identifiers to the date each status
// was first entered. The returned map must be treated as read-only.
func (o *Order) History() map[string]string {
	return o.history
}

// Tags returns the order's tags, deduplicated and sorted.
func (o *Order) Tags() []string {
	return o.tags
}

// ExternalLinks returns the order's external links.
func (o *Order) ExternalLinks() []ExternalLink {
	return o.links
}

// Attachments returns the stored attachment names.
func (o *Order) Attachments() []string {
	return o.attachments
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last-modification timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ChangedFields returns the identifiers mutated by the most recent field
// operation, in schema document order. This change set feeds the audit log.
func (o *Order) ChangedFields() []string {
	return o.changed
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}
