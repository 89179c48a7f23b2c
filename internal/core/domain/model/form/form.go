package form

import (
	"errors"
	"fmt"
	"time"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
	"orderportal/internal/pkg/guard"
)

var (
	// ErrFormIsNotConstructed is returned when a Form instance was not
	// created through NewForm or RestoreForm.
	ErrFormIsNotConstructed = errors.New("Form must be created via NewForm or RestoreForm")

	// ErrFormTitleIsRequired is returned when a form is created without a title.
	ErrFormTitleIsRequired = errs.NewValueIsRequiredError("form title")
)

// FormStatus represents the publication state of a form.
// Only enabled and testing forms accept new orders.
type FormStatus int

const (
	// FormUnknown represents an invalid or undefined form status.
	FormUnknown FormStatus = iota

	// FormPending is a form still being authored.
	FormPending

	// FormTesting is a form open to staff for trial orders.
	FormTesting

	// FormEnabled is a published form open for order submission.
	FormEnabled

	// FormDisabled is a retired form that accepts no new orders.
	FormDisabled
)

// getFormStatusStrings returns a map of FormStatus values to their string
// representations.
func getFormStatusStrings() map[FormStatus]string {
	return map[FormStatus]string{
		FormUnknown:  "unknown",
		FormPending:  "pending",
		FormTesting:  "testing",
		FormEnabled:  "enabled",
		FormDisabled: "disabled",
	}
}

// ParseFormStatus converts a persisted status name into a FormStatus.
func ParseFormStatus(s string) (FormStatus, error) {
	for fs, str := range getFormStatusStrings() {
		if str == s && fs != FormUnknown {
			return fs, nil
		}
	}
	return FormUnknown, errs.NewValueIsInvalidErrorWithCause("form status", fmt.Errorf("%q is not a valid form status", s))
}

// String returns the lowercase name of the status, "unknown" for invalid
// values. This method implements the fmt.Stringer interface.
func (s FormStatus) String() string {
	if str, ok := getFormStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the FormStatus value is valid.
func (s FormStatus) Validate() error {
	if s <= FormUnknown || s > FormDisabled {
		return errs.NewValueIsInvalidErrorWithCause("form status", fmt.Errorf("%d is not a valid form status", s))
	}
	return nil
}

// AcceptsOrders reports whether orders may be created against a form in
// this status.
func (s FormStatus) AcceptsOrders() bool {
	return s == FormEnabled || s == FormTesting
}

// Form is the aggregate owning an ordered forest of field definitions.
// Forms are authored by staff, versioned on every edit, and fetched once per
// order operation for schema resolution. Order operations never mutate a
// form.
//
// Form maintains these invariants:
//   - The title is non-empty
//   - The status is a member of the FormStatus enum
//   - The field tree builds into a valid FlatSchema (unique identifiers,
//     well-formed types, resolvable visibility conditions)
type Form struct {
	id        kernel.UUID
	title     string
	version   int
	status    FormStatus
	fields    []FieldDefinition
	schema    *FlatSchema
	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewForm creates a form at version 1 in pending status.
// The field tree is flattened immediately; construction fails on any schema
// defect so a stored form is always resolvable.
func NewForm(id kernel.UUID, title string, fields []FieldDefinition) (*Form, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrFormTitleIsRequired
	}

	schema, err := BuildSchema(fields)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Form{
		id:        id,
		title:     title,
		version:   1,
		status:    FormPending,
		fields:    fields,
		schema:    schema,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreForm reconstructs a form from persistence.
// All invariants are re-checked, including schema construction, so corrupt
// stored definitions surface as errors at load time rather than during
// validation.
func RestoreForm(
	id kernel.UUID,
	title string,
	version int,
	status FormStatus,
	fields []FieldDefinition,
	createdAt, updatedAt time.Time,
) (*Form, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrFormTitleIsRequired
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("form version",
			fmt.Errorf("%d is not a positive version", version))
	}

	schema, err := BuildSchema(fields)
	if err != nil {
		return nil, err
	}

	return &Form{
		id:        id,
		title:     title,
		version:   version,
		status:    status,
		fields:    fields,
		schema:    schema,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Form instance was properly constructed.
func (f *Form) Validate() error {
	if f == nil {
		return ErrFormIsNotConstructed
	}
	return f.guard.Validate(ErrFormIsNotConstructed)
}

// ID returns the form's unique identifier.
func (f *Form) ID() kernel.UUID {
	return f.id
}

// Title returns the form's title.
func (f *Form) Title() string {
	return f.title
}

// Version returns the form's version, incremented on every edit.
func (f *Form) Version() int {
	return f.version
}

// Status returns the form's publication status.
func (f *Form) Status() FormStatus {
	return f.status
}

// Fields returns the definition forest as authored.
// The returned slice must be treated as read-only.
func (f *Form) Fields() []FieldDefinition {
	return f.fields
}

// Schema returns the flattened schema resolved at construction time.
func (f *Form) Schema() *FlatSchema {
	return f.schema
}

// CreatedAt returns the creation timestamp.
func (f *Form) CreatedAt() time.Time {
	return f.createdAt
}

// UpdatedAt returns the last-edit timestamp.
func (f *Form) UpdatedAt() time.Time {
	return f.updatedAt
}

// SetStatus moves the form to a new publication status.
func (f *Form) SetStatus(status FormStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	f.status = status
	f.updatedAt = time.Now().UTC()
	return nil
}

// ReplaceFields installs a new field tree and bumps the version.
// The tree is flattened first; on any schema defect the form is unchanged.
func (f *Form) ReplaceFields(fields []FieldDefinition) error {
	schema, err := BuildSchema(fields)
	if err != nil {
		return err
	}

	f.fields = fields
	f.schema = schema
	f.version++
	f.updatedAt = time.Now().UTC()
	return nil
}
