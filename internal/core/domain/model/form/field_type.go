package form

import (
	"fmt"

	"orderportal/internal/pkg/errs"
)

// FieldType identifies how a field's value is shaped, coerced, and
// validated. It is a closed enum so the validator can match exhaustively
// instead of comparing type names as strings.
type FieldType int

const (
	// TypeUnknown represents an invalid or undefined field type.
	// This value (0) helps catch uninitialized FieldType values.
	TypeUnknown FieldType = iota

	// TypeString is a single-line text value.
	TypeString

	// TypeEmail is a string that must match the local@domain.tld shape.
	TypeEmail

	// TypeInt is an integer value, coerced from textual input.
	TypeInt

	// TypeFloat is a floating point value, coerced from textual input.
	TypeFloat

	// TypeBoolean is a checkbox value. Form-encoded input treats an
	// absent update as an explicit false.
	TypeBoolean

	// TypeURL is a string that must parse to a URL with scheme and host.
	TypeURL

	// TypeSelect is a single choice out of the field's option list.
	TypeSelect

	// TypeMultiSelect is a list of choices out of the field's option list.
	TypeMultiSelect

	// TypeText is a multi-line text value.
	TypeText

	// TypeDate is a YYYY-MM-DD calendar date string.
	TypeDate

	// TypeTable is a list of rows, each a list of cells coerced per the
	// field's column specs.
	TypeTable

	// TypeFile is an attachment reference; the value shape is managed by
	// the file-upload side channel and not validated here.
	TypeFile

	// TypeGroup is a structural node that owns child definitions. Groups
	// contribute no value of their own and do not appear in flattened
	// schemas.
	TypeGroup
)

// getFieldTypeStrings returns a map of FieldType values to their string
// representations as used in persisted form definitions.
func getFieldTypeStrings() map[FieldType]string {
	return map[FieldType]string{
		TypeUnknown:     "unknown",
		TypeString:      "string",
		TypeEmail:       "email",
		TypeInt:         "int",
		TypeFloat:       "float",
		TypeBoolean:     "boolean",
		TypeURL:         "url",
		TypeSelect:      "select",
		TypeMultiSelect: "multiselect",
		TypeText:        "text",
		TypeDate:        "date",
		TypeTable:       "table",
		TypeFile:        "file",
		TypeGroup:       "group",
	}
}

// ParseFieldType converts a persisted type name into a FieldType.
// Returns an error for names that identify no known type.
func ParseFieldType(s string) (FieldType, error) {
	for ft, str := range getFieldTypeStrings() {
		if str == s && ft != TypeUnknown {
			return ft, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("field type", fmt.Errorf("%q is not a valid field type", s))
}

// String returns the lowercase name of the field type, "unknown" for
// invalid values. This method implements the fmt.Stringer interface.
func (t FieldType) String() string {
	if str, ok := getFieldTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the FieldType value is valid.
// TypeUnknown (0) and out-of-range values are invalid.
func (t FieldType) Validate() error {
	if t <= TypeUnknown || t > TypeGroup {
		return errs.NewValueIsInvalidErrorWithCause("field type", fmt.Errorf("%d is not a valid field type", t))
	}
	return nil
}

// HasOptions reports whether values of this type are constrained to an
// option list.
func (t FieldType) HasOptions() bool {
	return t == TypeSelect || t == TypeMultiSelect
}

// IsScalar reports whether a value of this type is a single comparable
// token. Only scalar-typed fields may drive visibility conditions and only
// scalar types may appear as table columns.
func (t FieldType) IsScalar() bool {
	switch t {
	case TypeString, TypeEmail, TypeInt, TypeFloat, TypeBoolean, TypeURL, TypeSelect, TypeText, TypeDate:
		return true
	default:
		return false
	}
}
