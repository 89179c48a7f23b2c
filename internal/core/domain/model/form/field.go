package form

import (
	"fmt"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
)

// ColumnSpec describes one column of a table-typed field. Columns are
// lightweight specs rather than full field definitions: they have no
// nesting, no visibility conditions, and no required flag of their own.
type ColumnSpec struct {
	// ID identifies the column within its table.
	ID string

	// Type is the scalar type cells of this column are coerced to.
	Type FieldType

	// Options constrains select-typed columns to a value list.
	Options []string
}

// FieldDefinition describes one field of a form. Definitions form a tree:
// group-typed fields own child definitions, every other type is a leaf.
// Once a definition tree has been flattened into a FlatSchema it is treated
// as immutable for validation purposes.
type FieldDefinition struct {
	// ID is the field identifier, unique within the form across all
	// depths, matching the identifier pattern.
	ID string

	// Label is the human-readable caption shown next to the field.
	Label string

	// Type determines value shape, coercion, and validation.
	Type FieldType

	// Required marks the field as mandatory when visible.
	Required bool

	// RestrictRead hides the field's value from non-staff readers.
	RestrictRead bool

	// RestrictWrite limits edits of the field to staff.
	RestrictWrite bool

	// Description is optional help text.
	Description string

	// Depth is the nesting level, computed during flattening. Top-level
	// fields have depth 0.
	Depth int

	// VisibleIfField names another field whose value gates visibility.
	// The referenced field must be scalar-typed.
	VisibleIfField string

	// VisibleIfValue is the value (or |-delimited alternatives) the
	// referenced field must hold, compared case-insensitively as strings.
	VisibleIfValue string

	// Options constrains select and multiselect values.
	Options []string

	// Columns describes the cells of table-typed fields.
	Columns []ColumnSpec

	// EraseOnClone drops the field's value when an order is cloned.
	EraseOnClone bool

	// Children holds nested definitions of group-typed fields.
	Children []FieldDefinition
}

// validate checks the definition's own shape, ignoring its children.
// Cross-field rules such as identifier uniqueness and visibility references
// are checked during flattening, where the whole tree is in view.
func (f *FieldDefinition) validate() error {
	if !kernel.IsIdentifier(f.ID) {
		return errs.NewValueIsInvalidErrorWithCause("field identifier",
			fmt.Errorf("%q does not match the identifier pattern", f.ID))
	}
	if err := f.Type.Validate(); err != nil {
		return err
	}

	switch f.Type {
	case TypeGroup:
		if len(f.Children) == 0 {
			return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
				fmt.Errorf("group field has no children"))
		}
	case TypeSelect, TypeMultiSelect:
		if len(f.Options) == 0 {
			return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
				fmt.Errorf("%s field has no options", f.Type))
		}
	case TypeTable:
		if len(f.Columns) == 0 {
			return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
				fmt.Errorf("table field has no columns"))
		}
		seen := make(map[string]struct{}, len(f.Columns))
		for _, col := range f.Columns {
			if !kernel.IsIdentifier(col.ID) {
				return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
					fmt.Errorf("column identifier %q does not match the identifier pattern", col.ID))
			}
			if _, dup := seen[col.ID]; dup {
				return errs.NewDuplicateIdentifierError("table column", col.ID)
			}
			seen[col.ID] = struct{}{}
			if !col.Type.IsScalar() {
				return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
					fmt.Errorf("column %q has non-scalar type %s", col.ID, col.Type))
			}
			if col.Type == TypeSelect && len(col.Options) == 0 {
				return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
					fmt.Errorf("select column %q has no options", col.ID))
			}
		}
	}

	if f.Type != TypeGroup && len(f.Children) > 0 {
		return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
			fmt.Errorf("%s field cannot have children", f.Type))
	}

	return nil
}

// clone returns a deep copy of the definition and its subtree, so that
// flattened schemas do not alias the caller's slices.
func (f FieldDefinition) clone() FieldDefinition {
	c := f
	if f.Options != nil {
		c.Options = append([]string(nil), f.Options...)
	}
	if f.Columns != nil {
		c.Columns = make([]ColumnSpec, len(f.Columns))
		for i, col := range f.Columns {
			c.Columns[i] = col
			if col.Options != nil {
				c.Columns[i].Options = append([]string(nil), col.Options...)
			}
		}
	}
	if f.Children != nil {
		c.Children = make([]FieldDefinition, len(f.Children))
		for i, child := range f.Children {
			c.Children[i] = child.clone()
		}
	}
	return c
}
