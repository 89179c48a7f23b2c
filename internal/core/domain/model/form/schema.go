package form

import (
	"fmt"

	"orderportal/internal/pkg/errs"
)

// FlatSchema is the flattened, lookup-indexed view of a field-definition
// tree. Flattening is pre-order depth-first: group nodes are replaced in
// place by their flattened children (tagged with their depth) and do not
// appear in the output themselves.
//
// Field ordering is significant: it determines presentation order and the
// order validation runs in, which earlier fields' values rely on when they
// drive visibility conditions of later fields.
//
// Build a FlatSchema with BuildSchema; apart from Add, used by the
// form-editing pages, a built schema is immutable.
type FlatSchema struct {
	roots []*FieldDefinition
	flat  []*FieldDefinition
	index map[string]*FieldDefinition

	// all tracks every identifier in the tree, group nodes included, so
	// duplicates are rejected no matter at which depth they reappear.
	all map[string]struct{}
}

// BuildSchema flattens a field-definition forest into a FlatSchema.
//
// The input is deep-copied, each node is validated, depth is computed from
// nesting, and identifiers are checked for uniqueness across the whole tree.
// An identifier reused at any depth fails with ErrDuplicateIdentifier rather
// than silently overwriting the earlier entry, since downstream code assumes
// first-writer uniqueness. Visibility conditions must reference a flattened,
// scalar-typed field.
//
// An empty field list yields a valid, empty schema.
func BuildSchema(fields []FieldDefinition) (*FlatSchema, error) {
	s := &FlatSchema{
		index: make(map[string]*FieldDefinition),
		all:   make(map[string]struct{}),
	}

	for _, f := range fields {
		node := f.clone()
		if err := s.flatten(&node, 0); err != nil {
			return nil, err
		}
		s.roots = append(s.roots, &node)
	}

	if err := s.checkVisibilityReferences(); err != nil {
		return nil, err
	}

	return s, nil
}

// flatten walks one subtree pre-order, assigning depths and registering
// every non-group node in document order.
func (s *FlatSchema) flatten(f *FieldDefinition, depth int) error {
	if err := f.validate(); err != nil {
		return err
	}
	if _, dup := s.all[f.ID]; dup {
		return errs.NewDuplicateIdentifierError("field", f.ID)
	}
	s.all[f.ID] = struct{}{}

	f.Depth = depth
	if f.Type == TypeGroup {
		for i := range f.Children {
			if err := s.flatten(&f.Children[i], depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	s.flat = append(s.flat, f)
	s.index[f.ID] = f
	return nil
}

// checkVisibilityReferences verifies that every visible_if_field condition
// in the tree points at an existing scalar-typed field. Multiselect- and
// table-driven visibility is undefined behavior in the portal and is
// rejected at construction so it cannot occur at validation time.
func (s *FlatSchema) checkVisibilityReferences() error {
	var walk func(f *FieldDefinition) error
	walk = func(f *FieldDefinition) error {
		if f.VisibleIfField != "" {
			ref, ok := s.index[f.VisibleIfField]
			if !ok {
				return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
					fmt.Errorf("visibility condition references unknown field %q", f.VisibleIfField))
			}
			if !ref.Type.IsScalar() {
				return errs.NewValueIsInvalidErrorWithCause("field "+f.ID,
					fmt.Errorf("visibility condition references non-scalar field %q of type %s", ref.ID, ref.Type))
			}
		}
		for i := range f.Children {
			if err := walk(&f.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range s.roots {
		if err := walk(root); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns the flattened fields in document order.
// The returned slice and its elements must be treated as read-only.
func (s *FlatSchema) Fields() []*FieldDefinition {
	return s.flat
}

// Roots returns the deep-copied definition forest with depths assigned.
// The validator walks this tree so group validity can be derived from the
// validity of each group's descendants.
func (s *FlatSchema) Roots() []*FieldDefinition {
	return s.roots
}

// Len returns the number of flattened (non-group) fields.
func (s *FlatSchema) Len() int {
	return len(s.flat)
}

// Contains reports whether identifier names a flattened field.
func (s *FlatSchema) Contains(identifier string) bool {
	_, ok := s.index[identifier]
	return ok
}

// Lookup returns the flattened field with the given identifier.
// Returns an ObjectNotFoundError if the schema has no such field.
func (s *FlatSchema) Lookup(identifier string) (*FieldDefinition, error) {
	f, ok := s.index[identifier]
	if !ok {
		return nil, errs.NewObjectNotFoundError("field", identifier)
	}
	return f, nil
}

// LeafIDs returns the identifiers of all flattened fields in document
// order. Every one of these must have a (possibly nil) entry in an order's
// field-value map.
func (s *FlatSchema) LeafIDs() []string {
	ids := make([]string, len(s.flat))
	for i, f := range s.flat {
		ids[i] = f.ID
	}
	return ids
}

// Add appends a new top-level leaf field to the live tree. It is used by
// the form-editing pages, never during order validation. Group-typed
// definitions cannot be added this way; author them in the tree and rebuild.
// Fails with ErrDuplicateIdentifier if the identifier is already present at
// any depth.
func (s *FlatSchema) Add(def FieldDefinition) error {
	if def.Type == TypeGroup {
		return errs.NewValueIsInvalidErrorWithCause("field "+def.ID,
			fmt.Errorf("group fields cannot be appended to a built schema"))
	}

	node := def.clone()
	if node.VisibleIfField != "" {
		ref, ok := s.index[node.VisibleIfField]
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause("field "+node.ID,
				fmt.Errorf("visibility condition references unknown field %q", node.VisibleIfField))
		}
		if !ref.Type.IsScalar() {
			return errs.NewValueIsInvalidErrorWithCause("field "+node.ID,
				fmt.Errorf("visibility condition references non-scalar field %q of type %s", ref.ID, ref.Type))
		}
	}

	if err := s.flatten(&node, 0); err != nil {
		return err
	}
	s.roots = append(s.roots, &node)
	return nil
}
