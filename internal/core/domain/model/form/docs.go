// Package form contains the dynamic form model: typed field definitions
// arranged in a tree, the Form aggregate that owns them, and the flattened
// schema used to validate order field values.
//
// A form is authored by facility staff as an ordered forest of
// FieldDefinitions. Group-typed fields nest child definitions; table-typed
// fields carry lightweight column specs. Before orders are validated against
// a form the tree is flattened once, in document order, into an immutable
// FlatSchema. Schema construction fails fast on configuration defects such
// as duplicate identifiers or visibility conditions that reference
// non-scalar fields, so order validation can rely on a well-formed schema.
package form
