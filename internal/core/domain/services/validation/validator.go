// Package validation implements the field value validator of the portal.
//
// Given a form's flattened schema, an order's current values, and a set of
// incoming updates, Validate type-checks and coerces every field value,
// applies conditional-visibility skip rules, and produces the updated value
// map together with a structured map of per-field failure reasons. Failures
// are collected, never raised: a submission with three invalid fields
// reports all three reasons at once.
//
// Validation walks the definition tree in document order. Leaves are judged
// directly; a group's validity is derived from its descendants after they
// have all been validated, so group entries in the invalid map always
// reflect the final state of their subtree.
package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
)

// Failure reasons surfaced in the invalid map. These strings are shown to
// the submitting user next to the field.
const (
	reasonMissing      = "missing value"
	reasonNotText      = "not a text value"
	reasonNotEmail     = "not a valid email address"
	reasonNotInt       = "not an integer value"
	reasonNotFloat     = "not a float value"
	reasonNotBoolean   = "not a boolean value"
	reasonNotURL       = "not a valid URL"
	reasonNotDate      = "not a date (YYYY-MM-DD)"
	reasonNotChoice    = "not one of the allowed choices"
	reasonNotList      = "not a list of choices"
	reasonMalformedRow = "malformed table row"
	reasonSubfields    = "subfield(s) invalid"
)

// Options adjust update-extraction semantics for the input channel.
type Options struct {
	// FormEncoded applies HTML form semantics: a boolean field missing
	// from the updates coerces to an explicit false (unchecked checkbox)
	// and a missing multiselect to an explicit empty selection. With
	// structured input, omission always means "no change".
	FormEncoded bool

	// Role is the acting role. Updates to restrict_write fields from
	// non-staff roles are ignored; the stored value is validated instead.
	Role kernel.Role
}

// Result is the outcome of one validation run.
type Result struct {
	// Values holds the updated value map, one entry per schema leaf.
	Values map[string]any

	// Invalid maps field identifiers to failure reasons. Fields that are
	// valid, or hidden by a visibility condition, are absent.
	Invalid map[string]string

	// Changed lists the identifiers whose stored value differs from the
	// previous one, in document order. No-op updates are not recorded.
	Changed []string
}

// Validate checks incoming updates against the schema and the order's
// current values. It is a pure function: neither input map is mutated.
//
// Visibility conditions are evaluated against the already-applied values,
// so a field whose driving field is updated in the same call sees the new
// value when the driving field precedes it in document order.
func Validate(schema *form.FlatSchema, current, updates map[string]any, opts Options) Result {
	run := &runState{
		opts:    opts,
		updates: updates,
		prior:   current,
		result: Result{
			Values:  make(map[string]any, schema.Len()),
			Invalid: make(map[string]string),
		},
	}

	for _, leaf := range schema.LeafIDs() {
		run.result.Values[leaf] = current[leaf]
	}

	for _, root := range schema.Roots() {
		run.validateNode(root, false)
	}

	return run.result
}

type runState struct {
	opts    Options
	updates map[string]any
	prior   map[string]any
	result  Result
}

// validateNode validates one definition subtree and reports whether it is
// valid. hidden marks subtrees suppressed by an ancestor's visibility
// condition: their values stay untouched and they are always valid.
func (r *runState) validateNode(f *form.FieldDefinition, hidden bool) bool {
	hidden = hidden || !r.visible(f)

	if f.Type == form.TypeGroup {
		valid := true
		for i := range f.Children {
			if !r.validateNode(&f.Children[i], hidden) {
				valid = false
			}
		}
		if !valid {
			r.result.Invalid[f.ID] = reasonSubfields
		}
		return valid
	}

	if hidden {
		return true
	}

	candidate, submitted := r.extractUpdate(f)
	coerced, reason := coerce(f, candidate)

	var stored any
	switch {
	case coerced == nil && f.Required:
		// Required overrides the type-specific reason: an empty
		// submission reads as missing, not as a bad value.
		r.result.Invalid[f.ID] = reasonMissing
		stored = coerced
	case reason != "":
		r.result.Invalid[f.ID] = reason
		// Keep the submitted value so the user sees what failed.
		stored = candidate
	default:
		stored = coerced
	}

	r.result.Values[f.ID] = stored
	if submitted && !equivalent(r.prior[f.ID], stored) {
		r.result.Changed = append(r.result.Changed, f.ID)
	}
	return reason == "" && !(coerced == nil && f.Required)
}

// equivalent compares two field values irrespective of the Go
// representation they arrived in. Freshly coerced values carry int64,
// []string and [][]any, while values reloaded from the JSON storage
// columns come back as float64 and []any; a resubmission of an unchanged
// value must not read as a change in either direction.
func equivalent(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if na, aIsNumber := toNumber(a); aIsNumber {
		nb, bIsNumber := toNumber(b)
		return bIsNumber && na == nb
	}

	if la, aIsList := toList(a); aIsList {
		lb, bIsList := toList(b)
		if !bIsList || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equivalent(la[i], lb[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// visible evaluates the field's own visibility condition against the
// already-applied values. Comparison is case-insensitive on the string
// forms, and the expected value may list |-delimited alternatives.
func (r *runState) visible(f *form.FieldDefinition) bool {
	if f.VisibleIfField == "" {
		return true
	}

	actual := valueString(r.result.Values[f.VisibleIfField])
	for _, alternative := range strings.Split(f.VisibleIfValue, "|") {
		if strings.EqualFold(actual, alternative) {
			return true
		}
	}
	return false
}

// extractUpdate resolves the candidate value for a field and whether an
// effective update was submitted for it.
func (r *runState) extractUpdate(f *form.FieldDefinition) (any, bool) {
	if f.RestrictWrite && !r.opts.Role.IsStaff() {
		return r.prior[f.ID], false
	}

	if v, ok := r.updates[f.ID]; ok {
		return v, true
	}

	if r.opts.FormEncoded {
		// Unchecked checkboxes and cleared multiselects are simply
		// absent from form-encoded submissions.
		switch f.Type {
		case form.TypeBoolean:
			return false, true
		case form.TypeMultiSelect:
			return []any{}, true
		}
	}

	return r.prior[f.ID], false
}

// coerce type-checks and converts a candidate value per the field's type.
// It returns the coerced value and an empty reason on success, or a nil
// coerced value alongside the original reason on failure. A nil result with
// an empty reason means "no value", which only the required rule rejects.
func coerce(f *form.FieldDefinition, v any) (any, string) {
	if v == nil {
		return nil, ""
	}
	if s, ok := v.(string); ok && s == "" && f.Type != form.TypeText && f.Type != form.TypeString {
		return nil, ""
	}

	switch f.Type {
	case form.TypeString, form.TypeText:
		s, ok := v.(string)
		if !ok {
			return nil, reasonNotText
		}
		s = strings.ReplaceAll(s, "\r", "")
		if s == "" {
			return nil, ""
		}
		return s, ""

	case form.TypeEmail:
		s, ok := v.(string)
		if !ok || !kernel.IsEmail(s) {
			return nil, reasonNotEmail
		}
		return s, ""

	case form.TypeInt:
		return coerceInt(v)

	case form.TypeFloat:
		return coerceFloat(v)

	case form.TypeBoolean:
		return coerceBool(v)

	case form.TypeURL:
		s, ok := v.(string)
		if !ok {
			return nil, reasonNotURL
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, reasonNotURL
		}
		return s, ""

	case form.TypeDate:
		s, ok := v.(string)
		if !ok || !kernel.IsDate(s) {
			return nil, reasonNotDate
		}
		return s, ""

	case form.TypeSelect:
		s, ok := v.(string)
		if !ok || !containsOption(f.Options, s) {
			return nil, reasonNotChoice
		}
		return s, ""

	case form.TypeMultiSelect:
		return coerceMultiSelect(f.Options, v)

	case form.TypeTable:
		return coerceTable(f.Columns, v)

	case form.TypeFile:
		// File values are managed by the upload side channel; no shape
		// validation happens here.
		return v, ""
	}

	return nil, fmt.Sprintf("unsupported field type %s", f.Type)
}

func coerceInt(v any) (any, string) {
	switch n := v.(type) {
	case int:
		return int64(n), ""
	case int64:
		return n, ""
	case float64:
		if n == float64(int64(n)) {
			return int64(n), ""
		}
		return nil, reasonNotInt
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, reasonNotInt
		}
		return parsed, ""
	default:
		return nil, reasonNotInt
	}
}

func coerceFloat(v any) (any, string) {
	switch n := v.(type) {
	case int:
		return float64(n), ""
	case int64:
		return float64(n), ""
	case float64:
		return n, ""
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, reasonNotFloat
		}
		return parsed, ""
	default:
		return nil, reasonNotFloat
	}
}

// Boolean token sets, matched case-insensitively. Anything outside them is
// invalid rather than defaulted.
var (
	trueTokens  = map[string]struct{}{"true": {}, "yes": {}, "t": {}, "y": {}, "1": {}}
	falseTokens = map[string]struct{}{"false": {}, "no": {}, "f": {}, "n": {}, "0": {}}
)

func coerceBool(v any) (any, string) {
	switch b := v.(type) {
	case bool:
		return b, ""
	case string:
		token := strings.ToLower(strings.TrimSpace(b))
		if _, ok := trueTokens[token]; ok {
			return true, ""
		}
		if _, ok := falseTokens[token]; ok {
			return false, ""
		}
		return nil, reasonNotBoolean
	case float64:
		if b == 1 {
			return true, ""
		}
		if b == 0 {
			return false, ""
		}
		return nil, reasonNotBoolean
	default:
		return nil, reasonNotBoolean
	}
}

func coerceMultiSelect(options []string, v any) (any, string) {
	members, ok := toList(v)
	if !ok {
		return nil, reasonNotList
	}

	// Form-encoded input submits [""] when nothing is selected; empty
	// members carry no selection and are dropped.
	selection := make([]string, 0, len(members))
	for _, member := range members {
		s, isString := member.(string)
		if !isString {
			return nil, reasonNotChoice
		}
		if s == "" {
			continue
		}
		if !containsOption(options, s) {
			return nil, reasonNotChoice
		}
		selection = append(selection, s)
	}

	if len(selection) == 0 {
		return nil, ""
	}
	return selection, ""
}

// coerceTable coerces a table value row by row. Cells that fail their
// column's coercion become nil instead of rejecting the whole row; a row
// survives only if its first cell is non-nil afterwards. A value with no
// surviving rows coerces to nil so the required rule can reject it.
func coerceTable(columns []form.ColumnSpec, v any) (any, string) {
	rows, ok := toList(v)
	if !ok {
		return nil, reasonMalformedRow
	}

	kept := make([][]any, 0, len(rows))
	for _, rawRow := range rows {
		cells, rowOK := toList(rawRow)
		if !rowOK || len(cells) != len(columns) {
			return nil, reasonMalformedRow
		}

		row := make([]any, len(columns))
		for i, col := range columns {
			cell := form.FieldDefinition{ID: col.ID, Type: col.Type, Options: col.Options}
			coerced, reason := coerce(&cell, cells[i])
			if reason != "" {
				coerced = nil
			}
			row[i] = coerced
		}

		if row[0] != nil {
			kept = append(kept, row)
		}
	}

	if len(kept) == 0 {
		return nil, ""
	}
	return kept, ""
}

// toList normalizes list-shaped input. JSON decoding yields []any while
// in-process callers may pass []string.
func toList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []string:
		members := make([]any, len(list))
		for i, s := range list {
			members[i] = s
		}
		return members, true
	case [][]any:
		members := make([]any, len(list))
		for i, row := range list {
			members[i] = row
		}
		return members, true
	default:
		return nil, false
	}
}

func containsOption(options []string, v string) bool {
	for _, option := range options {
		if option == v {
			return true
		}
	}
	return false
}

// valueString renders a scalar value the way the visibility gate compares
// it: nil as the empty string, everything else via its default formatting.
func valueString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
