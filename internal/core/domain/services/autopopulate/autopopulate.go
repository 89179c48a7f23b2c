// Package autopopulate derives initial order field values from account and
// university profile data at order creation time. It fills blanks only:
// values the user already provided are never overwritten.
package autopopulate

import (
	"sort"
	"strings"

	"orderportal/internal/core/domain/model/order"
)

// AccountProfile is the submitting user's account data as exposed by the
// accounts collaborator. Values may nest one level as maps for grouped
// data such as contact/address blocks.
type AccountProfile map[string]any

// UniversityProfile is the per-institution default value set maintained by
// facility staff. It takes precedence over account data.
type UniversityProfile map[string]string

// Populate fills empty order fields from profile data.
//
// For each target field with a source spec the value is resolved first
// from the university profile under the target identifier, then from the
// account profile under the source spec, either a direct key or a dotted
// "outer.inner" path into a nested map. A field is only written when its
// current value is nil or the empty string; numeric zero is a legitimate
// value and is left alone. Targets whose identifier contains "country"
// have resolved country codes translated to country names; unresolvable
// codes pass through unchanged.
func Populate(o *order.Order, account AccountProfile, university UniversityProfile, sources map[string]string) {
	targets := make([]string, 0, len(sources))
	for target := range sources {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		current, exists := o.FieldValue(target)
		if !exists || !isEmpty(current) {
			continue
		}

		value := resolve(target, sources[target], account, university)
		if value == nil || isEmpty(value) {
			continue
		}

		if strings.Contains(target, "country") {
			if s, ok := value.(string); ok {
				value = countryName(s)
			}
		}

		// The target existed above, so PopulateField cannot fail here.
		_ = o.PopulateField(target, value)
	}
}

// resolve looks the value up in the university profile first, then in the
// account profile by direct key or dotted path.
func resolve(target, source string, account AccountProfile, university UniversityProfile) any {
	if v, ok := university[target]; ok && v != "" {
		return v
	}

	if v, ok := account[source]; ok {
		return v
	}

	if outer, inner, dotted := strings.Cut(source, "."); dotted {
		if nested, ok := account[outer].(map[string]any); ok {
			if v, ok := nested[inner]; ok {
				return v
			}
		}
	}

	return nil
}

// isEmpty reports whether a field value counts as blank for population
// purposes. Only nil and the empty string are blank; zero numbers and
// false are real values.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
