package order

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"
)

// ErrHistoryEditForbidden is returned when a non-admin role attempts to
// patch the status history.
var ErrHistoryEditForbidden = errs.NewValueIsInvalidError("history can only be edited by an admin")

// ApplyFieldChanges installs the outcome of a validation run: the updated
// value map, the new invalid map, and the net change set. The value map is
// authoritative for the field set: forms evolve after orders are created,
// so a run against a newer schema revision may carry leaves this order
// predates (entered with whatever the run produced, nil when unsubmitted)
// or drop leaves the form no longer defines.
//
// The change set replaces the previous one; callers read it through
// ChangedFields before the next mutating operation.
func (o *Order) ApplyFieldChanges(values map[string]any, invalid map[string]string, changed []string) error {
	if values == nil {
		return errs.NewValueIsRequiredError("field values")
	}
	if invalid == nil {
		invalid = make(map[string]string)
	}

	o.values = values
	o.invalid = invalid
	o.changed = changed
	if len(changed) > 0 {
		o.updatedAt = time.Now().UTC()
	}
	return nil
}

// PopulateField sets a single field value directly, bypassing validation.
// It is used by autopopulation at creation time, before the first
// validation run. The field must exist in the schema.
func (o *Order) PopulateField(identifier string, value any) error {
	if _, ok := o.values[identifier]; !ok {
		return errs.NewObjectNotFoundError("field", identifier)
	}
	o.values[identifier] = value
	return nil
}

// SetTags replaces the order's tags subject to role policy.
//
// Plain identifier-pattern tags may be set by any role. Colon-delimited
// namespaced tags ("lims:123") are reserved: non-staff callers cannot set
// them, and whatever namespaced tags the order already carries are
// preserved verbatim regardless of the submitted list. Staff and admin may
// submit namespaced tags, but every colon-delimited part must itself match
// the identifier pattern or the whole tag is dropped silently.
//
// The resulting set is deduplicated and sorted.
func (o *Order) SetTags(tags []string, role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	set := make(map[string]struct{})
	for _, tag := range tags {
		if strings.Contains(tag, ":") {
			if !role.IsStaff() {
				continue
			}
			if !namespacedTagValid(tag) {
				continue
			}
			set[tag] = struct{}{}
			continue
		}
		if kernel.IsIdentifier(tag) {
			set[tag] = struct{}{}
		}
	}

	if !role.IsStaff() {
		for _, tag := range o.tags {
			if strings.Contains(tag, ":") {
				set[tag] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(set))
	for tag := range set {
		result = append(result, tag)
	}
	sort.Strings(result)

	o.tags = result
	o.updatedAt = time.Now().UTC()
	return nil
}

// namespacedTagValid reports whether every colon-delimited part of a
// namespaced tag matches the identifier pattern.
func namespacedTagValid(tag string) bool {
	parts := strings.Split(tag, ":")
	for _, part := range parts {
		if !kernel.IsIdentifier(part) {
			return false
		}
	}
	return true
}

// SetExternalLinks replaces the order's external links. Every href must
// parse to a URL with both scheme and host.
func (o *Order) SetExternalLinks(links []ExternalLink) error {
	for _, link := range links {
		u, err := url.Parse(link.Href)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errs.NewValueIsInvalidErrorWithCause("external link",
				fmt.Errorf("%q is not an absolute URL", link.Href))
		}
	}

	o.links = append([]ExternalLink(nil), links...)
	o.updatedAt = time.Now().UTC()
	return nil
}

// AddAttachment registers an attachment name, deduplicating collisions by
// suffixing _1, _2, ... before the extension. Returns the unique name under
// which the attachment was stored.
func (o *Order) AddAttachment(name string) string {
	taken := make(map[string]struct{}, len(o.attachments))
	for _, existing := range o.attachments {
		taken[existing] = struct{}{}
	}

	unique := name
	for i := 1; ; i++ {
		if _, clash := taken[unique]; !clash {
			break
		}
		ext := ""
		base := name
		if dot := strings.LastIndex(name, "."); dot > 0 {
			base, ext = name[:dot], name[dot:]
		}
		unique = fmt.Sprintf("%s_%d%s", base, i, ext)
	}

	o.attachments = append(o.attachments, unique)
	o.updatedAt = time.Now().UTC()
	return unique
}

// SetHistory merges a patch into the status history. Only admins may edit
// history; every patched date must match the YYYY-MM-DD pattern and every
// key must be a status identifier.
func (o *Order) SetHistory(patch map[string]string, role kernel.Role) error {
	if !role.IsAdmin() {
		return ErrHistoryEditForbidden
	}
	for status, date := range patch {
		if !kernel.IsIdentifier(status) {
			return errs.NewValueIsInvalidErrorWithCause("history status",
				fmt.Errorf("%q does not match the identifier pattern", status))
		}
		if !kernel.IsDate(date) {
			return errs.NewValueIsInvalidErrorWithCause("history date",
				fmt.Errorf("%q does not match the YYYY-MM-DD pattern", date))
		}
	}

	for status, date := range patch {
		o.history[status] = date
	}
	o.updatedAt = time.Now().UTC()
	return nil
}

// SetStatus moves the order to a new status and stamps the history entry
// for that status if the order has never been in it before. Earlier visit
// dates are never overwritten.
//
// Transition admissibility is the workflow engine's responsibility; this
// method only records an already-approved move.
func (o *Order) SetStatus(target, date string) error {
	if !kernel.IsIdentifier(target) {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%q does not match the identifier pattern", target))
	}
	if !kernel.IsDate(date) {
		return errs.NewValueIsInvalidErrorWithCause("history date",
			fmt.Errorf("%q does not match the YYYY-MM-DD pattern", date))
	}

	o.status = target
	if _, visited := o.history[target]; !visited {
		o.history[target] = date
	}
	o.updatedAt = time.Now().UTC()
	return nil
}

// Clone creates a new order carrying this order's field values, except
// values of fields flagged erase-on-clone, which start out nil. Validation
// state, history, tags, links, and attachments are not copied; the clone
// starts fresh in the given initial status.
//
// The schema must be the clone's form schema; in practice clones stay on
// the same form as their source.
func (o *Order) Clone(id kernel.UUID, number string, schema *form.FlatSchema, initialStatus string) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if !kernel.IsIdentifier(initialStatus) {
		return nil, errs.NewValueIsInvalidErrorWithCause("initial status",
			fmt.Errorf("%q does not match the identifier pattern", initialStatus))
	}

	values := make(map[string]any, schema.Len())
	for _, f := range schema.Fields() {
		if f.EraseOnClone {
			values[f.ID] = nil
			continue
		}
		values[f.ID] = o.values[f.ID]
	}

	now := time.Now().UTC()
	return &Order{
		id:            id,
		number:        number,
		formID:        o.formID,
		formVersion:   o.formVersion,
		title:         o.title,
		owner:         o.owner,
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
