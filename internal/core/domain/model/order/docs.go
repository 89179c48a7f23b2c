// Package order provides the Order aggregate of the facility portal.
// An order is a structured submission against a form: a flat map of field
// values keyed by the form's leaf field identifiers, plus the bookkeeping
// that accumulates around it: per-field validation failures, status history
// timestamps, tags, external links, and attachment names.
//
// Key business rules:
//   - Every leaf field identifier of the owning form's schema has an entry
//     in the value map, possibly nil
//   - The invalid map only holds identifiers whose current value failed
//     validation; absence means valid or not applicable
//   - History records the date a status was first entered and is never
//     overwritten on revisits
//   - Colon-namespaced tags are reserved for staff; plain tags are open to
//     any role
//   - Field mutations record their net effect in a change set consumed by
//     the audit log
//
// Status transition rules live in the workflow service, not here: the
// aggregate stores the current status string and exposes SetStatus for the
// workflow engine to call after its checks pass.
package order
