package kernel

import (
	"fmt"

	"orderportal/internal/pkg/errs"
)

// Role represents the authority level an actor holds when operating on
// orders. It is a closed enum: workflow transitions, tag namespaces, and
// history edits are all gated on role membership.
//
// Role is a value object that validates itself and provides string
// representations for configuration files and request headers.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	// This value (0) helps catch uninitialized Role values.
	RoleUnknown Role = iota

	// RoleAnonymous is an unauthenticated visitor. Anonymous actors can
	// never mutate orders; the value exists so request parsing has a
	// well-defined result for missing credentials.
	RoleAnonymous

	// RoleUser is a regular portal account: submits and edits own orders.
	RoleUser

	// RoleStaff is facility staff: reviews orders, moves them through the
	// workflow, and manages namespaced tags.
	RoleStaff

	// RoleAdmin is a portal administrator. Admin implicitly passes the
	// edit/attach gates of every status, but transition permission is
	// still evaluated by explicit role membership.
	RoleAdmin
)

// getRoleStrings returns a map of Role values to their string representations.
func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:   "unknown",
		RoleAnonymous: "anonymous",
		RoleUser:      "user",
		RoleStaff:     "staff",
		RoleAdmin:     "admin",
	}
}

// ParseRole converts a configuration or request string into a Role.
// Returns an error for strings that name no known role.
func ParseRole(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if str == s && role != RoleUnknown {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// String returns the lowercase name of the role, "unknown" for invalid values.
// This method implements the fmt.Stringer interface.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the Role value is valid.
// RoleUnknown (0) and out-of-range values are invalid.
func (r Role) Validate() error {
	if r != RoleAnonymous && r != RoleUser && r != RoleStaff && r != RoleAdmin {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// IsStaff reports whether the role carries staff-level authority.
// Both staff and admin may manage namespaced tags.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// IsAdmin reports whether the role is the administrator role.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
