// Package guard provides a lightweight mechanism for enforcing constructor
// usage on domain objects.
//
// Go does not prevent callers from instantiating structs directly, which can
// bypass invariant checks performed in factory functions. ConstructorGuard
// closes this gap: a zero-value guard fails validation, while a guard obtained
// from NewConstructorGuard passes. Embedding a guard as a private field makes
// "was this object built through its constructor?" a checkable property.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guard is a zero
// value and the caller did not supply a more specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed.
// The zero value is invalid; obtain a valid guard from NewConstructorGuard.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard creates a guard that passes validation.
// Call this only from within a constructor after all invariants hold.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil when the guard was created via NewConstructorGuard.
// For a zero-value guard it returns notConstructed, or
// ErrDefaultConstructorGuard when notConstructed is nil.
func (g ConstructorGuard) Validate(notConstructed error) error {
	if g.constructed {
		return nil
	}
	if notConstructed != nil {
		return notConstructed
	}
	return ErrDefaultConstructorGuard
}
