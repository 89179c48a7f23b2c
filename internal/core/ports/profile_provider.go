package ports

import (
	"context"

	"orderportal/internal/core/domain/services/autopopulate"
)

// ProfileProvider exposes the account and university profile data that
// autopopulation draws from. The account system itself (authentication,
// sessions, profile editing) is an external collaborator.
type ProfileProvider interface {
	// AccountProfile returns the account profile of the given owner.
	// An empty profile is a valid answer for unknown owners.
	AccountProfile(ctx context.Context, owner string) (autopopulate.AccountProfile, error)

	// UniversityProfile returns the institution defaults applying to the
	// given owner.
	UniversityProfile(ctx context.Context, owner string) (autopopulate.UniversityProfile, error)
}
