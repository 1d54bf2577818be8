package profile

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no profile exists for the character.
var ErrNotFound = errors.New("profile not found")

// Store persists advisor profiles keyed by character name.
//
// All implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the profile for the named character.
	// Returns [ErrNotFound] when none exists.
	Get(ctx context.Context, character string) (*Profile, error)

	// Save creates or replaces the profile for its character.
	// The profile is validated before persistence.
	Save(ctx context.Context, p *Profile) error

	// List returns the character names that have a stored profile, in
	// ascending name order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the named character's profile. Deleting a missing
	// profile is not an error.
	Delete(ctx context.Context, character string) error
}
