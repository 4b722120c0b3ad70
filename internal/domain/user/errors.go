package user

import (
	"errors"
	"fmt"
)

// Sentinel errors for the account domain. Callers match with errors.Is.
var (
	// ErrInvalidCredentials is returned when an email/password pair does
	// not match a stored identity.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateIdentity is returned when a requested display name is
	// already taken by another profile.
	ErrDuplicateIdentity = errors.New("display name already taken")

	// ErrProfileNotFound is returned when an identity authenticates but no
	// linked profile record exists. The session alone is not enough to
	// operate the app, so sign-in fails rather than auto-repairing.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrRemoteUnavailable wraps any identity/profile store failure that is
	// not an authentication outcome.
	ErrRemoteUnavailable = errors.New("identity service unavailable")
)

// DuplicateIdentityError reports which display name collided while still
// matching ErrDuplicateIdentity via errors.Is.
func DuplicateIdentityError(displayName string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateIdentity, displayName)
}
