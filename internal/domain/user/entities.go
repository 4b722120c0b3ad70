// Package user defines the account domain for Mooday: the credential-backed
// Identity and the app-level Profile linked to it.
package user

import "time"

// AuthMethod identifies how an identity authenticates.
type AuthMethod string

const (
	AuthMethodEmail  AuthMethod = "email"
	AuthMethodGoogle AuthMethod = "google"
)

// Identity is the authenticated principal. It carries only what the
// identity service knows; everything app-level lives on Profile.
type Identity struct {
	ID            string
	Email         string
	EmailVerified bool
	AuthMethod    AuthMethod
}

// RemoteSession is a server-side session record issued by the identity
// service on sign-in and resolved from a bearer token on GetSession.
type RemoteSession struct {
	ID         string
	IdentityID string
	Email      string
	ExpiresAt  time.Time
}

// Profile is the app-level record for an identity: display name,
// onboarding-visible fields and activity metadata.
type Profile struct {
	IdentityID    string
	Email         string
	DisplayName   string
	AuthMethod    AuthMethod
	AvatarPath    string
	Streak        int
	UserStatus    string
	EmailVerified bool
	CreatedAt     time.Time
	LastLogin     time.Time
}

// ProfilePatch carries a partial profile update. Nil fields are left
// untouched by Update.
type ProfilePatch struct {
	DisplayName *string
	Email       *string
	AvatarPath  *string
	Streak      *int
	LastLogin   *time.Time
}
