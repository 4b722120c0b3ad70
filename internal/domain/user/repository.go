package user

import "context"

// IdentityService is the remote identity/session collaborator. The auth
// state machine depends only on this interface; the SQL-backed
// implementation lives in internal/infrastructure/persistence/user.
type IdentityService interface {
	// GetSession resolves a bearer token to its session, or (nil, nil)
	// when no valid session exists.
	GetSession(ctx context.Context, token string) (*RemoteSession, error)

	// SignInWithPassword verifies credentials and issues a session token.
	// Returns ErrInvalidCredentials on a bad email/password pair.
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, string, error)

	// SignUp creates a credential-backed identity and issues a session token.
	SignUp(ctx context.Context, email, password string) (*Identity, string, error)

	// SignInWithProvider creates or resumes an identity for an
	// externally verified email (OAuth completion) and issues a token.
	SignInWithProvider(ctx context.Context, email string, method AuthMethod) (*Identity, string, error)

	// SignOut revokes the session behind the token.
	SignOut(ctx context.Context, token string) error

	// ResetPasswordForEmail starts the password recovery flow.
	ResetPasswordForEmail(ctx context.Context, email string) error
}

// ProfileRepository is the remote profile store collaborator.
type ProfileRepository interface {
	// FindByIdentityID returns the profile linked to an identity, or
	// (nil, nil) when none exists.
	FindByIdentityID(ctx context.Context, identityID string) (*Profile, error)

	// FindByDisplayName returns the profile holding a display name, or
	// (nil, nil) when the name is free.
	FindByDisplayName(ctx context.Context, displayName string) (*Profile, error)

	Insert(ctx context.Context, profile *Profile) error

	// Update applies the non-nil fields of patch to the profile linked to
	// identityID.
	Update(ctx context.Context, identityID string, patch ProfilePatch) error
}

// OAuthExchanger turns a browser-obtained access token into a verified
// identity claim. The Google userinfo client implements this.
type OAuthExchanger interface {
	Exchange(ctx context.Context, accessToken string) (*OAuthClaim, error)
}

// OAuthClaim is the externally verified identity returned by a provider.
type OAuthClaim struct {
	Subject       string
	Email         string
	EmailVerified bool
}
