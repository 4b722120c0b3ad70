// Package user provides the concrete SQL-based implementations of the
// account domain collaborators (identity/session service, profile store).
package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/email"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/persistence/database"
	"github.com/moodayhq/mooday-go/internal/infrastructure/security"
)

// SQLIdentityService is the SQL-backed implementation of the remote
// identity/session collaborator. Session tokens are opaque UUIDs stored
// server-side; expiry is enforced on every lookup.
type SQLIdentityService struct {
	db       *database.DB
	logger   *logging.ChanneledLogger
	mailer   email.Service
	tokenTTL time.Duration
}

// NewSQLIdentityService creates a new instance of the service.
func NewSQLIdentityService(db *database.DB, logger *logging.ChanneledLogger, mailer email.Service, tokenTTL time.Duration) *SQLIdentityService {
	return &SQLIdentityService{
		db:       db,
		logger:   logger,
		mailer:   mailer,
		tokenTTL: tokenTTL,
	}
}

var _ user.IdentityService = (*SQLIdentityService)(nil)

// GetSession resolves a bearer token, returning (nil, nil) for a missing
// or expired session.
func (s *SQLIdentityService) GetSession(ctx context.Context, token string) (*user.RemoteSession, error) {
	const query = `SELECT token, identity_id, email, expires_at FROM sessions WHERE token = ?`

	var session user.RemoteSession
	err := s.db.QueryRowContext(ctx, query, token).Scan(&session.ID, &session.IdentityID, &session.Email, &session.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.Database().Error("Failed to load session", "error", err.Error())
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		s.logger.Session().Debug("Session expired", "identityId", session.IdentityID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
		return nil, nil
	}
	return &session, nil
}

// SignInWithPassword verifies an email/password pair and issues a session.
func (s *SQLIdentityService) SignInWithPassword(ctx context.Context, email, password string) (*user.Identity, string, error) {
	identity, hash, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if identity == nil || !security.CheckPassword(hash, password) {
		s.logger.LogAuthOperation("sign_in", email, false)
		return nil, "", user.ErrInvalidCredentials
	}

	token, err := s.createSession(ctx, identity)
	if err != nil {
		return nil, "", err
	}

	s.logger.LogAuthOperation("sign_in", identity.ID, true)
	return identity, token, nil
}

// SignUp creates a credential-backed identity and issues a session.
func (s *SQLIdentityService) SignUp(ctx context.Context, emailAddr, password string) (*user.Identity, string, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &user.Identity{
		ID:         security.GenerateULID(),
		Email:      emailAddr,
		AuthMethod: user.AuthMethodEmail,
	}

	const query = `INSERT INTO identities (id, email, password_hash, auth_method, email_verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, identity.ID, identity.Email, hash, identity.AuthMethod, false, time.Now().UTC()); err != nil {
		s.logger.Database().Error("Failed to create identity", "error", err.Error())
		return nil, "", fmt.Errorf("failed to create identity: %w", err)
	}

	token, err := s.createSession(ctx, identity)
	if err != nil {
		return nil, "", err
	}

	s.logger.LogAuthOperation("sign_up", identity.ID, true)
	return identity, token, nil
}

// SignInWithProvider creates or resumes an identity for an externally
// verified email and issues a session.
func (s *SQLIdentityService) SignInWithProvider(ctx context.Context, emailAddr string, method user.AuthMethod) (*user.Identity, string, error) {
	identity, _, err := s.findByEmail(ctx, emailAddr)
	if err != nil {
		return nil, "", err
	}

	if identity == nil {
		identity = &user.Identity{
			ID:            security.GenerateULID(),
			Email:         emailAddr,
			EmailVerified: true,
			AuthMethod:    method,
		}
		const query = `INSERT INTO identities (id, email, password_hash, auth_method, email_verified, created_at)
			VALUES (?, ?, NULL, ?, 1, ?)`
		if _, err := s.db.ExecContext(ctx, query, identity.ID, identity.Email, method, time.Now().UTC()); err != nil {
			s.logger.Database().Error("Failed to create provider identity", "error", err.Error())
			return nil, "", fmt.Errorf("failed to create provider identity: %w", err)
		}
	}

	token, err := s.createSession(ctx, identity)
	if err != nil {
		return nil, "", err
	}

	s.logger.LogAuthOperation("sign_in_provider", identity.ID, true)
	return identity, token, nil
}

// SignOut revokes the session behind the token.
func (s *SQLIdentityService) SignOut(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		s.logger.Database().Error("Failed to delete session", "error", err.Error())
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ResetPasswordForEmail sends a recovery email when the address is known.
// An unknown address is not an error, so the endpoint cannot be used to
// probe for accounts.
func (s *SQLIdentityService) ResetPasswordForEmail(ctx context.Context, emailAddr string) error {
	identity, _, err := s.findByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if identity == nil {
		s.logger.Auth().Debug("Password reset requested for unknown email")
		return nil
	}

	resetToken, err := security.GenerateSecureToken(32)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(emailAddr, resetToken); err != nil {
		s.logger.Email().Error("Failed to send password reset email", "error", err.Error())
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *SQLIdentityService) findByEmail(ctx context.Context, emailAddr string) (*user.Identity, string, error) {
	const query = `SELECT id, email, password_hash, auth_method, email_verified FROM identities WHERE email = ? LIMIT 1`

	var identity user.Identity
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx, query, emailAddr).Scan(
		&identity.ID,
		&identity.Email,
		&hash,
		&identity.AuthMethod,
		&identity.EmailVerified,
	)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		s.logger.Database().Error("Failed to load identity by email", "error", err.Error())
		return nil, "", fmt.Errorf("failed to load identity by email: %w", err)
	}
	return &identity, hash.String, nil
}

func (s *SQLIdentityService) createSession(ctx context.Context, identity *user.Identity) (string, error) {
	token := uuid.NewString()
	expires := time.Now().UTC().Add(s.tokenTTL)

	const query = `INSERT INTO sessions (token, identity_id, email, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, token, identity.ID, identity.Email, expires); err != nil {
		s.logger.Database().Error("Failed to create session", "error", err.Error())
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}
