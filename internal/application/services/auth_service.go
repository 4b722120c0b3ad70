package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/moodayhq/mooday-go/internal/domain/user"
)

// SignInWithCredentials exchanges an email/password pair for an
// authenticated session. On failure the machine stays signed out and
// the error slot carries the reason.
func (s *SessionService) SignInWithCredentials(ctx context.Context, email, password string) error {
	seq := s.begin()

	identity, token, err := s.identities.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.settle(seq, nil, "", err.Error())
		s.logger.LogAuthOperation("signin", email, false)
		return err
	}

	profile, err := s.profiles.FindByIdentityID(ctx, identity.ID)
	if err != nil {
		s.settle(seq, nil, "", err.Error())
		return err
	}
	if profile == nil {
		err := user.ErrProfileNotFound
		s.settle(seq, nil, "", err.Error())
		return err
	}

	now := time.Now().UTC()
	if err := s.profiles.Update(ctx, identity.ID, user.ProfilePatch{LastLogin: &now}); err != nil {
		s.logger.Session().Warn("Failed to record last login", "identityId", identity.ID, "error", err)
	}

	session := SessionIdentity{
		ID:         identity.ID,
		Email:      identity.Email,
		Username:   profile.DisplayName,
		AuthMethod: identity.AuthMethod,
	}
	if s.settle(seq, &session, token, "") {
		s.persist(session, token)
	}
	s.logger.LogAuthOperation("signin", identity.ID, true)
	return nil
}

// SignUpWithCredentials creates a new account. The display name is
// checked for uniqueness before anything is created remotely, so a
// duplicate-name failure leaves no partial account behind.
func (s *SessionService) SignUpWithCredentials(ctx context.Context, email, password, displayName string) error {
	seq := s.begin()

	existing, err := s.profiles.FindByDisplayName(ctx, displayName)
	if err != nil {
		s.settle(seq, nil, "", err.Error())
		return err
	}
	if existing != nil {
		err := user.DuplicateIdentityError(displayName)
		s.settle(seq, nil, "", err.Error())
		s.logger.LogAuthOperation("signup", email, false)
		return err
	}

	identity, token, err := s.identities.SignUp(ctx, email, password)
	if err != nil {
		s.settle(seq, nil, "", err.Error())
		return err
	}

	profile := &user.Profile{
		IdentityID:    identity.ID,
		Email:         identity.Email,
		DisplayName:   displayName,
		AuthMethod:    user.AuthMethodEmail,
		EmailVerified: identity.EmailVerified,
		CreatedAt:     time.Now().UTC(),
		LastLogin:     time.Now().UTC(),
	}
	if err := s.profiles.Insert(ctx, profile); err != nil {
		s.settle(seq, nil, "", err.Error())
		return err
	}

	session := SessionIdentity{
		ID:         identity.ID,
		Email:      identity.Email,
		Username:   displayName,
		AuthMethod: user.AuthMethodEmail,
	}
	if s.settle(seq, &session, token, "") {
		s.persist(session, token)
	}
	s.logger.LogAuthOperation("signup", identity.ID, true)
	return nil
}

// SignInWithOAuth completes a browser-based OAuth round trip: the
// access token is exchanged for a verified claim, the identity is
// created or resumed, and a missing profile is provisioned from the
// email local part.
func (s *SessionService) SignInWithOAuth(ctx context.Context, accessToken string) error {
	seq := s.begin()

	claim, err := s.oauth.Exchange(ctx, accessToken)
	if err != nil {
		s.settle(seq, nil, "", err.Error())
		s.logger.LogAuthOperation("oauth", "", false)
		return err
	}

	identity, token, err := s.identities.SignInWithProvider(ctx, claim.Email, user.AuthMethodGoogle)
	if err != nil {
		s.settle(seq, nil, "", err.Error())
		return err
	}

	profile, err := s.profiles.FindByIdentityID(ctx, identity.ID)
	if err != nil {
		s.settle(seq, nil, "", err.Error())
		return err
	}
	if profile == nil {
		profile = &user.Profile{
			IdentityID:    identity.ID,
			Email:         identity.Email,
			DisplayName:   displayNameFromEmail(identity.Email),
			AuthMethod:    user.AuthMethodGoogle,
			EmailVerified: true,
			CreatedAt:     time.Now().UTC(),
			LastLogin:     time.Now().UTC(),
		}
		if err := s.profiles.Insert(ctx, profile); err != nil {
			s.settle(seq, nil, "", err.Error())
			return err
		}
	}

	session := SessionIdentity{
		ID:         identity.ID,
		Email:      identity.Email,
		Username:   profile.DisplayName,
		AuthMethod: user.AuthMethodGoogle,
	}
	if s.settle(seq, &session, token, "") {
		s.persist(session, token)
	}
	s.logger.LogAuthOperation("oauth", identity.ID, true)
	return nil
}

// SignOut revokes the remote session and clears local state. The local
// teardown happens even when revocation fails: a user who asked to sign
// out must never be left looking signed in.
func (s *SessionService) SignOut(ctx context.Context) error {
	seq := s.begin()

	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		if err := s.identities.SignOut(ctx, token); err != nil {
			s.logger.Session().Warn("Remote sign-out failed, clearing local session anyway", "error", err)
		}
	}

	s.discardPersisted()
	s.settle(seq, nil, "", "")
	s.logger.LogAuthOperation("signout", "", true)
	return nil
}

// UpdateProfile merges the patch into the stored profile and the live
// session identity. A changed display name is checked against every
// other profile first and rejected with ErrDuplicateIdentity on a
// collision. Unlike the sign-in family this never toggles the loading
// flag; the guard has no reason to react to a profile edit.
func (s *SessionService) UpdateProfile(ctx context.Context, patch user.ProfilePatch) error {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return errors.New("not authenticated")
	}
	identityID := s.identity.ID
	currentName := s.identity.Username
	s.mu.Unlock()

	if patch.DisplayName != nil && *patch.DisplayName != currentName {
		existing, err := s.profiles.FindByDisplayName(ctx, *patch.DisplayName)
		if err != nil {
			s.setError(err)
			return err
		}
		if existing != nil && existing.IdentityID != identityID {
			err := user.DuplicateIdentityError(*patch.DisplayName)
			s.setError(err)
			return err
		}
	}

	if err := s.profiles.Update(ctx, identityID, patch); err != nil {
		s.setError(err)
		return err
	}

	s.mu.Lock()
	s.lastError = ""
	if s.identity != nil {
		if patch.DisplayName != nil {
			s.identity.Username = *patch.DisplayName
		}
		if patch.Email != nil {
			s.identity.Email = *patch.Email
		}
		identity := *s.identity
		token := s.token
		s.mu.Unlock()
		s.persist(identity, token)
		return nil
	}
	s.mu.Unlock()
	return nil
}

// ResetPassword starts the password recovery flow for an email address.
func (s *SessionService) ResetPassword(ctx context.Context, email string) error {
	seq := s.begin()
	if err := s.identities.ResetPasswordForEmail(ctx, email); err != nil {
		s.settle(seq, nil, "", err.Error())
		return err
	}

	s.mu.Lock()
	if seq == s.seq {
		s.isLoading = false
	}
	s.mu.Unlock()
	return nil
}

func (s *SessionService) setError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

// displayNameFromEmail derives a provisional display name for OAuth
// sign-ins that arrive without a profile.
func displayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
