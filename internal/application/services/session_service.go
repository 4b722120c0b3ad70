// Package services contains the application-level orchestration for
// Mooday: the session state machine, feed and reaction coordination,
// onboarding and milestones.
package services

import (
	"context"
	"sync"

	"github.com/moodayhq/mooday-go/internal/application/routing"
	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/kv"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

// sessionKey is the key-value slot holding the persisted session across
// restarts.
const sessionKey = "session"

// SessionIdentity is the authenticated principal as the rest of the app
// sees it: identity fields plus the app-level display name.
type SessionIdentity struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	Username   string          `json:"username"`
	AuthMethod user.AuthMethod `json:"authMethod"`
}

// SessionState is a point-in-time copy of the session machine. Error
// holds the most recent operation failure; every new operation clears it.
type SessionState struct {
	IsAuthenticated bool
	Identity        *SessionIdentity
	IsLoading       bool
	HasHydrated     bool
	Error           string
}

// persistedSession is the durable shape written to the key-value store
// on every authentication change.
type persistedSession struct {
	Token    string          `json:"token"`
	Identity SessionIdentity `json:"identity"`
}

// SessionService is the process-wide auth state machine. All reads and
// writes go through its mutex; operations that wait on collaborators
// release the lock while in flight and discard their result if a newer
// operation has started in the meantime.
type SessionService struct {
	identities user.IdentityService
	profiles   user.ProfileRepository
	oauth      user.OAuthExchanger
	store      *kv.Store
	logger     *logging.ChanneledLogger

	mu    sync.Mutex
	seq   uint64
	token string

	isAuthenticated bool
	identity        *SessionIdentity
	isLoading       bool
	hasHydrated     bool
	lastError       string
}

// NewSessionService creates the session machine in its pre-hydration
// state: unauthenticated, not loading, not hydrated.
func NewSessionService(
	identities user.IdentityService,
	profiles user.ProfileRepository,
	oauth user.OAuthExchanger,
	store *kv.Store,
	logger *logging.ChanneledLogger,
) *SessionService {
	return &SessionService{
		identities: identities,
		profiles:   profiles,
		oauth:      oauth,
		store:      store,
		logger:     logger,
	}
}

// State returns a copy of the current session state.
func (s *SessionService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := SessionState{
		IsAuthenticated: s.isAuthenticated,
		IsLoading:       s.isLoading,
		HasHydrated:     s.hasHydrated,
		Error:           s.lastError,
	}
	if s.identity != nil {
		id := *s.identity
		state.Identity = &id
	}
	return state
}

// View projects the state onto what the route guard needs.
func (s *SessionService) View() routing.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return routing.SessionView{
		IsAuthenticated: s.isAuthenticated,
		IsLoading:       s.isLoading,
		HasHydrated:     s.hasHydrated,
	}
}

// Token returns the current remote session token, empty when signed out.
func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// ClearError drops the stored operation error.
func (s *SessionService) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

// Initialize restores the session at startup: hydrate the persisted
// identity, then confirm it against the remote session store and its
// linked profile. Any failure along the way leaves the machine signed
// out with the reason in the error slot; a session that cannot be
// confirmed is not a session, and a session without a profile is not
// enough identity to operate the app.
func (s *SessionService) Initialize(ctx context.Context) error {
	seq := s.begin()

	var persisted persistedSession
	found, err := s.store.Load(sessionKey, &persisted)

	s.mu.Lock()
	s.hasHydrated = true
	s.mu.Unlock()

	if err != nil {
		s.logger.Session().Warn("Failed to read persisted session", "error", err)
		s.settle(seq, nil, "", err.Error())
		return nil
	}
	if !found || persisted.Token == "" {
		s.settle(seq, nil, "", "")
		return nil
	}

	session, err := s.identities.GetSession(ctx, persisted.Token)
	if err != nil {
		s.logger.Session().Warn("Session check failed, signing out", "error", err)
		s.discardPersisted()
		s.settle(seq, nil, "", err.Error())
		return nil
	}
	if session == nil {
		s.discardPersisted()
		s.settle(seq, nil, "", "")
		return nil
	}

	profile, err := s.profiles.FindByIdentityID(ctx, session.IdentityID)
	if err != nil {
		s.logger.Session().Warn("Profile lookup failed during restore, signing out", "error", err)
		s.discardPersisted()
		s.settle(seq, nil, "", err.Error())
		return nil
	}
	if profile == nil {
		s.logger.Session().Warn("Restored session has no linked profile, signing out", "identityId", session.IdentityID)
		s.discardPersisted()
		s.settle(seq, nil, "", user.ErrProfileNotFound.Error())
		return nil
	}

	identity := persisted.Identity
	identity.Username = profile.DisplayName
	s.settle(seq, &identity, persisted.Token, "")
	s.logger.LogAuthOperation("initialize", identity.ID, true)
	return nil
}

// begin starts a new operation: bumps the sequence, raises the loading
// flag and clears the error slot. The returned sequence identifies this
// operation; results carrying an older sequence are stale and dropped.
func (s *SessionService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.isLoading = true
	s.lastError = ""
	return s.seq
}

// settle applies an operation outcome if it is still the latest one.
// A nil identity means signed out; a non-empty errMsg records a failure
// without changing the authentication fields.
func (s *SessionService) settle(seq uint64, identity *SessionIdentity, token, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.isLoading = false
	if errMsg != "" {
		s.lastError = errMsg
		return true
	}
	s.identity = identity
	s.token = token
	s.isAuthenticated = identity != nil
	return true
}

// persist writes the session to durable storage; failures are logged
// but never block an otherwise successful sign-in.
func (s *SessionService) persist(identity SessionIdentity, token string) {
	record := persistedSession{Token: token, Identity: identity}
	if err := s.store.Save(sessionKey, record); err != nil {
		s.logger.Session().Error("Failed to persist session", "error", err)
	}
}

func (s *SessionService) discardPersisted() {
	if err := s.store.Delete(sessionKey); err != nil {
		s.logger.Session().Warn("Failed to clear persisted session", "error", err)
	}
}
