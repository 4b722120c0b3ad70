package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/kv"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return logger
}

func testStore(t *testing.T) *kv.Store {
	t.Helper()
	store, err := kv.NewStore(t.TempDir(), testLogger(t))
	require.NoError(t, err)
	return store
}

// fakeIdentityService is an in-memory user.IdentityService with
// injectable failures and call counters.
type fakeIdentityService struct {
	sessions map[string]*user.RemoteSession
	identity *user.Identity

	signInErr  error
	signOutErr error
	sessionErr error

	signUpCalls  int
	signOutCalls int
}

func newFakeIdentityService() *fakeIdentityService {
	return &fakeIdentityService{
		sessions: make(map[string]*user.RemoteSession),
		identity: &user.Identity{ID: "id-1", Email: "ashwin@example.com", AuthMethod: user.AuthMethodEmail},
	}
}

func (f *fakeIdentityService) GetSession(_ context.Context, token string) (*user.RemoteSession, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.sessions[token], nil
}

func (f *fakeIdentityService) SignInWithPassword(_ context.Context, email, _ string) (*user.Identity, string, error) {
	if f.signInErr != nil {
		return nil, "", f.signInErr
	}
	return f.identity, "token-1", nil
}

func (f *fakeIdentityService) SignUp(_ context.Context, email, _ string) (*user.Identity, string, error) {
	f.signUpCalls++
	return &user.Identity{ID: "id-new", Email: email, AuthMethod: user.AuthMethodEmail}, "token-new", nil
}

func (f *fakeIdentityService) SignInWithProvider(_ context.Context, email string, method user.AuthMethod) (*user.Identity, string, error) {
	return &user.Identity{ID: "id-oauth", Email: email, EmailVerified: true, AuthMethod: method}, "token-oauth", nil
}

func (f *fakeIdentityService) SignOut(_ context.Context, _ string) error {
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeIdentityService) ResetPasswordForEmail(_ context.Context, _ string) error {
	return nil
}

// fakeProfileRepository keys profiles by identity id.
type fakeProfileRepository struct {
	byID    map[string]*user.Profile
	inserts []*user.Profile
	findErr error
}

func newFakeProfileRepository() *fakeProfileRepository {
	return &fakeProfileRepository{byID: make(map[string]*user.Profile)}
}

func (f *fakeProfileRepository) FindByIdentityID(_ context.Context, identityID string) (*user.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byID[identityID], nil
}

func (f *fakeProfileRepository) FindByDisplayName(_ context.Context, displayName string) (*user.Profile, error) {
	for _, p := range f.byID {
		if p.DisplayName == displayName {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepository) Insert(_ context.Context, profile *user.Profile) error {
	f.inserts = append(f.inserts, profile)
	f.byID[profile.IdentityID] = profile
	return nil
}

func (f *fakeProfileRepository) Update(_ context.Context, identityID string, patch user.ProfilePatch) error {
	p, ok := f.byID[identityID]
	if !ok {
		return nil
	}
	if patch.DisplayName != nil {
		p.DisplayName = *patch.DisplayName
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Streak != nil {
		p.Streak = *patch.Streak
	}
	return nil
}

type fakeExchanger struct {
	claim *user.OAuthClaim
	err   error
}

func (f *fakeExchanger) Exchange(_ context.Context, _ string) (*user.OAuthClaim, error) {
	return f.claim, f.err
}

func newSessionFixture(t *testing.T) (*SessionService, *fakeIdentityService, *fakeProfileRepository, *fakeExchanger) {
	identities := newFakeIdentityService()
	profiles := newFakeProfileRepository()
	exchanger := &fakeExchanger{}
	svc := NewSessionService(identities, profiles, exchanger, testStore(t), testLogger(t))
	return svc, identities, profiles, exchanger
}

func TestInitializeWithoutPersistedSession(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	require.NoError(t, svc.Initialize(context.Background()))

	state := svc.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.True(t, state.HasHydrated)
	assert.Empty(t, state.Error)
}

func TestInitializeFailsClosedOnRemoteError(t *testing.T) {
	store := testStore(t)
	identities := newFakeIdentityService()
	identities.sessionErr = errors.New("network down")
	svc := NewSessionService(identities, newFakeProfileRepository(), &fakeExchanger{}, store, testLogger(t))

	require.NoError(t, store.Save("session", persistedSession{
		Token:    "stale-token",
		Identity: SessionIdentity{ID: "id-1", Email: "ashwin@example.com"},
	}))

	require.NoError(t, svc.Initialize(context.Background()))

	state := svc.State()
	assert.False(t, state.IsAuthenticated, "unconfirmed session must not authenticate")
	assert.True(t, state.HasHydrated)
	assert.NotEmpty(t, state.Error, "the failure reason must land in the error slot")
}

func TestInitializeWithoutProfileStaysUnauthenticated(t *testing.T) {
	store := testStore(t)
	identities := newFakeIdentityService()
	identities.sessions["token-1"] = &user.RemoteSession{ID: "s1", IdentityID: "id-1", Email: "ashwin@example.com"}
	svc := NewSessionService(identities, newFakeProfileRepository(), &fakeExchanger{}, store, testLogger(t))

	require.NoError(t, store.Save("session", persistedSession{
		Token:    "token-1",
		Identity: SessionIdentity{ID: "id-1", Email: "ashwin@example.com"},
	}))

	require.NoError(t, svc.Initialize(context.Background()))

	state := svc.State()
	assert.False(t, state.IsAuthenticated, "a session without a linked profile must not authenticate")
	assert.Nil(t, state.Identity)
	assert.NotEmpty(t, state.Error)

	var stale persistedSession
	found, err := store.Load("session", &stale)
	require.NoError(t, err)
	assert.False(t, found, "the unusable persisted session must be discarded")
}

func TestInitializeProfileLookupFailureFailsClosed(t *testing.T) {
	store := testStore(t)
	identities := newFakeIdentityService()
	identities.sessions["token-1"] = &user.RemoteSession{ID: "s1", IdentityID: "id-1", Email: "ashwin@example.com"}
	profiles := newFakeProfileRepository()
	profiles.findErr = errors.New("profile store down")
	svc := NewSessionService(identities, profiles, &fakeExchanger{}, store, testLogger(t))

	require.NoError(t, store.Save("session", persistedSession{
		Token:    "token-1",
		Identity: SessionIdentity{ID: "id-1", Email: "ashwin@example.com"},
	}))

	require.NoError(t, svc.Initialize(context.Background()))

	state := svc.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.NotEmpty(t, state.Error)
}

func TestInitializeRestoresConfirmedSession(t *testing.T) {
	store := testStore(t)
	identities := newFakeIdentityService()
	identities.sessions["token-1"] = &user.RemoteSession{ID: "s1", IdentityID: "id-1", Email: "ashwin@example.com"}
	profiles := newFakeProfileRepository()
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}
	svc := NewSessionService(identities, profiles, &fakeExchanger{}, store, testLogger(t))

	require.NoError(t, store.Save("session", persistedSession{
		Token:    "token-1",
		Identity: SessionIdentity{ID: "id-1", Email: "ashwin@example.com", AuthMethod: user.AuthMethodEmail},
	}))

	require.NoError(t, svc.Initialize(context.Background()))

	state := svc.State()
	require.True(t, state.IsAuthenticated)
	assert.Equal(t, "Ashwin", state.Identity.Username)
	assert.Equal(t, "token-1", svc.Token())
}

func TestSignInSuccess(t *testing.T) {
	svc, _, profiles, _ := newSessionFixture(t)
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}

	require.NoError(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2"))

	state := svc.State()
	require.True(t, state.IsAuthenticated)
	assert.Equal(t, "Ashwin", state.Identity.Username)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
}

func TestSignInFailureSetsErrorSlot(t *testing.T) {
	svc, identities, _, _ := newSessionFixture(t)
	identities.signInErr = user.ErrInvalidCredentials

	err := svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "wrong")
	require.ErrorIs(t, err, user.ErrInvalidCredentials)

	state := svc.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.NotEmpty(t, state.Error)
}

func TestSignInWithoutProfileFails(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	err := svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2")
	require.ErrorIs(t, err, user.ErrProfileNotFound)
	assert.False(t, svc.State().IsAuthenticated)
}

func TestSignUpDuplicateDisplayNameHasNoSideEffect(t *testing.T) {
	svc, identities, profiles, _ := newSessionFixture(t)
	profiles.byID["other"] = &user.Profile{IdentityID: "other", DisplayName: "Ashwin"}

	err := svc.SignUpWithCredentials(context.Background(), "new@example.com", "hunter2", "Ashwin")
	require.ErrorIs(t, err, user.ErrDuplicateIdentity)

	assert.Equal(t, 0, identities.signUpCalls, "no remote account may be created on a duplicate name")
	assert.False(t, svc.State().IsAuthenticated)
	assert.NotEmpty(t, svc.State().Error)
}

func TestSignUpSuccess(t *testing.T) {
	svc, identities, profiles, _ := newSessionFixture(t)

	require.NoError(t, svc.SignUpWithCredentials(context.Background(), "new@example.com", "hunter2", "Niharika"))

	assert.Equal(t, 1, identities.signUpCalls)
	require.Len(t, profiles.inserts, 1)
	assert.Equal(t, "Niharika", profiles.inserts[0].DisplayName)

	state := svc.State()
	require.True(t, state.IsAuthenticated)
	assert.Equal(t, "Niharika", state.Identity.Username)
}

func TestSignOutFailsOpen(t *testing.T) {
	svc, identities, profiles, _ := newSessionFixture(t)
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}
	require.NoError(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2"))

	identities.signOutErr = errors.New("remote unavailable")
	require.NoError(t, svc.SignOut(context.Background()))

	state := svc.State()
	assert.False(t, state.IsAuthenticated, "local teardown must win even when revocation fails")
	assert.Nil(t, state.Identity)
	assert.Empty(t, svc.Token())
	assert.Equal(t, 1, identities.signOutCalls)
}

func TestOAuthProvisionsMissingProfile(t *testing.T) {
	svc, _, profiles, exchanger := newSessionFixture(t)
	exchanger.claim = &user.OAuthClaim{Subject: "g-1", Email: "pravallika@gmail.com", EmailVerified: true}

	require.NoError(t, svc.SignInWithOAuth(context.Background(), "access-token"))

	require.Len(t, profiles.inserts, 1)
	assert.Equal(t, "pravallika", profiles.inserts[0].DisplayName)

	state := svc.State()
	require.True(t, state.IsAuthenticated)
	assert.Equal(t, user.AuthMethodGoogle, state.Identity.AuthMethod)
}

func TestOAuthExchangeFailure(t *testing.T) {
	svc, _, _, exchanger := newSessionFixture(t)
	exchanger.err = user.ErrInvalidCredentials

	err := svc.SignInWithOAuth(context.Background(), "bad-token")
	require.ErrorIs(t, err, user.ErrInvalidCredentials)
	assert.False(t, svc.State().IsAuthenticated)
}

func TestUpdateProfileRejectsTakenDisplayName(t *testing.T) {
	svc, _, profiles, _ := newSessionFixture(t)
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}
	profiles.byID["other"] = &user.Profile{IdentityID: "other", DisplayName: "Pravallika"}
	require.NoError(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2"))

	name := "Pravallika"
	err := svc.UpdateProfile(context.Background(), user.ProfilePatch{DisplayName: &name})
	require.ErrorIs(t, err, user.ErrDuplicateIdentity)
	assert.Equal(t, "Ashwin", svc.State().Identity.Username)
}

func TestUpdateProfileAllowsKeepingOwnName(t *testing.T) {
	svc, _, profiles, _ := newSessionFixture(t)
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}
	require.NoError(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2"))

	name := "Ashwin"
	require.NoError(t, svc.UpdateProfile(context.Background(), user.ProfilePatch{DisplayName: &name}))
}

func TestUpdateProfileMergesIntoIdentity(t *testing.T) {
	svc, _, profiles, _ := newSessionFixture(t)
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}
	require.NoError(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2"))

	name := "AshwinK"
	require.NoError(t, svc.UpdateProfile(context.Background(), user.ProfilePatch{DisplayName: &name}))

	assert.Equal(t, "AshwinK", svc.State().Identity.Username)
	assert.Equal(t, "AshwinK", profiles.byID["id-1"].DisplayName)
}

func TestResetPasswordKeepsSessionState(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	require.NoError(t, svc.ResetPassword(context.Background(), "ashwin@example.com"))

	state := svc.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	store := testStore(t)
	identities := newFakeIdentityService()
	identities.sessions["token-1"] = &user.RemoteSession{ID: "s1", IdentityID: "id-1", Email: "ashwin@example.com"}
	profiles := newFakeProfileRepository()
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}

	first := NewSessionService(identities, profiles, &fakeExchanger{}, store, testLogger(t))
	require.NoError(t, first.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2"))

	second := NewSessionService(identities, profiles, &fakeExchanger{}, store, testLogger(t))
	require.NoError(t, second.Initialize(context.Background()))

	state := second.State()
	require.True(t, state.IsAuthenticated)
	assert.Equal(t, "Ashwin", state.Identity.Username)
}
