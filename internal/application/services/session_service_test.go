package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodayhq/mooday-go/internal/domain/user"
)

func TestSupersededResultIsDiscarded(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	older := svc.begin()
	newer := svc.begin()

	stale := &SessionIdentity{ID: "stale", Email: "stale@example.com"}
	assert.False(t, svc.settle(older, stale, "stale-token", ""),
		"a result landing after a newer operation began must not apply")

	state := svc.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.Identity)
	assert.True(t, state.IsLoading, "the newer operation is still in flight")

	fresh := &SessionIdentity{ID: "fresh", Email: "fresh@example.com"}
	require.True(t, svc.settle(newer, fresh, "fresh-token", ""))

	state = svc.State()
	require.True(t, state.IsAuthenticated)
	assert.Equal(t, "fresh", state.Identity.ID)
	assert.Equal(t, "fresh-token", svc.Token())
}

func TestBeginClearsPriorError(t *testing.T) {
	svc, identities, _, _ := newSessionFixture(t)
	identities.signInErr = user.ErrInvalidCredentials

	require.Error(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "wrong"))
	require.NotEmpty(t, svc.State().Error)

	identities.signInErr = nil
	seq := svc.begin()
	assert.Empty(t, svc.State().Error)
	svc.settle(seq, nil, "", "")
}

func TestStateReturnsACopy(t *testing.T) {
	svc, _, profiles, _ := newSessionFixture(t)
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}
	require.NoError(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2"))

	state := svc.State()
	state.Identity.Username = "mangled"

	assert.Equal(t, "Ashwin", svc.State().Identity.Username)
}

func TestViewProjectsGuardFields(t *testing.T) {
	svc, _, profiles, _ := newSessionFixture(t)
	profiles.byID["id-1"] = &user.Profile{IdentityID: "id-1", DisplayName: "Ashwin"}

	view := svc.View()
	assert.False(t, view.IsAuthenticated)
	assert.False(t, view.HasHydrated)

	require.NoError(t, svc.Initialize(context.Background()))
	require.NoError(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "hunter2"))

	view = svc.View()
	assert.True(t, view.IsAuthenticated)
	assert.True(t, view.HasHydrated)
	assert.False(t, view.IsLoading)
}

func TestClearErrorDropsStoredError(t *testing.T) {
	svc, identities, _, _ := newSessionFixture(t)
	identities.signInErr = user.ErrInvalidCredentials

	require.Error(t, svc.SignInWithCredentials(context.Background(), "ashwin@example.com", "wrong"))
	require.NotEmpty(t, svc.State().Error)

	svc.ClearError()
	assert.Empty(t, svc.State().Error)
}
