package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingStartsEmpty(t *testing.T) {
	svc := NewOnboardingService(testStore(t), testLogger(t))
	require.NoError(t, svc.Hydrate())

	profile := svc.Profile()
	assert.Empty(t, profile.DisplayName)
	assert.False(t, profile.HasCompletedOnboarding)
}

func TestOnboardingProgressPersists(t *testing.T) {
	store := testStore(t)
	first := NewOnboardingService(store, testLogger(t))
	require.NoError(t, first.SetDisplayName("Ashwin"))
	require.NoError(t, first.SetUserStatus("feeling good"))
	require.NoError(t, first.Complete())

	second := NewOnboardingService(store, testLogger(t))
	require.NoError(t, second.Hydrate())

	profile := second.Profile()
	assert.Equal(t, "Ashwin", profile.DisplayName)
	assert.Equal(t, "feeling good", profile.UserStatus)
	assert.True(t, profile.HasCompletedOnboarding)
}

func TestOnboardingReset(t *testing.T) {
	svc := NewOnboardingService(testStore(t), testLogger(t))
	require.NoError(t, svc.SetDisplayName("Ashwin"))
	require.NoError(t, svc.Complete())

	require.NoError(t, svc.Reset())

	profile := svc.Profile()
	assert.Empty(t, profile.DisplayName)
	assert.False(t, profile.HasCompletedOnboarding)
}
