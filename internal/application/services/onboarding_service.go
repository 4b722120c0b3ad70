package services

import (
	"sync"

	"github.com/moodayhq/mooday-go/internal/infrastructure/kv"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

const onboardingKey = "onboarding"

// OnboardingProfile is the locally persisted onboarding progress. It is
// written on every mutation and read back once at startup.
type OnboardingProfile struct {
	DisplayName            string `json:"displayName"`
	UserStatus             string `json:"userStatus"`
	HasCompletedOnboarding bool   `json:"hasCompletedOnboarding"`
}

// OnboardingService owns the onboarding profile. It is never cleared
// implicitly; Reset exists for explicit re-onboarding.
type OnboardingService struct {
	store  *kv.Store
	logger *logging.ChanneledLogger

	mu      sync.Mutex
	profile OnboardingProfile
}

func NewOnboardingService(store *kv.Store, logger *logging.ChanneledLogger) *OnboardingService {
	return &OnboardingService{store: store, logger: logger}
}

// Hydrate loads the persisted profile; a missing record leaves the
// empty defaults in place.
func (o *OnboardingService) Hydrate() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.store.Load(onboardingKey, &o.profile); err != nil {
		return err
	}
	return nil
}

// Profile returns a copy of the current onboarding state.
func (o *OnboardingService) Profile() OnboardingProfile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profile
}

// SetDisplayName records the name chosen during onboarding.
func (o *OnboardingService) SetDisplayName(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.profile.DisplayName = name
	return o.save()
}

// SetUserStatus records the mood status line chosen during onboarding.
func (o *OnboardingService) SetUserStatus(status string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.profile.UserStatus = status
	return o.save()
}

// Complete marks the flow finished, whether walked through or skipped.
func (o *OnboardingService) Complete() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.profile.HasCompletedOnboarding = true
	return o.save()
}

// Reset returns the profile to its initial empty state, for
// logout-driven re-onboarding.
func (o *OnboardingService) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.profile = OnboardingProfile{}
	return o.save()
}

func (o *OnboardingService) save() error {
	if err := o.store.Save(onboardingKey, o.profile); err != nil {
		o.logger.Storage().Error("Failed to persist onboarding profile", "error", err)
		return err
	}
	return nil
}
