package services

import (
	"context"
	"time"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/security"
)

// MilestoneService manages a user's tracked dates and their countdowns.
type MilestoneService struct {
	milestones feed.MilestoneRepository
	logger     *logging.ChanneledLogger
}

func NewMilestoneService(milestones feed.MilestoneRepository, logger *logging.ChanneledLogger) *MilestoneService {
	return &MilestoneService{milestones: milestones, logger: logger}
}

// MilestoneView is a milestone with its countdown resolved for display.
type MilestoneView struct {
	feed.Milestone
	DaysRemaining int `json:"daysRemaining"`
}

// Create records a new milestone for an owner.
func (s *MilestoneService) Create(ctx context.Context, ownerID, title string, kind feed.MilestoneType, date time.Time) (*feed.Milestone, error) {
	m := &feed.Milestone{
		ID:        security.GenerateULID(),
		OwnerID:   ownerID,
		Title:     title,
		Type:      kind,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.milestones.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a milestone; the owner check lives in the repository
// so one user cannot delete another's milestones.
func (s *MilestoneService) Delete(ctx context.Context, ownerID, id string) error {
	return s.milestones.Delete(ctx, ownerID, id)
}

// List returns the owner's milestones with countdowns, soonest first.
func (s *MilestoneService) List(ctx context.Context, ownerID string) ([]MilestoneView, error) {
	stored, err := s.milestones.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]MilestoneView, 0, len(stored))
	for _, m := range stored {
		views = append(views, MilestoneView{Milestone: *m, DaysRemaining: m.DaysRemaining(now)})
	}
	return views, nil
}
