package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
)

type fakeMilestoneRepository struct {
	byOwner map[string][]*feed.Milestone
}

func (f *fakeMilestoneRepository) Insert(_ context.Context, m *feed.Milestone) error {
	if f.byOwner == nil {
		f.byOwner = make(map[string][]*feed.Milestone)
	}
	f.byOwner[m.OwnerID] = append(f.byOwner[m.OwnerID], m)
	return nil
}

func (f *fakeMilestoneRepository) Delete(_ context.Context, ownerID, id string) error {
	kept := f.byOwner[ownerID][:0]
	for _, m := range f.byOwner[ownerID] {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	f.byOwner[ownerID] = kept
	return nil
}

func (f *fakeMilestoneRepository) ListByOwner(_ context.Context, ownerID string) ([]*feed.Milestone, error) {
	return f.byOwner[ownerID], nil
}

func TestMilestoneLifecycle(t *testing.T) {
	repo := &fakeMilestoneRepository{}
	svc := NewMilestoneService(repo, testLogger(t))

	now := time.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 14)
	created, err := svc.Create(context.Background(), "id-1", "Anniversary", feed.MilestoneAnniversary, date)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	views, err := svc.List(context.Background(), "id-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 14, views[0].DaysRemaining)

	require.NoError(t, svc.Delete(context.Background(), "id-1", created.ID))
	views, err = svc.List(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestMilestonesAreOwnerScoped(t *testing.T) {
	repo := &fakeMilestoneRepository{}
	svc := NewMilestoneService(repo, testLogger(t))

	_, err := svc.Create(context.Background(), "id-1", "Birthday", feed.MilestoneBirthday, time.Now().UTC().AddDate(0, 1, 0))
	require.NoError(t, err)

	views, err := svc.List(context.Background(), "id-2")
	require.NoError(t, err)
	assert.Empty(t, views)
}
