package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
)

// fakeReactionRepository stores one row per (post, user) like the SQL
// implementation's upsert.
type fakeReactionRepository struct {
	rows map[string]map[string]feed.ReactionKind
}

func newFakeReactionRepository() *fakeReactionRepository {
	return &fakeReactionRepository{rows: make(map[string]map[string]feed.ReactionKind)}
}

func (f *fakeReactionRepository) Replace(_ context.Context, postID, userName string, kind feed.ReactionKind) error {
	if f.rows[postID] == nil {
		f.rows[postID] = make(map[string]feed.ReactionKind)
	}
	f.rows[postID][userName] = kind
	return nil
}

func (f *fakeReactionRepository) Delete(_ context.Context, postID, userName string) error {
	delete(f.rows[postID], userName)
	return nil
}

func (f *fakeReactionRepository) ListByPost(_ context.Context, postID string) ([]feed.ReactionEntry, error) {
	var entries []feed.ReactionEntry
	for userName, kind := range f.rows[postID] {
		entries = append(entries, feed.ReactionEntry{UserName: userName, Kind: kind})
	}
	return entries, nil
}

func TestReactionToggleWritesThrough(t *testing.T) {
	repo := newFakeReactionRepository()
	svc := NewReactionService(repo, nil, testLogger(t))

	breakdown, err := svc.Toggle(context.Background(), "p1", "ashwin")
	require.NoError(t, err)
	assert.Equal(t, 1, breakdown.Total)
	assert.Equal(t, feed.ReactionLike, repo.rows["p1"]["ashwin"])

	breakdown, err = svc.Toggle(context.Background(), "p1", "ashwin")
	require.NoError(t, err)
	assert.Equal(t, 0, breakdown.Total)
	_, stored := repo.rows["p1"]["ashwin"]
	assert.False(t, stored)
}

func TestReactionSelectReplacesStoredRow(t *testing.T) {
	repo := newFakeReactionRepository()
	svc := NewReactionService(repo, nil, testLogger(t))

	_, err := svc.Select(context.Background(), "p1", "ashwin", feed.ReactionLove)
	require.NoError(t, err)
	_, err = svc.Select(context.Background(), "p1", "ashwin", feed.ReactionSupport)
	require.NoError(t, err)

	assert.Equal(t, feed.ReactionSupport, repo.rows["p1"]["ashwin"])

	breakdown, err := svc.Breakdown(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, breakdown.Total)
	assert.Equal(t, []feed.ReactionKind{feed.ReactionSupport}, breakdown.Top)
}

func TestReactionAggregateSeedsFromStore(t *testing.T) {
	repo := newFakeReactionRepository()
	require.NoError(t, repo.Replace(context.Background(), "p1", "pravallika", feed.ReactionCelebrate))
	require.NoError(t, repo.Replace(context.Background(), "p1", "niharika", feed.ReactionCelebrate))
	svc := NewReactionService(repo, nil, testLogger(t))

	breakdown, err := svc.Breakdown(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, breakdown.Total)
	assert.Equal(t, 2, breakdown.Counts[feed.ReactionCelebrate])
}

func TestReactionAggregatesArePerPost(t *testing.T) {
	repo := newFakeReactionRepository()
	svc := NewReactionService(repo, nil, testLogger(t))

	_, err := svc.Toggle(context.Background(), "p1", "ashwin")
	require.NoError(t, err)

	breakdown, err := svc.Breakdown(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, 0, breakdown.Total)
}
