package services

import (
	"context"
	"sync"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/infrastructure/messaging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

// ReactionService drives the per-post reaction aggregates. Aggregates
// are built lazily from stored reactions on first access and kept in
// memory afterwards; every mutation is written through to the store and
// pushed to connected circle members.
type ReactionService struct {
	reactions   feed.ReactionRepository
	broadcaster *messaging.CircleBroadcaster
	logger      *logging.ChanneledLogger

	mu         sync.Mutex
	aggregates map[string]*feed.ReactionAggregate
}

func NewReactionService(
	reactions feed.ReactionRepository,
	broadcaster *messaging.CircleBroadcaster,
	logger *logging.ChanneledLogger,
) *ReactionService {
	return &ReactionService{
		reactions:   reactions,
		broadcaster: broadcaster,
		logger:      logger,
		aggregates:  make(map[string]*feed.ReactionAggregate),
	}
}

// Toggle applies the quick-tap gesture for a viewer: no reaction yet
// becomes a like, any existing reaction is removed entirely.
func (s *ReactionService) Toggle(ctx context.Context, postID, viewer string) (feed.Breakdown, error) {
	agg, err := s.aggregate(ctx, postID)
	if err != nil {
		return feed.Breakdown{}, err
	}

	agg.ToggleDefault(viewer)
	return s.commit(ctx, postID, viewer, agg)
}

// Select applies the long-press choice of a specific kind: picking the
// current kind removes it, picking another replaces it.
func (s *ReactionService) Select(ctx context.Context, postID, viewer string, kind feed.ReactionKind) (feed.Breakdown, error) {
	agg, err := s.aggregate(ctx, postID)
	if err != nil {
		return feed.Breakdown{}, err
	}

	agg.Select(viewer, kind)
	return s.commit(ctx, postID, viewer, agg)
}

// Breakdown returns the current aggregate view for a post.
func (s *ReactionService) Breakdown(ctx context.Context, postID string) (feed.Breakdown, error) {
	agg, err := s.aggregate(ctx, postID)
	if err != nil {
		return feed.Breakdown{}, err
	}
	return agg.Snapshot(), nil
}

// commit writes the viewer's post-mutation choice through to the store
// and notifies the circle.
func (s *ReactionService) commit(ctx context.Context, postID, viewer string, agg *feed.ReactionAggregate) (feed.Breakdown, error) {
	if kind, ok := agg.CurrentFor(viewer); ok {
		if err := s.reactions.Replace(ctx, postID, viewer, kind); err != nil {
			return feed.Breakdown{}, err
		}
	} else {
		if err := s.reactions.Delete(ctx, postID, viewer); err != nil {
			return feed.Breakdown{}, err
		}
	}

	breakdown := agg.Snapshot()
	if s.broadcaster != nil {
		s.broadcaster.BroadcastReaction(postID, viewer, breakdown)
	}
	return breakdown, nil
}

// aggregate returns the in-memory aggregate for a post, seeding it from
// stored reactions on first access.
func (s *ReactionService) aggregate(ctx context.Context, postID string) (*feed.ReactionAggregate, error) {
	s.mu.Lock()
	if agg, ok := s.aggregates[postID]; ok {
		s.mu.Unlock()
		return agg, nil
	}
	s.mu.Unlock()

	entries, err := s.reactions.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if agg, ok := s.aggregates[postID]; ok {
		return agg, nil
	}
	agg := feed.NewReactionAggregate()
	agg.Seed(entries)
	s.aggregates[postID] = agg
	return agg, nil
}
