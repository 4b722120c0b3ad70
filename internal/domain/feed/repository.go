package feed

import (
	"context"
	"time"
)

// PostRepository persists mood posts.
type PostRepository interface {
	Insert(ctx context.Context, post *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	ListRecent(ctx context.Context, limit int) ([]*Post, error)

	// LastPostedAt returns the creation time of an author's most recent
	// post, or the zero time when they have never posted.
	LastPostedAt(ctx context.Context, authorID string) (time.Time, error)
}

// ReactionRepository persists the flattened reaction entries behind the
// in-memory aggregates so they survive restarts.
type ReactionRepository interface {
	Replace(ctx context.Context, postID, userName string, kind ReactionKind) error
	Delete(ctx context.Context, postID, userName string) error
	ListByPost(ctx context.Context, postID string) ([]ReactionEntry, error)
}

// MilestoneRepository persists tracked milestones.
type MilestoneRepository interface {
	Insert(ctx context.Context, m *Milestone) error
	Delete(ctx context.Context, ownerID, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Milestone, error)
}
