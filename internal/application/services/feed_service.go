package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/messaging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/security"
)

// SortOrder controls feed ordering by relative age.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// FeedQuery narrows and orders the feed. Search matches author names by
// case-insensitive substring; an empty search keeps everything.
type FeedQuery struct {
	Search string
	Order  SortOrder
	Limit  int
}

// FeedService assembles the circle feed: recent posts, filtered and
// ordered for display, with posting streaks advanced on every new post.
type FeedService struct {
	posts       feed.PostRepository
	profiles    user.ProfileRepository
	broadcaster *messaging.CircleBroadcaster
	logger      *logging.ChanneledLogger
	pageSize    int
}

func NewFeedService(
	posts feed.PostRepository,
	profiles user.ProfileRepository,
	broadcaster *messaging.CircleBroadcaster,
	logger *logging.ChanneledLogger,
	pageSize int,
) *FeedService {
	return &FeedService{
		posts:       posts,
		profiles:    profiles,
		broadcaster: broadcaster,
		logger:      logger,
		pageSize:    pageSize,
	}
}

// List returns the feed for a query. Filtering and ordering happen on
// the loaded page; equal-age posts keep their stored order.
func (s *FeedService) List(ctx context.Context, query FeedQuery) ([]*feed.Post, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = s.pageSize
	}

	posts, err := s.posts.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	if search := strings.TrimSpace(query.Search); search != "" {
		needle := strings.ToLower(search)
		filtered := posts[:0]
		for _, post := range posts {
			if strings.Contains(strings.ToLower(post.Author.Name), needle) {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	sort.SliceStable(posts, func(i, j int) bool {
		a := feed.RelativeMinutes(posts[i].Timestamp)
		b := feed.RelativeMinutes(posts[j].Timestamp)
		if query.Order == SortDescending {
			return a > b
		}
		return a < b
	})
	return posts, nil
}

// Post returns a single post by id, or (nil, nil) when it does not exist.
func (s *FeedService) Post(ctx context.Context, id string) (*feed.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// Create stores a new mood post for an author, advances their posting
// streak and pushes the post to the circle.
func (s *FeedService) Create(ctx context.Context, authorID string, author feed.Author, moodEmoji, journalSnippet string) (*feed.Post, error) {
	now := time.Now().UTC()

	streak, err := s.advanceStreak(ctx, authorID, now)
	if err != nil {
		s.logger.Feed().Warn("Streak update failed", "authorId", authorID, "error", err)
	} else {
		author.Streak = streak
	}

	post := &feed.Post{
		ID:             security.GenerateULID(),
		AuthorID:       authorID,
		Author:         author,
		MoodEmoji:      moodEmoji,
		JournalSnippet: journalSnippet,
		Timestamp:      feed.Relative(now, now),
		CreatedAt:      now,
	}
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Feed().Info("Post created", "postId", post.ID, "author", author.Name)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastPost(post)
	}
	return post, nil
}

// advanceStreak computes the author's posting streak for a post at now
// and writes it back to their profile.
func (s *FeedService) advanceStreak(ctx context.Context, authorID string, now time.Time) (int, error) {
	last, err := s.posts.LastPostedAt(ctx, authorID)
	if err != nil {
		return 0, err
	}

	current := 0
	if profile, err := s.profiles.FindByIdentityID(ctx, authorID); err == nil && profile != nil {
		current = profile.Streak
	}

	streak := feed.NextStreak(current, last, now)
	if streak != current {
		if err := s.profiles.Update(ctx, authorID, user.ProfilePatch{Streak: &streak}); err != nil {
			return 0, err
		}
	}
	return streak, nil
}
