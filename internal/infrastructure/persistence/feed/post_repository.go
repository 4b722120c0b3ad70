// Package feed provides the SQL-based implementations of the feed domain
// repositories (posts, reactions, milestones).
package feed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/persistence/database"
)

// SQLPostRepository is the SQL-based implementation of the PostRepository.
type SQLPostRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLPostRepository creates a new instance of the repository.
func NewSQLPostRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLPostRepository {
	return &SQLPostRepository{db: db, logger: logger}
}

var _ feed.PostRepository = (*SQLPostRepository)(nil)

const postColumns = `id, author_id, author_name, author_initials, author_photo,
	       author_streak, mood_emoji, journal_snippet, comment_count, created_at`

// Insert stores a new post.
func (r *SQLPostRepository) Insert(ctx context.Context, post *feed.Post) error {
	const query = `
		INSERT INTO posts (id, author_id, author_name, author_initials, author_photo, author_streak, mood_emoji, journal_snippet, comment_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.AuthorID,
		post.Author.Name,
		post.Author.Initials,
		post.Author.PhotoURL,
		post.Author.Streak,
		post.MoodEmoji,
		post.JournalSnippet,
		post.CommentCount,
		post.CreatedAt,
	)
	if err != nil {
		r.logger.Database().Error("Failed to insert post", "error", err.Error(), "postId", post.ID)
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// FindByID retrieves one post, or (nil, nil) when absent.
func (r *SQLPostRepository) FindByID(ctx context.Context, id string) (*feed.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ? LIMIT 1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to load post", "error", err.Error(), "postId", id)
		return nil, err
	}
	return post, nil
}

// ListRecent retrieves the newest posts, most recent first.
func (r *SQLPostRepository) ListRecent(ctx context.Context, limit int) ([]*feed.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Database().Error("Failed to list posts", "error", err.Error())
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	posts := make([]*feed.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.Timestamp = feed.Relative(post.CreatedAt, now)
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// LastPostedAt returns the creation time of an author's newest post, or
// the zero time when they have never posted.
func (r *SQLPostRepository) LastPostedAt(ctx context.Context, authorID string) (time.Time, error) {
	const query = `SELECT created_at FROM posts WHERE author_id = ? ORDER BY created_at DESC LIMIT 1`

	var last time.Time
	err := r.db.QueryRowContext(ctx, query, authorID).Scan(&last)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to load last post time", "error", err.Error(), "authorId", authorID)
		return time.Time{}, fmt.Errorf("failed to load last post time: %w", err)
	}
	return last, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*feed.Post, error) {
	var post feed.Post
	var photo, snippet sql.NullString

	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Author.Name,
		&post.Author.Initials,
		&photo,
		&post.Author.Streak,
		&post.MoodEmoji,
		&snippet,
		&post.CommentCount,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if photo.Valid {
		post.Author.PhotoURL = photo.String
	}
	if snippet.Valid {
		post.JournalSnippet = snippet.String
	}
	return &post, nil
}
