package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/persistence/database"
)

// SQLReactionRepository persists the flattened reaction entries behind the
// in-memory aggregates. One row per (post, user); the single-choice rule
// is the primary key.
type SQLReactionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLReactionRepository creates a new instance of the repository.
func NewSQLReactionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLReactionRepository {
	return &SQLReactionRepository{db: db, logger: logger}
}

var _ feed.ReactionRepository = (*SQLReactionRepository)(nil)

// Replace upserts a user's reaction on a post.
func (r *SQLReactionRepository) Replace(ctx context.Context, postID, userName string, kind feed.ReactionKind) error {
	const query = `
		INSERT INTO reactions (post_id, user_name, kind, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(post_id, user_name) DO UPDATE SET kind = excluded.kind`

	if _, err := r.db.ExecContext(ctx, query, postID, userName, kind, time.Now().UTC()); err != nil {
		r.logger.Database().Error("Failed to store reaction", "error", err.Error(), "postId", postID)
		return fmt.Errorf("failed to store reaction: %w", err)
	}
	return nil
}

// Delete removes a user's reaction on a post.
func (r *SQLReactionRepository) Delete(ctx context.Context, postID, userName string) error {
	const query = `DELETE FROM reactions WHERE post_id = ? AND user_name = ?`

	if _, err := r.db.ExecContext(ctx, query, postID, userName); err != nil {
		r.logger.Database().Error("Failed to delete reaction", "error", err.Error(), "postId", postID)
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}

// ListByPost returns every reaction entry on a post.
func (r *SQLReactionRepository) ListByPost(ctx context.Context, postID string) ([]feed.ReactionEntry, error) {
	const query = `SELECT user_name, kind FROM reactions WHERE post_id = ?`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		r.logger.Database().Error("Failed to list reactions", "error", err.Error(), "postId", postID)
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	defer rows.Close()

	var entries []feed.ReactionEntry
	for rows.Next() {
		var e feed.ReactionEntry
		if err := rows.Scan(&e.UserName, &e.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
