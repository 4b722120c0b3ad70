package feed

import (
	"context"
	"fmt"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/persistence/database"
)

// SQLMilestoneRepository is the SQL-based implementation of the MilestoneRepository.
type SQLMilestoneRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLMilestoneRepository creates a new instance of the repository.
func NewSQLMilestoneRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLMilestoneRepository {
	return &SQLMilestoneRepository{db: db, logger: logger}
}

var _ feed.MilestoneRepository = (*SQLMilestoneRepository)(nil)

// Insert stores a new milestone.
func (r *SQLMilestoneRepository) Insert(ctx context.Context, m *feed.Milestone) error {
	const query = `INSERT INTO milestones (id, owner_id, title, type, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, m.ID, m.OwnerID, m.Title, m.Type, m.Date, m.CreatedAt); err != nil {
		r.logger.Database().Error("Failed to insert milestone", "error", err.Error(), "milestoneId", m.ID)
		return fmt.Errorf("failed to insert milestone: %w", err)
	}
	return nil
}

// Delete removes one of the owner's milestones.
func (r *SQLMilestoneRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM milestones WHERE owner_id = ? AND id = ?`

	if _, err := r.db.ExecContext(ctx, query, ownerID, id); err != nil {
		r.logger.Database().Error("Failed to delete milestone", "error", err.Error(), "milestoneId", id)
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's milestones, soonest first.
func (r *SQLMilestoneRepository) ListByOwner(ctx context.Context, ownerID string) ([]*feed.Milestone, error) {
	const query = `SELECT id, owner_id, title, type, date, created_at FROM milestones WHERE owner_id = ? ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		r.logger.Database().Error("Failed to list milestones", "error", err.Error(), "ownerId", ownerID)
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	var milestones []*feed.Milestone
	for rows.Next() {
		var m feed.Milestone
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Title, &m.Type, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, &m)
	}
	return milestones, rows.Err()
}
