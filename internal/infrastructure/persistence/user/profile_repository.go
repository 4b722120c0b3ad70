package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/persistence/database"
	"github.com/moodayhq/mooday-go/pkg/config"
)

// SQLProfileRepository is the SQL-based implementation of the ProfileRepository.
type SQLProfileRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLProfileRepository creates a new instance of the repository.
func NewSQLProfileRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLProfileRepository {
	return &SQLProfileRepository{
		db:     db,
		logger: logger,
	}
}

var _ user.ProfileRepository = (*SQLProfileRepository)(nil)

const profileColumns = `identity_id, email, display_name, auth_method, avatar_path,
	       streak, user_status, email_verified, created_at, last_login`

// FindByIdentityID retrieves the profile linked to an identity.
func (r *SQLProfileRepository) FindByIdentityID(ctx context.Context, identityID string) (*user.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE identity_id = ? LIMIT 1`

	start := time.Now()
	r.logger.Database().Debug("Loading profile by identity", "identityId", identityID)

	row := r.db.QueryRowContext(ctx, query, identityID)
	profile, err := r.scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("Profile not found by identity", "identityId", identityID)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load profile by identity", "error", err.Error(), "identityId", identityID)
		return nil, err
	}

	if d := time.Since(start); d > config.SlowQueryThreshold {
		r.logger.Database().Warn("Slow query detected", "query", "profiles.by_identity", "duration", d)
	}
	return profile, nil
}

// FindByDisplayName retrieves the profile holding a display name.
func (r *SQLProfileRepository) FindByDisplayName(ctx context.Context, displayName string) (*user.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE display_name = ? LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, displayName)
	profile, err := r.scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load profile by display name", "error", err.Error())
		return nil, err
	}
	return profile, nil
}

// Insert stores a new profile record.
func (r *SQLProfileRepository) Insert(ctx context.Context, profile *user.Profile) error {
	const query = `
		INSERT INTO profiles (identity_id, email, display_name, auth_method, avatar_path, streak, user_status, email_verified, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		profile.IdentityID,
		profile.Email,
		profile.DisplayName,
		profile.AuthMethod,
		profile.AvatarPath,
		profile.Streak,
		profile.UserStatus,
		profile.EmailVerified,
		profile.CreatedAt,
		profile.LastLogin,
	)
	if err != nil {
		r.logger.Database().Error("Failed to insert profile", "error", err.Error(), "identityId", profile.IdentityID)
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of patch to a profile.
func (r *SQLProfileRepository) Update(ctx context.Context, identityID string, patch user.ProfilePatch) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if patch.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *patch.DisplayName)
	}
	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.AvatarPath != nil {
		sets = append(sets, "avatar_path = ?")
		args = append(args, *patch.AvatarPath)
	}
	if patch.Streak != nil {
		sets = append(sets, "streak = ?")
		args = append(args, *patch.Streak)
	}
	if patch.LastLogin != nil {
		sets = append(sets, "last_login = ?")
		args = append(args, patch.LastLogin.UTC())
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE profiles SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE identity_id = ?"
	args = append(args, identityID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Database().Error("Failed to update profile", "error", err.Error(), "identityId", identityID)
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *SQLProfileRepository) scanProfile(row *sql.Row) (*user.Profile, error) {
	var profile user.Profile
	var avatarPath sql.NullString
	var lastLogin sql.NullTime

	err := row.Scan(
		&profile.IdentityID,
		&profile.Email,
		&profile.DisplayName,
		&profile.AuthMethod,
		&avatarPath,
		&profile.Streak,
		&profile.UserStatus,
		&profile.EmailVerified,
		&profile.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}

	if avatarPath.Valid {
		profile.AvatarPath = avatarPath.String
	}
	if lastLogin.Valid {
		profile.LastLogin = lastLogin.Time
	}
	return &profile, nil
}
