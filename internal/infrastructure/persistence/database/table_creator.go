package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/moodayhq/mooday-go/internal/infrastructure/security"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS identities (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		auth_method TEXT NOT NULL DEFAULT 'email',
		email_verified INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL,
		email TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		FOREIGN KEY (identity_id) REFERENCES identities(id)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		identity_id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		display_name TEXT NOT NULL,
		auth_method TEXT NOT NULL DEFAULT 'email',
		avatar_path TEXT,
		streak INTEGER NOT NULL DEFAULT 0,
		user_status TEXT NOT NULL DEFAULT 'active',
		email_verified INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		last_login TIMESTAMP,
		FOREIGN KEY (identity_id) REFERENCES identities(id)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		author_name TEXT NOT NULL,
		author_initials TEXT NOT NULL,
		author_photo TEXT,
		author_streak INTEGER NOT NULL DEFAULT 0,
		mood_emoji TEXT NOT NULL,
		journal_snippet TEXT,
		comment_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reactions (
		post_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (post_id, user_name)
	)`,
	`CREATE TABLE IF NOT EXISTS milestones (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		type TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_display_name ON profiles(display_name)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_identity ON sessions(identity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reactions_post ON reactions(post_id)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_owner ON milestones(owner_id)`,
}

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedSampleFeed idempotently inserts the first-run sample posts shown to a
// fresh circle.
func (tc *TableCreator) SeedSampleFeed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("failed to check for existing posts: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	samples := []struct {
		name     string
		initials string
		streak   int
		emoji    string
		snippet  string
		age      time.Duration
	}{
		{"Ashwin", "A", 7, "\U0001F60A", "Had a really productive day today! Finished a big project and feeling accomplished. It feels great to check things off the list.", 2 * time.Hour},
		{"Pravallika", "P", 12, "\U0001F389", "Celebrating a small win today! It is important to acknowledge the little steps.", 5 * time.Hour},
		{"Niharika", "N", 0, "\U0001F614", "Feeling a bit down today, trying to stay positive. Sometimes it is hard, but I will get through this.", 24 * time.Hour},
	}

	for _, s := range samples {
		_, err := db.Exec(`INSERT INTO posts (id, author_id, author_name, author_initials, author_photo, author_streak, mood_emoji, journal_snippet, comment_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			security.GenerateULID(), "seed-"+s.initials, s.name, s.initials, "", s.streak, s.emoji, s.snippet, 0, now.Add(-s.age))
		if err != nil {
			return fmt.Errorf("failed to seed sample post: %w", err)
		}
	}
	return nil
}
