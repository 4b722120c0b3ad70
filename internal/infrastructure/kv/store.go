// Package kv provides the local persisted key-value storage used to
// hydrate client state across restarts: one JSON document per key,
// deserialized once at startup and serialized on every mutation.
package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

// Store is a file-backed JSON key-value store. Writes go through a temp
// file and rename so a crash mid-write never leaves a torn document.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *logging.ChanneledLogger
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string, logger *logging.ChanneledLogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Load reads a key into v. The second return is false when the key has
// never been written.
func (s *Store) Load(key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		s.logger.Storage().Debug("State key not present", "key", key)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read state %q: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode state %q: %w", key, err)
	}
	s.logger.Storage().Debug("State key loaded", "key", key, "bytes", len(data))
	return true, nil
}

// Save serializes v under key.
func (s *Store) Save(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state %q: %w", key, err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state %q: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to commit state %q: %w", key, err)
	}

	s.logger.Storage().Debug("State key saved", "key", key, "bytes", len(data))
	return nil
}

// Delete removes a key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state %q: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
