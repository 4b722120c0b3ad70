package kv

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	store, err := NewStore(t.TempDir(), logger)
	require.NoError(t, err)
	return store
}

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("profile", record{Name: "Ashwin", Count: 7}))

	var got record
	found, err := store.Load("profile", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record{Name: "Ashwin", Count: 7}, got)
}

func TestStoreLoadMissingKey(t *testing.T) {
	store := newTestStore(t)

	var got record
	found, err := store.Load("absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreOverwrite(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("profile", record{Name: "Ashwin"}))
	require.NoError(t, store.Save("profile", record{Name: "Pravallika"}))

	var got record
	found, err := store.Load("profile", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Pravallika", got.Name)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("profile", record{Name: "Ashwin"}))
	require.NoError(t, store.Delete("profile"))

	var got record
	found, err := store.Load("profile", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete("profile"))
}
