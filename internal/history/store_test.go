package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Record(ctx, Entry{
		Kind:       "update",
		Text:       "first",
		StatusCode: 200,
		Accepted:   true,
	}))
	require.NoError(t, store.Record(ctx, Entry{
		Kind:       "upload",
		Text:       "second",
		MediaID:    "710511363345354753",
		StatusCode: 403,
	}))

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "second", entries[0].Text)
	assert.Equal(t, "upload", entries[0].Kind)
	assert.Equal(t, "710511363345354753", entries[0].MediaID)
	assert.Equal(t, 403, entries[0].StatusCode)
	assert.False(t, entries[0].Accepted)

	assert.Equal(t, "first", entries[1].Text)
	assert.True(t, entries[1].Accepted)
	assert.False(t, entries[1].CreatedAt.IsZero())
}

func TestStore_RecentLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Entry{Kind: "update", Text: "t"}))
	}

	entries, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestStore_RecentEmpty(t *testing.T) {
	store := newTestStore(t)
	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	store, err := NewStore(context.Background(), path)
	require.NoError(t, err)
	store.Close()
}
