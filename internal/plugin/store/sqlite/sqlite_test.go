package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hivemind/memory-store/internal/config"
	registrymigrate "github.com/hivemind/memory-store/internal/registry/migrate"
	registrystore "github.com/hivemind/memory-store/internal/registry/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (context.Context, registrystore.RecordStore) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "test.db")
	cfg.VectorType = ""
	cfg.EmbedType = "none"
	ctx := config.WithContext(context.Background(), &cfg)

	require.NoError(t, registrymigrate.RunAll(ctx))

	loader, err := registrystore.Select("sqlite")
	require.NoError(t, err)
	store, err := loader(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return ctx, store
}

func TestUpsertInsertsUnsynced(t *testing.T) {
	ctx, store := setupStore(t)

	rec, err := store.Upsert(ctx, "alpha", "first value", "notes")
	require.NoError(t, err)
	assert.Equal(t, "alpha", rec.Key)
	assert.Equal(t, "first value", rec.Value)
	assert.Equal(t, "notes", rec.Category)
	assert.False(t, rec.Synced())
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestUpsertReplacesAndDemotes(t *testing.T) {
	ctx, store := setupStore(t)

	first, err := store.Upsert(ctx, "alpha", "v1", "notes")
	require.NoError(t, err)
	require.NoError(t, store.MarkSynced(ctx, "alpha"))

	time.Sleep(5 * time.Millisecond)
	second, err := store.Upsert(ctx, "alpha", "v2", "other")
	require.NoError(t, err)

	assert.Equal(t, "v2", second.Value)
	assert.Equal(t, "other", second.Category)
	assert.False(t, second.Synced(), "value change must demote sync state")
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix(), "created_at survives replacement")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	total, _, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "upsert must not duplicate the key")
}

func TestUpsertDefaultsCategory(t *testing.T) {
	ctx, store := setupStore(t)

	rec, err := store.Upsert(ctx, "alpha", "value", "")
	require.NoError(t, err)
	assert.Equal(t, "general", rec.Category)
}

func TestGetNotFound(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, registrystore.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.Upsert(ctx, "alpha", "value", "")
	require.NoError(t, err)

	found, err := store.Delete(ctx, "alpha")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Delete(ctx, "alpha")
	require.NoError(t, err)
	assert.False(t, found, "second delete reports absence, not an error")

	_, err = store.Get(ctx, "alpha")
	assert.ErrorIs(t, err, registrystore.ErrNotFound)
}

func TestListFiltersAndOrders(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.Upsert(ctx, "a", "one", "work")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = store.Upsert(ctx, "b", "two", "home")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = store.Upsert(ctx, "c", "three", "work")
	require.NoError(t, err)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Key, "newest first")

	work, err := store.List(ctx, "work")
	require.NoError(t, err)
	require.Len(t, work, 2)
	assert.Equal(t, "c", work[0].Key)
	assert.Equal(t, "a", work[1].Key)
}

func TestKeywordSearch(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.Upsert(ctx, "grocery-list", "buy milk and eggs", "chores")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = store.Upsert(ctx, "milk-note", "lactose free only", "chores")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = store.Upsert(ctx, "unrelated", "nothing here", "misc")
	require.NoError(t, err)

	// Matches key or value, newest first.
	hits, err := store.KeywordSearch(ctx, "milk", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "milk-note", hits[0].Key)
	assert.Equal(t, "grocery-list", hits[1].Key)

	// Matches category.
	hits, err = store.KeywordSearch(ctx, "misc", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "unrelated", hits[0].Key)

	// Case-insensitive.
	hits, err = store.KeywordSearch(ctx, "MILK", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	// Limit applies.
	hits, err = store.KeywordSearch(ctx, "milk", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSyncStateTracking(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.Upsert(ctx, "a", "one", "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = store.Upsert(ctx, "b", "two", "")
	require.NoError(t, err)

	unsynced, err := store.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 2)
	assert.Equal(t, "a", unsynced[0].Key, "oldest first so reconciliation drains in write order")

	require.NoError(t, store.MarkSynced(ctx, "a"))

	unsynced, err = store.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, "b", unsynced[0].Key)

	total, pending, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 1, pending)
}
