package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/artpar/postdeck/internal/favorites"
	"github.com/artpar/postdeck/internal/overlay"
	"github.com/artpar/postdeck/internal/tree"
)

func key(col string, p ...int) overlay.Key {
	return overlay.Key{CollectionID: col, Path: tree.Path(p)}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AddRemove(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	k := key("col-1", 0, 2)

	on, err := store.IsFavorite(ctx, k)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, store.Add(ctx, k))
	require.NoError(t, store.Add(ctx, k), "adding twice is a no-op")

	on, err = store.IsFavorite(ctx, k)
	require.NoError(t, err)
	assert.True(t, on)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []overlay.Key{k}, all)

	require.NoError(t, store.Remove(ctx, k))
	on, err = store.IsFavorite(ctx, k)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestStore_Toggle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	k := key("col-1", 1)

	on, err := store.Toggle(ctx, k)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = store.Toggle(ctx, k)
	require.NoError(t, err)
	assert.False(t, on)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_ListOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, k := range []overlay.Key{
		key("b", 0),
		key("a", 2),
		key("a", 0, 10),
		key("a", 0, 2),
		key("a", 0),
	} {
		require.NoError(t, store.Add(ctx, k))
	}

	paths, err := store.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []tree.Path{{0}, {0, 2}, {0, 10}, {2}}, paths)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "a", all[0].CollectionID)
	assert.Equal(t, key("b", 0), all[4])

	viaOverlay, err := store.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, viaOverlay)

	none, err := store.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_Collections(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	on, err := store.ToggleCollection(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, on)
	_, err = store.ToggleCollection(ctx, "c2")
	require.NoError(t, err)

	uids, err := store.FavoriteCollections(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, uids)

	on, err = store.ToggleCollection(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, on)

	uids, err = store.FavoriteCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, uids)
}

func TestStore_MalformedRowsSkipped(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, err := store.db.ExecContext(ctx,
		"INSERT INTO favorite_requests (collection_uid, path, favorited_at) VALUES ('a', 'x/1', 0), ('a', '', 0), ('a', '3', 0)")
	require.NoError(t, err)

	paths, err := store.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []tree.Path{{3}}, paths)
}

func TestStore_Closed(t *testing.T) {
	store, err := NewInMemory()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "closing twice is fine")

	ctx := context.Background()
	_, err = store.IsFavorite(ctx, key("a", 0))
	assert.ErrorIs(t, err, favorites.ErrStoreClosed)
	assert.ErrorIs(t, store.Add(ctx, key("a", 0)), favorites.ErrStoreClosed)
	_, err = store.Toggle(ctx, key("a", 0))
	assert.ErrorIs(t, err, favorites.ErrStoreClosed)
	_, err = store.ListAll(ctx)
	assert.ErrorIs(t, err, favorites.ErrStoreClosed)
}

func TestStore_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, key("a", 1, 2)))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()
	paths, err := reopened.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []tree.Path{{1, 2}}, paths)
}

func TestNewWithDB(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	store, err := NewWithDB(db)
	require.NoError(t, err)
	require.NoError(t, store.Add(context.Background(), key("a", 0)))
	on, err := store.IsFavorite(context.Background(), key("a", 0))
	require.NoError(t, err)
	assert.True(t, on)
}

func TestStore_WithSession(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, key("col", 0)))

	favs, err := overlay.LoadFavorites(ctx, store)
	require.NoError(t, err)
	assert.True(t, favs.Has("col", tree.Path{0}))
}
