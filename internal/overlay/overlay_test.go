package overlay

import (
	"context"
	"errors"
	"testing"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	t.Run("toggle flips membership", func(t *testing.T) {
		f := NewFavorites()
		on, err := f.Toggle("c1", tree.At(tree.Path{0, 0}))
		require.NoError(t, err)
		assert.True(t, on)
		assert.True(t, f.Has("c1", tree.Path{0, 0}))
		assert.False(t, f.Has("c2", tree.Path{0, 0}))

		on, err = f.Toggle("c1", tree.At(tree.Path{0, 0}))
		require.NoError(t, err)
		assert.False(t, on)
		assert.Equal(t, 0, f.Len())
	})

	t.Run("favorites root is rejected", func(t *testing.T) {
		f := NewFavorites()
		_, err := f.Toggle("c1", tree.FavoritesRoot())
		assert.ErrorIs(t, err, ErrFavoritesRoot)
		assert.ErrorIs(t, f.Add("c1", tree.FavoritesRoot()), ErrFavoritesRoot)
		assert.Equal(t, 0, f.Len())
	})

	t.Run("for filters by collection", func(t *testing.T) {
		f := NewFavorites(
			Key{CollectionID: "c1", Path: tree.Path{1}},
			Key{CollectionID: "c2", Path: tree.Path{0}},
			Key{CollectionID: "c1", Path: tree.Path{0, 2}},
		)
		assert.Equal(t, []tree.Path{{0, 2}, {1}}, f.For("c1").Paths())
		assert.Equal(t, 0, f.For("missing").Len())
	})

	t.Run("entries are ordered", func(t *testing.T) {
		f := NewFavorites(
			Key{CollectionID: "b", Path: tree.Path{0}},
			Key{CollectionID: "a", Path: tree.Path{2}},
			Key{CollectionID: "a", Path: tree.Path{1, 0}},
		)
		assert.Equal(t, []Key{
			{CollectionID: "a", Path: tree.Path{1, 0}},
			{CollectionID: "a", Path: tree.Path{2}},
			{CollectionID: "b", Path: tree.Path{0}},
		}, f.Entries())
	})

	t.Run("remove", func(t *testing.T) {
		f := NewFavorites(Key{CollectionID: "a", Path: tree.Path{3}})
		f.Remove("a", tree.Path{3})
		assert.False(t, f.Has("a", tree.Path{3}))
	})
}

func TestEdits(t *testing.T) {
	t.Run("set get remove", func(t *testing.T) {
		e := NewEdits[core.Edit]()
		require.NoError(t, e.Set("c1", tree.At(tree.Path{0, 1}), core.Edit{Name: "baz"}))

		got, ok := e.Get("c1", tree.Path{0, 1})
		require.True(t, ok)
		assert.Equal(t, "baz", got.Name)
		assert.True(t, e.Has("c1", tree.Path{0, 1}))
		assert.False(t, e.Has("c2", tree.Path{0, 1}))

		assert.True(t, e.Remove("c1", tree.Path{0, 1}))
		assert.False(t, e.Remove("c1", tree.Path{0, 1}))
		_, ok = e.Get("c1", tree.Path{0, 1})
		assert.False(t, ok)
	})

	t.Run("set upserts", func(t *testing.T) {
		e := NewEdits[string]()
		require.NoError(t, e.Set("c", tree.At(tree.Path{0}), "one"))
		require.NoError(t, e.Set("c", tree.At(tree.Path{0}), "two"))
		assert.Equal(t, 1, e.Len())
		v, _ := e.Get("c", tree.Path{0})
		assert.Equal(t, "two", v)
	})

	t.Run("favorites root is rejected", func(t *testing.T) {
		e := NewEdits[string]()
		assert.ErrorIs(t, e.Set("c", tree.FavoritesRoot(), "x"), ErrFavoritesRoot)
	})

	t.Run("edits feed flatten", func(t *testing.T) {
		e := NewEdits[string]()
		require.NoError(t, e.Set("c", tree.At(tree.Path{0}), "edited"))
		rows := tree.Flatten(tree.FlattenInput[string]{
			Tree: tree.New(tree.NewLeaf("a", "base")),
			Edit: func(p tree.Path) (string, bool) { return e.Get("c", p) },
		})
		require.Len(t, rows, 1)
		assert.Equal(t, "edited", *rows[0].Payload)
		assert.True(t, rows[0].Edited)
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var e Edits[int]
		require.NoError(t, e.Set("c", tree.At(tree.Path{1}), 5))
		assert.Equal(t, []EditEntry[int]{{Key: Key{CollectionID: "c", Path: tree.Path{1}}, Value: 5}}, e.Entries())
	})
}

type memFavoriteStore struct {
	keys []Key
	err  error
}

func (m *memFavoriteStore) ListFavorites(context.Context) ([]Key, error) { return m.keys, m.err }
func (m *memFavoriteStore) AddFavorite(_ context.Context, k Key) error {
	m.keys = append(m.keys, k)
	return nil
}
func (m *memFavoriteStore) RemoveFavorite(context.Context, Key) error { return nil }

type memEditStore struct {
	entries []EditEntry[core.Edit]
}

func (m *memEditStore) LoadEdits() ([]EditEntry[core.Edit], error) { return m.entries, nil }
func (m *memEditStore) SaveEdits(entries []EditEntry[core.Edit]) error {
	m.entries = entries
	return nil
}

func TestLoad(t *testing.T) {
	t.Run("favorites", func(t *testing.T) {
		store := &memFavoriteStore{keys: []Key{{CollectionID: "c", Path: tree.Path{0}}}}
		f, err := LoadFavorites(context.Background(), store)
		require.NoError(t, err)
		assert.True(t, f.Has("c", tree.Path{0}))
	})

	t.Run("favorites error", func(t *testing.T) {
		store := &memFavoriteStore{err: errors.New("boom")}
		_, err := LoadFavorites(context.Background(), store)
		assert.Error(t, err)
	})

	t.Run("edits", func(t *testing.T) {
		store := &memEditStore{entries: []EditEntry[core.Edit]{
			{Key: Key{CollectionID: "c", Path: tree.Path{0, 1}}, Value: core.Edit{Name: "baz"}},
		}}
		e, err := LoadEdits(store)
		require.NoError(t, err)
		got, ok := e.Get("c", tree.Path{0, 1})
		require.True(t, ok)
		assert.Equal(t, "baz", got.Name)
	})
}
