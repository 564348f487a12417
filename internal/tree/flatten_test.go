package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rowView struct {
	Name     string
	Depth    int
	IsFolder bool
	Expanded bool
}

func views(rows []FlatRow[string]) []rowView {
	out := make([]rowView, len(rows))
	for i, r := range rows {
		out[i] = rowView{r.Name, r.Depth, r.IsFolder, r.Expanded}
	}
	return out
}

func TestFlatten(t *testing.T) {
	t.Run("collapsed folder hides children", func(t *testing.T) {
		rows := Flatten(FlattenInput[string]{Tree: sampleTree()})
		assert.Equal(t, []rowView{{"A", 0, true, false}}, views(rows))
	})

	t.Run("expanded folder shows children", func(t *testing.T) {
		rows := Flatten(FlattenInput[string]{
			Tree:     sampleTree(),
			Expanded: NewPathSet(Path{0}),
		})
		assert.Equal(t, []rowView{
			{"A", 0, true, true},
			{"foo", 1, false, false},
			{"bar", 1, false, false},
		}, views(rows))
		require.NotNil(t, rows[1].Payload)
		assert.Equal(t, "GET /foo", *rows[1].Payload)
		assert.Nil(t, rows[0].Payload)
	})

	t.Run("nested expansion needs every ancestor", func(t *testing.T) {
		rows := Flatten(FlattenInput[string]{
			Tree:     nestedTree(),
			Expanded: NewPathSet(Path{0, 1}),
		})
		assert.Equal(t, []rowView{
			{"Users", 0, true, false},
			{"Health", 0, false, false},
		}, views(rows))
	})

	t.Run("favorites folder comes first with real paths", func(t *testing.T) {
		rows := Flatten(FlattenInput[string]{
			Tree:              sampleTree(),
			Favorites:         NewPathSet(Path{0, 0}),
			FavoritesExpanded: true,
		})
		require.Len(t, rows, 3)
		assert.Equal(t, rowView{"Favorites", 0, true, true}, views(rows)[0])
		assert.True(t, rows[0].Location.IsFavoritesRoot())

		assert.Equal(t, rowView{"foo", 1, false, false}, views(rows)[1])
		p, ok := rows[1].Location.Path()
		require.True(t, ok)
		assert.Equal(t, Path{0, 0}, p)
		assert.True(t, rows[1].Favorite)

		assert.Equal(t, rowView{"A", 0, true, false}, views(rows)[2])
	})

	t.Run("collapsed favorites folder", func(t *testing.T) {
		rows := Flatten(FlattenInput[string]{
			Tree:      sampleTree(),
			Favorites: NewPathSet(Path{0, 0}),
		})
		assert.Equal(t, []rowView{
			{"Favorites", 0, true, false},
			{"A", 0, true, false},
		}, views(rows))
	})

	t.Run("favorites listed in tree order", func(t *testing.T) {
		favs := PathSet{}
		favs.Add(Path{1})
		favs.Add(Path{0, 1, 0})
		rows := Flatten(FlattenInput[string]{
			Tree:              nestedTree(),
			Favorites:         favs,
			FavoritesExpanded: true,
		})
		assert.Equal(t, "Delete user", rows[1].Name)
		assert.Equal(t, "Health", rows[2].Name)
	})

	t.Run("favorited folders are not listed", func(t *testing.T) {
		rows := Flatten(FlattenInput[string]{
			Tree:              sampleTree(),
			Expanded:          NewPathSet(Path{0}),
			Favorites:         NewPathSet(Path{0}),
			FavoritesExpanded: true,
		})
		assert.Equal(t, []rowView{
			{"Favorites", 0, true, true},
			{"A", 0, true, true},
			{"foo", 1, false, false},
			{"bar", 1, false, false},
		}, views(rows))
		assert.True(t, rows[1].Favorite)
	})

	t.Run("stale favorites are skipped", func(t *testing.T) {
		rows := Flatten(FlattenInput[string]{
			Tree:              sampleTree(),
			Favorites:         NewPathSet(Path{9, 9}),
			FavoritesExpanded: true,
		})
		assert.Equal(t, []rowView{
			{"Favorites", 0, true, true},
			{"A", 0, true, false},
		}, views(rows))
	})

	t.Run("edit overlay wins over base payload", func(t *testing.T) {
		edits := map[string]string{Path{0, 1}.Key(): "POST /baz"}
		in := FlattenInput[string]{
			Tree:     sampleTree(),
			Expanded: NewPathSet(Path{0}),
			Edit: func(p Path) (string, bool) {
				v, ok := edits[p.Key()]
				return v, ok
			},
		}
		rows := Flatten(in)
		assert.Equal(t, "POST /baz", *rows[2].Payload)
		assert.True(t, rows[2].Edited)
		assert.Equal(t, "GET /foo", *rows[1].Payload)
		assert.False(t, rows[1].Edited)

		delete(edits, Path{0, 1}.Key())
		rows = Flatten(in)
		assert.Equal(t, "GET /bar", *rows[2].Payload)
		assert.False(t, rows[2].Edited)
	})

	t.Run("empty tree", func(t *testing.T) {
		assert.Empty(t, Flatten(FlattenInput[string]{}))
	})
}

func TestIndexOf(t *testing.T) {
	rows := Flatten(FlattenInput[string]{
		Tree:              sampleTree(),
		Expanded:          NewPathSet(Path{0}),
		Favorites:         NewPathSet(Path{0, 1}),
		FavoritesExpanded: true,
	})
	// Favorites, bar, A, foo, bar
	require.Len(t, rows, 5)

	assert.Equal(t, 0, IndexOf(rows, FavoritesRoot()))
	assert.Equal(t, 1, IndexOf(rows, At(Path{0, 1})))
	assert.Equal(t, 4, IndexOfPath(rows, Path{0, 1}))
	assert.Equal(t, 2, IndexOfPath(rows, Path{0}))
	assert.Equal(t, -1, IndexOf(rows, At(Path{3})))
	assert.Equal(t, []Path{{0, 0}, {0, 1}}, VisibleLeafPaths(rows))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		index, n int
		expected int
	}{
		{"in range", 2, 5, 2},
		{"past end", 7, 5, 4},
		{"negative", -1, 5, 0},
		{"empty", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clamp(tt.index, tt.n))
		})
	}
}

func TestLocation(t *testing.T) {
	loc := At(Path{1, 2})
	p, ok := loc.Path()
	assert.True(t, ok)
	assert.Equal(t, Path{1, 2}, p)
	assert.False(t, loc.IsFavoritesRoot())

	fav := FavoritesRoot()
	_, ok = fav.Path()
	assert.False(t, ok)
	assert.True(t, fav.Equal(FavoritesRoot()))
	assert.False(t, fav.Equal(loc))
	assert.False(t, loc.Equal(At(Path{1})))
}
