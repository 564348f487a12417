package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectionNames(rows []CollectionRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func sampleCollections() *Collections {
	c := NewCollections()
	c.SetItems([]CollectionInfo{
		{UID: "3", Name: "zeta"},
		{UID: "1", Name: "Alpha"},
		{UID: "2", Name: "beta"},
	})
	return c
}

func TestCollections_Sorting(t *testing.T) {
	c := sampleCollections()
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, collectionNames(c.Rows()))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "1", c.Items()[0].UID)
}

func TestCollections_Favorites(t *testing.T) {
	t.Run("favorites folder on top", func(t *testing.T) {
		c := sampleCollections()
		c.SetFavorites([]string{"3"})
		assert.Equal(t, []string{"Favorites", "zeta", "Alpha", "beta", "zeta"}, collectionNames(c.Rows()))
		assert.Equal(t, []string{"3"}, c.FavoriteUIDs())
	})

	t.Run("toggle keeps the selected collection", func(t *testing.T) {
		c := sampleCollections()
		c.SetCursor(1)
		on, ok := c.ToggleFavorite()
		require.True(t, ok)
		assert.True(t, on)
		uid, _ := c.SelectedUID()
		assert.Equal(t, "2", uid)
		assert.Equal(t, 3, c.Cursor())

		on, _ = c.ToggleFavorite()
		assert.False(t, on)
		assert.Equal(t, []string{"Alpha", "beta", "zeta"}, collectionNames(c.Rows()))
	})

	t.Run("favorites folder is not a collection", func(t *testing.T) {
		c := sampleCollections()
		c.SetFavorites([]string{"1"})
		c.SetCursor(0)
		_, ok := c.SelectedUID()
		assert.False(t, ok)
		_, ok = c.ToggleFavorite()
		assert.False(t, ok)
	})

	t.Run("collapse favorites folder", func(t *testing.T) {
		c := sampleCollections()
		c.SetFavorites([]string{"1"})
		c.SelectUID("2")
		c.ToggleFavoritesFolder()
		assert.Equal(t, []string{"Favorites", "Alpha", "beta", "zeta"}, collectionNames(c.Rows()))
		uid, _ := c.SelectedUID()
		assert.Equal(t, "2", uid)
	})

	t.Run("set items keeps selection", func(t *testing.T) {
		c := sampleCollections()
		c.SelectUID("3")
		c.SetItems([]CollectionInfo{{UID: "3", Name: "zeta"}, {UID: "0", Name: "aaa"}})
		uid, _ := c.SelectedUID()
		assert.Equal(t, "3", uid)
	})
}

func TestCollections_Search(t *testing.T) {
	c := sampleCollections()
	c.SetCursor(2)
	c.BeginSearch()
	c.SearchInput('A')
	assert.Equal(t, "/A - Match 1/3", c.SearchStatus())
	uid, _ := c.SelectedUID()
	assert.Equal(t, "1", uid)

	c.SearchInput('l')
	assert.Equal(t, []int{0}, c.MatchingRows())

	c.SearchBackspace()
	c.PrevMatch()
	uid, _ = c.SelectedUID()
	assert.Equal(t, "3", uid)
	c.NextMatch()
	uid, _ = c.SelectedUID()
	assert.Equal(t, "1", uid)

	c.CancelSearch()
	assert.Equal(t, 2, c.Cursor())
	assert.Empty(t, c.Query())
	assert.False(t, c.Searching())
}
