package session

import (
	"sort"
	"strings"

	"github.com/artpar/postdeck/internal/tree"
)

// CollectionInfo is one entry of the collections pane.
type CollectionInfo struct {
	UID  string
	Name string
}

// CollectionRow is a projected collections-pane row.
type CollectionRow = tree.FlatRow[CollectionInfo]

// Collections is the collections pane: a flat list sorted by name with a
// favorites folder on top, projected through the same tree engine as the
// request browser.
type Collections struct {
	items             tree.Tree[CollectionInfo]
	favorites         map[string]bool
	favoritesExpanded bool
	rows              []CollectionRow
	cursor            int
	search            tree.SearchState[int]
}

// NewCollections creates an empty pane with the favorites folder open.
func NewCollections() *Collections {
	return &Collections{favorites: make(map[string]bool), favoritesExpanded: true}
}

// SetItems replaces the list, sorting it case-insensitively, and keeps the
// selection on the same collection when possible.
func (c *Collections) SetItems(items []CollectionInfo) {
	selected, hadSelection := c.SelectedUID()
	sorted := make([]CollectionInfo, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	nodes := make([]*tree.Node[CollectionInfo], len(sorted))
	for i, item := range sorted {
		nodes[i] = tree.NewLeaf(item.Name, item)
	}
	c.items = tree.New(nodes...)
	c.search.Reset()
	c.reproject()
	if hadSelection {
		c.SelectUID(selected)
	}
}

// SetFavorites replaces the favorite collection ids.
func (c *Collections) SetFavorites(uids []string) {
	c.favorites = make(map[string]bool, len(uids))
	for _, uid := range uids {
		c.favorites[uid] = true
	}
	c.reproject()
}

// FavoriteUIDs returns the favorited collection ids in display order.
func (c *Collections) FavoriteUIDs() []string {
	var out []string
	for _, n := range c.items.Nodes {
		if c.favorites[n.Payload.UID] {
			out = append(out, n.Payload.UID)
		}
	}
	return out
}

// IsFavorite reports whether uid is a favorite.
func (c *Collections) IsFavorite(uid string) bool {
	return c.favorites[uid]
}

// Len is the number of collections.
func (c *Collections) Len() int {
	return len(c.items.Nodes)
}

// Items returns the collections in display order.
func (c *Collections) Items() []CollectionInfo {
	out := make([]CollectionInfo, len(c.items.Nodes))
	for i, n := range c.items.Nodes {
		out[i] = n.Payload
	}
	return out
}

func (c *Collections) favoritePaths() tree.PathSet {
	var set tree.PathSet
	for i, n := range c.items.Nodes {
		if c.favorites[n.Payload.UID] {
			set.Add(tree.Path{i})
		}
	}
	return set
}

func (c *Collections) reproject() {
	c.rows = tree.Flatten(tree.FlattenInput[CollectionInfo]{
		Tree:              c.items,
		Favorites:         c.favoritePaths(),
		FavoritesExpanded: c.favoritesExpanded,
	})
	c.cursor = tree.Clamp(c.cursor, len(c.rows))
}

// Rows returns the current projection.
func (c *Collections) Rows() []CollectionRow {
	return c.rows
}

// Cursor is the selected row index.
func (c *Collections) Cursor() int {
	return c.cursor
}

// SetCursor selects row i, clamped.
func (c *Collections) SetCursor(i int) {
	c.cursor = tree.Clamp(i, len(c.rows))
}

// MoveCursor moves the selection by delta rows.
func (c *Collections) MoveCursor(delta int) {
	c.SetCursor(c.cursor + delta)
}

// Selected returns the row under the cursor.
func (c *Collections) Selected() (CollectionRow, bool) {
	if len(c.rows) == 0 {
		return CollectionRow{}, false
	}
	return c.rows[c.cursor], true
}

// SelectedUID returns the collection under the cursor; false on the
// favorites folder.
func (c *Collections) SelectedUID() (string, bool) {
	row, ok := c.Selected()
	if !ok || row.Location.IsFavoritesRoot() || row.Payload == nil {
		return "", false
	}
	return row.Payload.UID, true
}

// SelectUID moves the cursor to the regular-section row of uid.
func (c *Collections) SelectUID(uid string) bool {
	for i, n := range c.items.Nodes {
		if n.Payload.UID == uid {
			if idx := tree.IndexOfPath(c.rows, tree.Path{i}); idx >= 0 {
				c.cursor = idx
				return true
			}
		}
	}
	return false
}

// ToggleFavoritesFolder opens or closes the favorites folder, keeping the
// selected collection.
func (c *Collections) ToggleFavoritesFolder() {
	uid, ok := c.SelectedUID()
	c.favoritesExpanded = !c.favoritesExpanded
	c.reproject()
	if ok {
		c.SelectUID(uid)
	}
}

// ToggleFavorite flips the favorite mark of the selected collection and
// reports the new state. It reports false, false on the favorites folder.
func (c *Collections) ToggleFavorite() (on bool, ok bool) {
	uid, ok := c.SelectedUID()
	if !ok {
		return false, false
	}
	if c.favorites[uid] {
		delete(c.favorites, uid)
	} else {
		c.favorites[uid] = true
	}
	c.reproject()
	c.SelectUID(uid)
	return c.favorites[uid], true
}

// BeginSearch starts typing a query over collection names.
func (c *Collections) BeginSearch() {
	c.search.Begin(c.cursor)
}

// Searching reports whether a query is being typed.
func (c *Collections) Searching() bool {
	return c.search.Typing()
}

// Query returns the current query.
func (c *Collections) Query() string {
	return c.search.Query
}

// SearchInput appends r to the query.
func (c *Collections) SearchInput(r rune) {
	c.SetQuery(tree.AppendRune(c.search.Query, r))
}

// SearchBackspace drops the last rune of the query.
func (c *Collections) SearchBackspace() {
	c.SetQuery(tree.TrimRune(c.search.Query))
}

// SetQuery recomputes matches and jumps to the first one.
func (c *Collections) SetQuery(q string) {
	var matches []int
	for _, p := range tree.Search(c.items, q) {
		matches = append(matches, p[0])
	}
	if m, ok := c.search.Update(q, matches); ok {
		c.jump(m)
	}
}

// NextMatch selects the following match, wrapping.
func (c *Collections) NextMatch() {
	if m, ok := c.search.Next(); ok {
		c.jump(m)
	}
}

// PrevMatch selects the previous match, wrapping.
func (c *Collections) PrevMatch() {
	if m, ok := c.search.Prev(); ok {
		c.jump(m)
	}
}

func (c *Collections) jump(i int) {
	if idx := tree.IndexOfPath(c.rows, tree.Path{i}); idx >= 0 {
		c.cursor = idx
	}
}

// ConfirmSearch ends typing and keeps the selection.
func (c *Collections) ConfirmSearch() {
	c.search.Confirm()
}

// CancelSearch ends typing and restores the previous selection.
func (c *Collections) CancelSearch() {
	c.SetCursor(c.search.Cancel())
}

// SearchStatus summarizes the search for the status bar.
func (c *Collections) SearchStatus() string {
	return searchStatus(c.search.Query, c.search.Position)
}

// MatchingRows returns the row indices of matching collections in the
// regular section.
func (c *Collections) MatchingRows() []int {
	if c.search.Query == "" {
		return nil
	}
	var out []int
	for _, m := range c.search.Matches {
		if idx := tree.IndexOfPath(c.rows, tree.Path{m}); idx >= 0 {
			out = append(out, idx)
		}
	}
	return out
}
