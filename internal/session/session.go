// Package session owns the state of the request browser: the loaded
// collection tree, its expansion, the favorites and local-edit overlays, the
// selection cursor and the search state. Everything here runs on the UI
// goroutine; only the stores it writes to are shared.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/overlay"
	"github.com/artpar/postdeck/internal/tree"
)

var (
	// ErrNoCollection is returned by operations that need a loaded collection.
	ErrNoCollection = errors.New("no collection loaded")
	// ErrSaveAborted is returned when a save result arrives for a save that
	// was cancelled or superseded.
	ErrSaveAborted = errors.New("save was cancelled")
	// ErrFavoriteFolder is returned when a folder row is asked to become a
	// favorite. Only requests can be favorited.
	ErrFavoriteFolder = errors.New("folders cannot be favorited")
)

// Row is a projected request-tree row.
type Row = tree.FlatRow[core.Request]

// Option configures a Session.
type Option func(*Session)

// WithFavoriteStore persists favorite toggles.
func WithFavoriteStore(s overlay.FavoriteStore) Option {
	return func(sess *Session) {
		sess.favoriteStore = s
	}
}

// WithEditStore persists local edits.
func WithEditStore(s overlay.EditStore) Option {
	return func(sess *Session) {
		sess.editStore = s
	}
}

// Session is the single owner of the request browser state.
type Session struct {
	collectionID      string
	collectionName    string
	tree              tree.Tree[core.Request]
	expanded          tree.ExpandedSet
	favoritesExpanded bool

	favorites *overlay.Favorites
	edits     *overlay.Edits[core.Edit]

	rows   []Row
	cursor int
	search tree.SearchState[tree.Path]

	pendingSave *pendingSave

	favoriteStore overlay.FavoriteStore
	editStore     overlay.EditStore
}

type pendingSave struct {
	path   tree.Path
	cancel context.CancelFunc
}

// New creates a session over already-loaded overlays. Nil overlays start
// empty.
func New(favorites *overlay.Favorites, edits *overlay.Edits[core.Edit], opts ...Option) *Session {
	if favorites == nil {
		favorites = overlay.NewFavorites()
	}
	if edits == nil {
		edits = overlay.NewEdits[core.Edit]()
	}
	s := &Session{
		favorites:         favorites,
		edits:             edits,
		favoritesExpanded: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the tree wholesale. Expansion, selection and search are
// reset; overlays are kept.
func (s *Session) Load(collectionID, name string, t tree.Tree[core.Request]) {
	s.collectionID = collectionID
	s.collectionName = name
	s.tree = t
	s.expanded.Clear()
	s.favoritesExpanded = true
	s.cursor = 0
	s.search.Reset()
	s.reproject()
}

// Refresh swaps in a re-fetched copy of the same collection. Expansion and
// the selected location are kept where they still resolve.
func (s *Session) Refresh(t tree.Tree[core.Request]) {
	var loc tree.Location
	fromFavorites := false
	if row, ok := s.Selected(); ok {
		loc = row.Location
		fromFavorites = s.inFavoritesSection(s.cursor)
	}
	s.tree = t
	for _, p := range s.expanded.Paths() {
		if n, ok := tree.Resolve(t, p); !ok || !n.IsFolder() {
			s.expanded.Remove(p)
		}
	}
	s.reproject()
	if row, ok := s.Selected(); ok && !row.Location.Equal(loc) {
		s.relocate(loc, fromFavorites)
	}
}

// Unload drops the current tree.
func (s *Session) Unload() {
	s.Load("", "", tree.Tree[core.Request]{})
}

// CollectionID is the id of the loaded collection, empty when none.
func (s *Session) CollectionID() string {
	return s.collectionID
}

// CollectionName is the display name of the loaded collection.
func (s *Session) CollectionName() string {
	return s.collectionName
}

// Tree returns the loaded base tree.
func (s *Session) Tree() tree.Tree[core.Request] {
	return s.tree
}

// Expanded returns a copy of the expanded set.
func (s *Session) Expanded() tree.ExpandedSet {
	return s.expanded.Clone()
}

// FavoritesExpanded reports the open state of the favorites folder.
func (s *Session) FavoritesExpanded() bool {
	return s.favoritesExpanded
}

// Favorites returns the favorites overlay.
func (s *Session) Favorites() *overlay.Favorites {
	return s.favorites
}

// Edits returns the local edits overlay.
func (s *Session) Edits() *overlay.Edits[core.Edit] {
	return s.edits
}

func (s *Session) reproject() {
	s.rows = tree.Flatten(tree.FlattenInput[core.Request]{
		Tree:              s.tree,
		Expanded:          s.expanded,
		Favorites:         s.favorites.For(s.collectionID),
		Edit:              s.editedRequest,
		FavoritesExpanded: s.favoritesExpanded,
	})
	s.cursor = tree.Clamp(s.cursor, len(s.rows))
}

func (s *Session) editedRequest(p tree.Path) (core.Request, bool) {
	edit, ok := s.edits.Get(s.collectionID, p)
	if !ok {
		return core.Request{}, false
	}
	node, ok := tree.Resolve(s.tree, p)
	if !ok {
		return core.Request{}, false
	}
	return edit.Apply(node.Payload), true
}

// Rows returns the current projection.
func (s *Session) Rows() []Row {
	return s.rows
}

// Cursor is the selected row index.
func (s *Session) Cursor() int {
	return s.cursor
}

// SetCursor selects row i, clamped.
func (s *Session) SetCursor(i int) {
	s.cursor = tree.Clamp(i, len(s.rows))
}

// MoveCursor moves the selection by delta rows, clamped.
func (s *Session) MoveCursor(delta int) {
	s.SetCursor(s.cursor + delta)
}

// Selected returns the row under the cursor.
func (s *Session) Selected() (Row, bool) {
	if len(s.rows) == 0 {
		return Row{}, false
	}
	return s.rows[s.cursor], true
}

// SelectedPath returns the real Path of the selected row. It reports false
// for the favorites folder or an empty tree, so callers persisting it never
// see a synthetic location.
func (s *Session) SelectedPath() (tree.Path, bool) {
	row, ok := s.Selected()
	if !ok {
		return nil, false
	}
	return row.Location.Path()
}

// favoritesEnd is the index of the first row of the regular tree section.
func (s *Session) favoritesEnd() int {
	if len(s.rows) == 0 || !s.rows[0].Location.IsFavoritesRoot() {
		return 0
	}
	j := 1
	for j < len(s.rows) && s.rows[j].Depth > 0 {
		j++
	}
	return j
}

// inFavoritesSection reports whether row i is one of the copies listed under
// the favorites folder.
func (s *Session) inFavoritesSection(i int) bool {
	return i > 0 && i < s.favoritesEnd()
}

// relocate selects loc in the fresh projection, preferring the same section
// (favorites copy or regular tree) it was in before. When loc is gone the
// cursor is clamped.
func (s *Session) relocate(loc tree.Location, fromFavorites bool) {
	idx := -1
	if p, ok := loc.Path(); ok && !fromFavorites {
		idx = tree.IndexOfPath(s.rows, p)
	}
	if idx < 0 {
		idx = tree.IndexOf(s.rows, loc)
	}
	if idx < 0 {
		if p, ok := loc.Path(); ok {
			idx = tree.IndexOfPath(s.rows, p)
		}
	}
	if idx >= 0 {
		s.cursor = idx
		return
	}
	s.cursor = tree.Clamp(s.cursor, len(s.rows))
}

// mutate runs fn, reprojects and keeps the selection on the same location.
func (s *Session) mutate(fn func()) {
	row, ok := s.Selected()
	fromFavorites := s.inFavoritesSection(s.cursor)
	fn()
	s.reproject()
	if ok {
		s.relocate(row.Location, fromFavorites)
	}
}

// ToggleExpand opens or closes the selected folder, the favorites folder
// included.
func (s *Session) ToggleExpand() {
	row, ok := s.Selected()
	if !ok || !row.IsFolder {
		return
	}
	s.mutate(func() {
		if row.Location.IsFavoritesRoot() {
			s.favoritesExpanded = !s.favoritesExpanded
			return
		}
		p, _ := row.Location.Path()
		s.expanded.Toggle(p)
	})
}

// Expand opens the selected folder.
func (s *Session) Expand() {
	row, ok := s.Selected()
	if !ok || !row.IsFolder || row.Expanded {
		return
	}
	s.ToggleExpand()
}

// Collapse closes the selected folder, or selects the parent folder when the
// cursor is on a leaf or a closed folder.
func (s *Session) Collapse() {
	row, ok := s.Selected()
	if !ok {
		return
	}
	if row.IsFolder && row.Expanded {
		s.ToggleExpand()
		return
	}
	if s.inFavoritesSection(s.cursor) {
		s.cursor = 0
		return
	}
	p, ok := row.Location.Path()
	if !ok || len(p) < 2 {
		return
	}
	if idx := tree.IndexOfPath(s.rows, p.Parent()); idx >= 0 {
		s.cursor = idx
	}
}

// ExpandAll opens every folder of the tree and the favorites folder.
func (s *Session) ExpandAll() {
	s.mutate(func() {
		for _, p := range tree.FolderPaths(s.tree) {
			s.expanded.Add(p)
		}
		s.favoritesExpanded = true
	})
}

// CollapseAll closes every folder. The favorites folder keeps its state. A
// selection inside a closed folder moves to its top-level ancestor.
func (s *Session) CollapseAll() {
	row, ok := s.Selected()
	fromFavorites := s.inFavoritesSection(s.cursor)
	s.expanded.Clear()
	s.reproject()
	if !ok {
		return
	}
	p, isReal := row.Location.Path()
	if !isReal || fromFavorites {
		s.relocate(row.Location, fromFavorites)
		return
	}
	s.relocate(tree.At(tree.Path{p[0]}), false)
}

// ExpandTo opens every ancestor of p and selects its row in the regular tree
// section. It reports false when p does not resolve.
func (s *Session) ExpandTo(p tree.Path) bool {
	if _, ok := tree.Resolve(s.tree, p); !ok {
		return false
	}
	for _, a := range p.Ancestors() {
		s.expanded.Add(a)
	}
	s.reproject()
	if idx := tree.IndexOfPath(s.rows, p); idx >= 0 {
		s.cursor = idx
	}
	return true
}

// Resolve returns the effective request at p: the local edit when present,
// else the base leaf. The second result reports whether the edit was used.
func (s *Session) Resolve(p tree.Path) (core.Request, bool, bool) {
	node, ok := tree.Resolve(s.tree, p)
	if !ok || node.IsFolder() {
		return core.Request{}, false, false
	}
	req, edited := tree.EffectivePayload(node, p, s.editedRequest)
	return req, edited, true
}

// SelectedRequest returns the effective request under the cursor.
func (s *Session) SelectedRequest() (core.Request, tree.Path, bool, bool) {
	p, ok := s.SelectedPath()
	if !ok {
		return core.Request{}, nil, false, false
	}
	req, edited, ok := s.Resolve(p)
	return req, p, edited, ok
}

// ToggleFavorite flips the favorite mark of the selected row and reports the
// new state. The favorites folder itself is refused with
// overlay.ErrFavoritesRoot and other folders with ErrFavoriteFolder.
func (s *Session) ToggleFavorite(ctx context.Context) (bool, error) {
	row, ok := s.Selected()
	if !ok {
		return false, ErrNoCollection
	}
	if row.Location.IsFavoritesRoot() {
		return false, overlay.ErrFavoritesRoot
	}
	if row.IsFolder {
		return false, ErrFavoriteFolder
	}
	var on bool
	var err error
	s.mutate(func() {
		on, err = s.favorites.Toggle(s.collectionID, row.Location)
	})
	if err != nil {
		return false, err
	}
	if s.favoriteStore == nil {
		return on, nil
	}
	p, _ := row.Location.Path()
	key := overlay.Key{CollectionID: s.collectionID, Path: p}
	if on {
		err = s.favoriteStore.AddFavorite(ctx, key)
	} else {
		err = s.favoriteStore.RemoveFavorite(ctx, key)
	}
	if err != nil {
		return on, fmt.Errorf("failed to persist favorite: %w", err)
	}
	return on, nil
}

// StoreEdit records a local edit for the leaf at p and persists all edits.
// The base tree is not touched.
func (s *Session) StoreEdit(p tree.Path, edit core.Edit) error {
	if s.collectionID == "" {
		return ErrNoCollection
	}
	node, ok := tree.Resolve(s.tree, p)
	if !ok || node.IsFolder() {
		return fmt.Errorf("no request at %s", p)
	}
	var err error
	s.mutate(func() {
		err = s.edits.Set(s.collectionID, tree.At(p), edit)
	})
	if err != nil {
		return err
	}
	return s.persistEdits()
}

// ClearEdit drops the local edit at p. Call it only once the edit is synced.
func (s *Session) ClearEdit(p tree.Path) error {
	removed := false
	s.mutate(func() {
		removed = s.edits.Remove(s.collectionID, p)
	})
	if !removed {
		return nil
	}
	return s.persistEdits()
}

// HasEdit reports whether the leaf at p has a local edit.
func (s *Session) HasEdit(p tree.Path) bool {
	return s.edits.Has(s.collectionID, p)
}

// ReplaceOverlays swaps in overlays loaded from disk, e.g. after another
// process changed them, and reprojects.
func (s *Session) ReplaceOverlays(favorites *overlay.Favorites, edits *overlay.Edits[core.Edit]) {
	s.mutate(func() {
		if favorites != nil {
			s.favorites = favorites
		}
		if edits != nil {
			s.edits = edits
		}
	})
}

func (s *Session) persistEdits() error {
	if s.editStore == nil {
		return nil
	}
	if err := s.editStore.SaveEdits(s.edits.Entries()); err != nil {
		return fmt.Errorf("failed to persist local edits: %w", err)
	}
	return nil
}

// TargetFolder is where a new request is added: the selected folder, the
// parent of the selected leaf, or the top level.
func (s *Session) TargetFolder() tree.Path {
	row, ok := s.Selected()
	if !ok {
		return tree.Path{}
	}
	p, ok := row.Location.Path()
	if !ok {
		return tree.Path{}
	}
	if row.IsFolder {
		return p
	}
	return p.Parent()
}

// BeginSave marks the edit at p as being synced and returns a context that
// CancelSave aborts.
func (s *Session) BeginSave(ctx context.Context, p tree.Path) context.Context {
	s.CancelSave()
	ctx, cancel := context.WithCancel(ctx)
	s.pendingSave = &pendingSave{path: p.Clone(), cancel: cancel}
	return ctx
}

// Saving reports whether a save is in flight.
func (s *Session) Saving() bool {
	return s.pendingSave != nil
}

// CancelSave aborts the in-flight save, if any. Overlays are left untouched.
func (s *Session) CancelSave() bool {
	if s.pendingSave == nil {
		return false
	}
	s.pendingSave.cancel()
	s.pendingSave = nil
	return true
}

// FinishSave ends the in-flight save for p. The local edit is cleared only
// when err is nil and the save was not cancelled in the meantime. A result
// for a cancelled or superseded save returns ErrSaveAborted, whatever err is.
func (s *Session) FinishSave(p tree.Path, err error) error {
	if s.pendingSave == nil || !s.pendingSave.path.Equal(p) {
		return ErrSaveAborted
	}
	s.pendingSave.cancel()
	s.pendingSave = nil
	if err != nil {
		return err
	}
	return s.ClearEdit(p)
}
