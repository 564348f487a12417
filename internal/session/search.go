package session

import (
	"fmt"

	"github.com/artpar/postdeck/internal/tree"
)

// SearchHint is shown while the query is still empty.
const SearchHint = "Type to search, Enter to confirm, Esc to cancel"

// BeginSearch starts typing a query over the whole tree.
func (s *Session) BeginSearch() {
	s.search.Begin(s.cursor)
}

// Searching reports whether a query is being typed.
func (s *Session) Searching() bool {
	return s.search.Typing()
}

// Query returns the current query.
func (s *Session) Query() string {
	return s.search.Query
}

// Matches returns the Paths matching the current query.
func (s *Session) Matches() []tree.Path {
	return s.search.Matches
}

// SearchInput appends r to the query.
func (s *Session) SearchInput(r rune) {
	s.SetQuery(tree.AppendRune(s.search.Query, r))
}

// SearchBackspace drops the last rune of the query.
func (s *Session) SearchBackspace() {
	s.SetQuery(tree.TrimRune(s.search.Query))
}

// SetQuery replaces the query and recomputes matches from scratch. When
// anything matches, the first match is revealed and selected.
func (s *Session) SetQuery(q string) {
	if m, ok := s.search.Update(q, tree.Search(s.tree, q)); ok {
		s.ExpandTo(m)
	}
}

// NextMatch reveals and selects the following match, wrapping.
func (s *Session) NextMatch() {
	if m, ok := s.search.Next(); ok {
		s.ExpandTo(m)
	}
}

// PrevMatch reveals and selects the previous match, wrapping.
func (s *Session) PrevMatch() {
	if m, ok := s.search.Prev(); ok {
		s.ExpandTo(m)
	}
}

// ConfirmSearch ends typing, keeping the selection and any folders opened.
func (s *Session) ConfirmSearch() {
	s.search.Confirm()
}

// CancelSearch ends typing and restores the selection from before the
// search. Folders opened while typing stay open.
func (s *Session) CancelSearch() {
	s.SetCursor(s.search.Cancel())
}

// SearchStatus summarizes the search for the status bar.
func (s *Session) SearchStatus() string {
	return searchStatus(s.search.Query, s.search.Position)
}

func searchStatus(query string, position func() (int, int)) string {
	if query == "" {
		return SearchHint
	}
	cur, total := position()
	if total == 0 {
		return fmt.Sprintf("/%s - No matches", query)
	}
	return fmt.Sprintf("/%s - Match %d/%d", query, cur, total)
}

// MatchingRows returns the indices of visible rows that are search matches,
// for the filtered display shown while typing. Copies listed under the
// favorites folder are skipped.
func (s *Session) MatchingRows() []int {
	if s.search.Query == "" {
		return nil
	}
	matches := tree.NewPathSet(s.search.Matches...)
	var out []int
	for i := s.favoritesEnd(); i < len(s.rows); i++ {
		r := s.rows[i]
		if p, ok := r.Location.Path(); ok && matches.Has(p) {
			out = append(out, i)
		}
	}
	return out
}
