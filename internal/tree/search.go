package tree

import "strings"

// Search returns the Path of every folder or leaf whose name contains query,
// case-insensitively, in pre-order. Expansion state plays no part. An empty
// query matches nothing.
func Search[T any](t Tree[T], query string) []Path {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)
	var matches []Path
	Walk(t, func(p Path, n *Node[T]) bool {
		if strings.Contains(strings.ToLower(n.Name), q) {
			matches = append(matches, p)
		}
		return true
	})
	return matches
}

// Phase is the lifecycle of an interactive search.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTyping
	PhaseConfirmed
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseTyping:
		return "typing"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// SearchState tracks the query, its matches and the current match. M is the
// match identity: a tree Path, a JSON path, or a list index.
//
// Every query change replaces Matches wholesale; the owner recomputes them.
type SearchState[M any] struct {
	Phase   Phase
	Query   string
	Matches []M
	Current int

	preSearch int
}

// Begin enters the typing phase, remembering the selection to restore on
// cancel.
func (s *SearchState[M]) Begin(selection int) {
	s.Phase = PhaseTyping
	s.Query = ""
	s.Matches = nil
	s.Current = 0
	s.preSearch = selection
}

// Typing reports whether the query is being edited.
func (s *SearchState[M]) Typing() bool {
	return s.Phase == PhaseTyping
}

// Update stores a new query and its freshly computed matches. When there is
// at least one match the first one becomes current and is returned.
func (s *SearchState[M]) Update(query string, matches []M) (M, bool) {
	s.Query = query
	s.Matches = matches
	s.Current = 0
	return s.current()
}

// Next advances to the following match, wrapping at the end.
func (s *SearchState[M]) Next() (M, bool) {
	if len(s.Matches) == 0 {
		var zero M
		return zero, false
	}
	s.Current = (s.Current + 1) % len(s.Matches)
	return s.current()
}

// Prev moves to the previous match, wrapping at the start.
func (s *SearchState[M]) Prev() (M, bool) {
	if len(s.Matches) == 0 {
		var zero M
		return zero, false
	}
	s.Current = (s.Current - 1 + len(s.Matches)) % len(s.Matches)
	return s.current()
}

// Confirm leaves the typing phase keeping query, matches and selection so
// Next and Prev keep working.
func (s *SearchState[M]) Confirm() {
	s.Phase = PhaseConfirmed
}

// Cancel clears the query and matches and returns the selection that was
// current when Begin was called.
func (s *SearchState[M]) Cancel() int {
	s.Phase = PhaseCancelled
	s.Query = ""
	s.Matches = nil
	s.Current = 0
	return s.preSearch
}

// Reset returns to idle, dropping everything.
func (s *SearchState[M]) Reset() {
	*s = SearchState[M]{}
}

// Position returns the 1-based current match and the match count.
func (s *SearchState[M]) Position() (int, int) {
	if len(s.Matches) == 0 {
		return 0, 0
	}
	return s.Current + 1, len(s.Matches)
}

func (s *SearchState[M]) current() (M, bool) {
	if s.Current < 0 || s.Current >= len(s.Matches) {
		var zero M
		return zero, false
	}
	return s.Matches[s.Current], true
}

// AppendRune and TrimRune edit a query one keystroke at a time.
func AppendRune(query string, r rune) string {
	return query + string(r)
}

func TrimRune(query string) string {
	runes := []rune(query)
	if len(runes) == 0 {
		return query
	}
	return string(runes[:len(runes)-1])
}
