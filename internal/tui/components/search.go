package components

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Searcher is the incremental search every pane exposes.
type Searcher interface {
	Searching() bool
	SearchInput(r rune)
	SearchBackspace()
	ConfirmSearch()
	CancelSearch()
}

// HandleSearchKey feeds a key to a search being typed. It reports false when
// no search is active.
func HandleSearchKey(s Searcher, msg tea.KeyMsg) bool {
	if !s.Searching() {
		return false
	}
	switch msg.Type {
	case tea.KeyEnter:
		s.ConfirmSearch()
	case tea.KeyEsc:
		s.CancelSearch()
	case tea.KeyBackspace:
		s.SearchBackspace()
	case tea.KeySpace:
		s.SearchInput(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			s.SearchInput(r)
		}
	}
	return true
}
