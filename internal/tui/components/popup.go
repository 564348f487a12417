package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/postdeck/internal/tui"
)

// Result is what a key did to a popup or dialog.
type Result int

const (
	// ResultNone means the popup stays open.
	ResultNone Result = iota
	// ResultChosen means the user confirmed.
	ResultChosen
	// ResultCancelled means the user closed the popup.
	ResultCancelled
	// ResultChanged means the popup stays open but its data changed.
	ResultChanged
	// ResultSave asks for the popup's data to be saved.
	ResultSave
)

var popupStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(tui.ColorAccent).
	Padding(0, 1)

// ListPopup picks one entry of a short list. Entry 0 is the "none" choice
// ("No Environment", "All Workspaces").
type ListPopup struct {
	title  string
	items  []string
	cursor int
}

// NewListPopup creates a popup over items with the cursor on selected.
func NewListPopup(title string, items []string, selected int) *ListPopup {
	p := &ListPopup{title: title, items: items}
	p.cursor = clampIndex(selected, len(items))
	return p
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Cursor is the highlighted entry.
func (p *ListPopup) Cursor() int {
	return p.cursor
}

// HandleKey moves the cursor or closes the popup.
func (p *ListPopup) HandleKey(msg tea.KeyMsg) Result {
	switch {
	case key.Matches(msg, tui.Keys.Down):
		p.cursor = clampIndex(p.cursor+1, len(p.items))
	case key.Matches(msg, tui.Keys.Up):
		p.cursor = clampIndex(p.cursor-1, len(p.items))
	case key.Matches(msg, tui.Keys.Enter):
		return ResultChosen
	case key.Matches(msg, tui.Keys.Cancel):
		return ResultCancelled
	}
	return ResultNone
}

// View renders the popup box.
func (p *ListPopup) View() string {
	lines := []string{tui.DefaultStyles().Title.Render(p.title), ""}
	for i, item := range p.items {
		line := fmt.Sprintf("%d  %s", i, item)
		if i == p.cursor {
			line = selectedRowStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", tui.DefaultStyles().Muted.Render("j/k: nav  enter: select  esc: cancel"))
	return popupStyle.Render(strings.Join(lines, "\n"))
}
