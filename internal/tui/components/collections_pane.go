package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/postdeck/internal/session"
	"github.com/artpar/postdeck/internal/tui"
)

// CollectionsPane lists the workspace's collections with a favorites folder
// on top.
type CollectionsPane struct {
	*tui.BaseComponent
	list   *session.Collections
	offset int
}

// NewCollectionsPane creates the pane over list.
func NewCollectionsPane(list *session.Collections) *CollectionsPane {
	return &CollectionsPane{
		BaseComponent: tui.NewBaseComponent("Collections"),
		list:          list,
	}
}

// Init initializes the pane.
func (p *CollectionsPane) Init() tea.Cmd {
	return nil
}

// List returns the underlying collections state.
func (p *CollectionsPane) List() *session.Collections {
	return p.list
}

// Searching reports whether a query is being typed.
func (p *CollectionsPane) Searching() bool {
	return p.list.Searching()
}

// Update handles navigation, search and selection keys.
func (p *CollectionsPane) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if HandleSearchKey(p.list, keyMsg) {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, tui.Keys.Down):
		p.list.MoveCursor(1)
	case key.Matches(keyMsg, tui.Keys.Up):
		p.list.MoveCursor(-1)
	case key.Matches(keyMsg, tui.Keys.Top):
		p.list.SetCursor(0)
	case key.Matches(keyMsg, tui.Keys.Bottom):
		p.list.SetCursor(len(p.list.Rows()) - 1)
	case key.Matches(keyMsg, tui.Keys.Search):
		p.list.BeginSearch()
	case key.Matches(keyMsg, tui.Keys.NextMatch):
		p.list.NextMatch()
	case key.Matches(keyMsg, tui.Keys.PrevMatch):
		p.list.PrevMatch()
	case key.Matches(keyMsg, tui.Keys.Enter):
		return p, p.choose()
	}
	return p, nil
}

func (p *CollectionsPane) choose() tea.Cmd {
	row, ok := p.list.Selected()
	if !ok {
		return nil
	}
	if row.Location.IsFavoritesRoot() {
		p.list.ToggleFavoritesFolder()
		return nil
	}
	if row.Payload == nil {
		return nil
	}
	info := *row.Payload
	return func() tea.Msg {
		return CollectionChosenMsg{UID: info.UID, Name: info.Name}
	}
}

func (p *CollectionsPane) title() string {
	title := "Collections"
	if p.list.Searching() && p.list.Query() != "" {
		title = fmt.Sprintf("Collections (%d matches)", len(p.list.MatchingRows()))
	}
	return paneTitle(title, 1, p.Focused())
}

// View renders the pane.
func (p *CollectionsPane) View() string {
	_, innerH := p.InnerSize()
	filtering := p.list.Searching() && p.list.Query() != ""
	rows := p.list.Rows()
	indices := visibleRows(len(rows), filtering, p.list.MatchingRows())

	var content string
	if len(rows) == 0 {
		content = "No collections"
	} else {
		innerW, _ := p.InnerSize()
		content, p.offset = renderList(indices, p.list.Cursor(), p.offset, innerH-1, func(i int, selected bool) string {
			row := rows[i]
			text := tui.PadRight(CollectionRowText(row, !filtering), innerW)
			return collectionRowStyle(row, selected).Render(text)
		})
	}
	return tui.RenderPane(p.title(), content, p.Width(), p.Height(), p.Focused())
}

// paneTitle numbers a pane title, bracketing the number when focused.
func paneTitle(title string, number int, focused bool) string {
	if focused {
		return fmt.Sprintf(" [%d] %s ", number, title)
	}
	return fmt.Sprintf(" %d %s ", number, title)
}
