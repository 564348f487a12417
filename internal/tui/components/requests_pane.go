package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/postdeck/internal/session"
	"github.com/artpar/postdeck/internal/tui"
)

// RequestsPane is the request tree of the loaded collection.
type RequestsPane struct {
	*tui.BaseComponent
	sess   *session.Session
	offset int
}

// NewRequestsPane creates the pane over sess.
func NewRequestsPane(sess *session.Session) *RequestsPane {
	return &RequestsPane{
		BaseComponent: tui.NewBaseComponent("Requests"),
		sess:          sess,
	}
}

// Init initializes the pane.
func (p *RequestsPane) Init() tea.Cmd {
	return nil
}

// Searching reports whether a query is being typed.
func (p *RequestsPane) Searching() bool {
	return p.sess.Searching()
}

// Update handles tree navigation, folding, search and selection keys.
func (p *RequestsPane) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if HandleSearchKey(p.sess, keyMsg) {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, tui.Keys.Down):
		p.sess.MoveCursor(1)
	case key.Matches(keyMsg, tui.Keys.Up):
		p.sess.MoveCursor(-1)
	case key.Matches(keyMsg, tui.Keys.Top):
		p.sess.SetCursor(0)
	case key.Matches(keyMsg, tui.Keys.Bottom):
		p.sess.SetCursor(len(p.sess.Rows()) - 1)
	case key.Matches(keyMsg, tui.Keys.Collapse):
		p.sess.Collapse()
	case key.Matches(keyMsg, tui.Keys.Expand):
		p.sess.Expand()
	case key.Matches(keyMsg, tui.Keys.CollapseAll):
		p.sess.CollapseAll()
	case key.Matches(keyMsg, tui.Keys.ExpandAll):
		p.sess.ExpandAll()
	case key.Matches(keyMsg, tui.Keys.Search):
		p.sess.BeginSearch()
	case key.Matches(keyMsg, tui.Keys.NextMatch):
		p.sess.NextMatch()
	case key.Matches(keyMsg, tui.Keys.PrevMatch):
		p.sess.PrevMatch()
	case key.Matches(keyMsg, tui.Keys.Enter):
		return p, p.choose()
	}
	return p, nil
}

func (p *RequestsPane) choose() tea.Cmd {
	row, ok := p.sess.Selected()
	if !ok {
		return nil
	}
	if row.IsFolder {
		p.sess.ToggleExpand()
		return nil
	}
	path, ok := row.Location.Path()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return RequestChosenMsg{Path: path}
	}
}

func (p *RequestsPane) title() string {
	title := p.sess.CollectionName()
	if title == "" {
		title = "Requests"
	}
	if p.sess.Searching() && p.sess.Query() != "" {
		title = fmt.Sprintf("%s (%d matches)", title, len(p.sess.Matches()))
	}
	return paneTitle(title, 2, p.Focused())
}

// View renders the pane.
func (p *RequestsPane) View() string {
	innerW, innerH := p.InnerSize()
	filtering := p.sess.Searching() && p.sess.Query() != ""
	rows := p.sess.Rows()

	var content string
	switch {
	case p.sess.CollectionID() == "":
		content = "Select a collection"
	case len(rows) == 0:
		content = "Empty collection"
	default:
		indices := visibleRows(len(rows), filtering, p.sess.MatchingRows())
		content, p.offset = renderList(indices, p.sess.Cursor(), p.offset, innerH-1, func(i int, selected bool) string {
			row := rows[i]
			text := tui.PadRight(RequestRowText(row, !filtering), innerW)
			return requestRowStyle(row, selected).Render(text)
		})
	}
	return tui.RenderPane(p.title(), content, p.Width(), p.Height(), p.Focused())
}
