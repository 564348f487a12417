package components

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/jsonview"
	"github.com/artpar/postdeck/internal/tui"
)

// MaxPlainBody is how much of a non-JSON body is shown.
const MaxPlainBody = 2000

// ResponsePane shows the last response: a navigable tree for JSON bodies,
// plain text otherwise.
type ResponsePane struct {
	*tui.BaseComponent
	resp    *core.Response
	err     error
	loading bool
	viewer  *jsonview.Viewer
	offset  int
	text    viewport.Model
}

// NewResponsePane creates an empty response pane.
func NewResponsePane() *ResponsePane {
	return &ResponsePane{
		BaseComponent: tui.NewBaseComponent("Response"),
		text:          viewport.New(0, 0),
	}
}

// Init initializes the pane.
func (p *ResponsePane) Init() tea.Cmd {
	return nil
}

// SetSize resizes the pane.
func (p *ResponsePane) SetSize(width, height int) {
	p.BaseComponent.SetSize(width, height)
	innerW, innerH := p.InnerSize()
	p.text.Width = innerW
	p.text.Height = max(innerH-2, 0)
}

// SetLoading marks a request in flight.
func (p *ResponsePane) SetLoading(loading bool) {
	p.loading = loading
}

// Loading reports a request in flight.
func (p *ResponsePane) Loading() bool {
	return p.loading
}

// SetResponse shows resp. A JSON body gets a fresh, fully expanded tree.
func (p *ResponsePane) SetResponse(resp *core.Response) {
	p.loading = false
	p.resp = resp
	p.err = nil
	p.offset = 0
	p.viewer = nil
	if v, ok := jsonview.New(resp.Body); ok {
		p.viewer = v
		return
	}
	p.text.SetContent(plainContent(resp))
	p.text.GotoTop()
}

// SetError shows a failed execution.
func (p *ResponsePane) SetError(err error) {
	p.loading = false
	p.resp = nil
	p.viewer = nil
	p.err = err
}

// HasResponse reports whether there is anything to show.
func (p *ResponsePane) HasResponse() bool {
	return p.resp != nil || p.err != nil || p.loading
}

// Response returns the shown response.
func (p *ResponsePane) Response() *core.Response {
	return p.resp
}

// Viewer returns the JSON tree, nil for non-JSON bodies.
func (p *ResponsePane) Viewer() *jsonview.Viewer {
	return p.viewer
}

// Searching reports whether a JSON search is being typed.
func (p *ResponsePane) Searching() bool {
	return p.viewer != nil && p.viewer.Searching()
}

// TruncateBody cuts body to MaxPlainBody bytes on a rune boundary.
func TruncateBody(body string) string {
	if len(body) <= MaxPlainBody {
		return body
	}
	cut := MaxPlainBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "...\n\n(truncated)"
}

func plainContent(resp *core.Response) string {
	var b strings.Builder
	b.WriteString("Headers:\n")
	for _, h := range resp.Headers {
		b.WriteString(h.Key + ": " + h.Value + "\n")
	}
	b.WriteString("\nBody:\n")
	b.WriteString(TruncateBody(resp.Body))
	return b.String()
}

// Update handles tree navigation, search and yank keys.
func (p *ResponsePane) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || p.resp == nil {
		return p, nil
	}
	if p.viewer == nil {
		return p, p.updatePlain(keyMsg)
	}
	v := p.viewer
	if HandleSearchKey(v, keyMsg) {
		return p, nil
	}
	switch {
	case key.Matches(keyMsg, tui.Keys.Down):
		v.MoveCursor(1)
	case key.Matches(keyMsg, tui.Keys.Up):
		v.MoveCursor(-1)
	case key.Matches(keyMsg, tui.Keys.Top):
		v.SetCursor(0)
	case key.Matches(keyMsg, tui.Keys.Bottom):
		v.SetCursor(len(v.Rows()) - 1)
	case key.Matches(keyMsg, tui.Keys.Collapse):
		v.Collapse()
	case key.Matches(keyMsg, tui.Keys.Expand):
		v.Expand()
	case key.Matches(keyMsg, tui.Keys.CollapseAll):
		v.CollapseAll()
	case key.Matches(keyMsg, tui.Keys.ExpandAll):
		v.ExpandAll()
	case key.Matches(keyMsg, tui.Keys.Enter):
		v.Toggle()
	case key.Matches(keyMsg, tui.Keys.Search):
		v.BeginSearch()
	case key.Matches(keyMsg, tui.Keys.NextMatch):
		v.NextMatch()
	case key.Matches(keyMsg, tui.Keys.PrevMatch):
		v.PrevMatch()
	case key.Matches(keyMsg, tui.Keys.Yank):
		content := v.SelectedValue()
		return p, func() tea.Msg { return CopyMsg{Content: content, What: "JSON value"} }
	}
	return p, nil
}

func (p *ResponsePane) updatePlain(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, tui.Keys.Yank) {
		body := p.resp.Body
		return func() tea.Msg { return CopyMsg{Content: body, What: "response body"} }
	}
	if key.Matches(msg, tui.Keys.Up, tui.Keys.Down) || msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
		var cmd tea.Cmd
		p.text, cmd = p.text.Update(msg)
		return cmd
	}
	return nil
}

// StatusStyle colors a status code: green for 2xx, red from 400, yellow
// otherwise.
func StatusStyle(code int) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch {
	case code >= 200 && code < 300:
		return style.Foreground(tui.ColorSuccess)
	case code >= 400:
		return style.Foreground(tui.ColorError)
	}
	return style.Foreground(tui.ColorWarning)
}

func statusLine(resp *core.Response) string {
	return fmt.Sprintf("Status: %s  %s  %s",
		StatusStyle(resp.StatusCode).Render(resp.StatusLine()),
		resp.Duration.Round(time.Millisecond),
		humanize.Bytes(uint64(max(resp.Size, 0))),
	)
}

// JSONRowText is the plain text of one JSON tree row.
func JSONRowText(row jsonview.Row) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Depth))
	if row.Container() {
		b.WriteString(folderIcon(row.Expanded) + " ")
	} else {
		b.WriteString("  ")
	}
	if row.Key != "" {
		b.WriteString(row.Key + ": ")
	}
	b.WriteString(row.Value)
	return b.String()
}

var (
	matchRowStyle = lipgloss.NewStyle().Foreground(tui.ColorWarning)
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
)

func (p *ResponsePane) title() string {
	switch {
	case p.loading:
		return paneTitle("Response (loading...)", 4, p.Focused())
	case p.viewer != nil:
		return paneTitle("Response (JSON)", 4, p.Focused())
	}
	return paneTitle("Response", 4, p.Focused())
}

// View renders the pane.
func (p *ResponsePane) View() string {
	innerW, innerH := p.InnerSize()
	var content string
	switch {
	case p.loading:
		content = "Executing request..."
	case p.err != nil:
		content = lipgloss.NewStyle().Foreground(tui.ColorError).Render("Error: " + p.err.Error())
	case p.resp == nil:
		content = "No response yet"
	case p.viewer != nil:
		content = p.viewJSON(innerW, innerH-1)
	default:
		content = statusLine(p.resp) + "\n\n" + p.text.View()
	}
	return tui.RenderPane(p.title(), content, p.Width(), p.Height(), p.Focused())
}

func (p *ResponsePane) viewJSON(width, height int) string {
	v := p.viewer
	header := statusLine(p.resp)
	if v.Query() != "" || v.Searching() {
		header += "  " + v.SearchStatus()
	}
	rows := v.Rows()
	indices := visibleRows(len(rows), false, nil)
	list, offset := renderList(indices, v.Cursor(), p.offset, max(height-1, 0), func(i int, selected bool) string {
		row := rows[i]
		text := tui.PadRight(JSONRowText(row), width)
		switch {
		case selected:
			return selectedRowStyle.Render(text)
		case row.Match:
			return matchRowStyle.Render(text)
		case row.Container():
			return keyStyle.Render(text)
		}
		return text
	})
	p.offset = offset
	return header + "\n" + list
}
