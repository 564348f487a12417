package components

import (
	"bytes"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/goccy/go-json"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/tree"
	"github.com/artpar/postdeck/internal/tui"
)

// EditedTitle marks a preview whose request has unsynced local changes.
const EditedTitle = "Request ~ (not synced to Postman)"

// Preview is what the preview pane shows.
type Preview struct {
	Path    tree.Path
	Request core.Request
	Edited  bool
	// ResolvedURL is the URL after variable substitution.
	ResolvedURL string
	Unresolved  []string
}

// PreviewPane shows the selected request.
type PreviewPane struct {
	*tui.BaseComponent
	preview  *Preview
	content  string
	viewport viewport.Model

	renderer      *glamour.TermRenderer
	rendererWidth int
}

// NewPreviewPane creates an empty preview pane.
func NewPreviewPane() *PreviewPane {
	return &PreviewPane{
		BaseComponent: tui.NewBaseComponent("Request"),
		viewport:      viewport.New(0, 0),
	}
}

// Init initializes the pane.
func (p *PreviewPane) Init() tea.Cmd {
	return nil
}

// SetSize resizes the pane and its viewport.
func (p *PreviewPane) SetSize(width, height int) {
	p.BaseComponent.SetSize(width, height)
	innerW, innerH := p.InnerSize()
	p.viewport.Width = innerW
	p.viewport.Height = max(innerH-1, 0)
	p.refresh()
}

// Show replaces the previewed request. Scrolling resets when the path
// changes.
func (p *PreviewPane) Show(pv Preview) {
	if p.preview != nil && reflect.DeepEqual(*p.preview, pv) {
		return
	}
	moved := p.preview == nil || !p.preview.Path.Equal(pv.Path)
	p.preview = &pv
	p.refresh()
	if moved {
		p.viewport.GotoTop()
	}
}

// Clear empties the pane.
func (p *PreviewPane) Clear() {
	p.preview = nil
	p.refresh()
}

// Current returns the previewed request.
func (p *PreviewPane) Current() (Preview, bool) {
	if p.preview == nil {
		return Preview{}, false
	}
	return *p.preview, true
}

// Content returns the unstyled text of the pane body.
func (p *PreviewPane) Content() string {
	return p.content
}

func (p *PreviewPane) refresh() {
	content := "Select a request to see details"
	if p.preview != nil {
		content = p.render(*p.preview)
	}
	if content != p.content {
		p.content = content
		p.viewport.SetContent(content)
	}
}

func (p *PreviewPane) render(pv Preview) string {
	req := pv.Request
	var b strings.Builder
	b.WriteString("Method: " + req.Method + "\n\n")
	b.WriteString("URL: " + req.URL + "\n")
	if pv.ResolvedURL != "" && pv.ResolvedURL != req.URL {
		b.WriteString("  -> " + pv.ResolvedURL + "\n")
	}
	if len(pv.Unresolved) > 0 {
		b.WriteString("Undefined: " + strings.Join(pv.Unresolved, ", ") + "\n")
	}

	b.WriteString("\nHeaders:\n")
	if len(req.Headers) == 0 {
		b.WriteString("(none)\n")
	}
	for _, h := range req.Headers {
		line := h.Key + ": " + h.Value
		if h.Disabled {
			line += " (disabled)"
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nBody:\n")
	if req.Body == "" {
		b.WriteString("(no body)\n")
	} else {
		b.WriteString(prettyBody(req.Body) + "\n")
	}

	if desc := strings.TrimSpace(req.Description); desc != "" {
		b.WriteString("\nDescription:\n")
		b.WriteString(p.markdown(desc))
	}
	return strings.TrimRight(b.String(), "\n")
}

// prettyBody indents a JSON body and leaves anything else as is.
func prettyBody(body string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(body), "", "  "); err != nil {
		return body
	}
	return out.String()
}

func (p *PreviewPane) markdown(text string) string {
	width := max(p.viewport.Width-2, 20)
	if p.renderer == nil || p.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		p.renderer, p.rendererWidth = r, width
	}
	out, err := p.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// Update scrolls the preview.
func (p *PreviewPane) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if key.Matches(keyMsg, tui.Keys.Up, tui.Keys.Down) || keyMsg.Type == tea.KeyPgUp || keyMsg.Type == tea.KeyPgDown {
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PreviewPane) title() string {
	if p.preview != nil && p.preview.Edited {
		return paneTitle(EditedTitle, 3, p.Focused())
	}
	return paneTitle("Request", 3, p.Focused())
}

// View renders the pane.
func (p *PreviewPane) View() string {
	return tui.RenderPane(p.title(), p.viewport.View(), p.Width(), p.Height(), p.Focused())
}
