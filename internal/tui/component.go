package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Component is the interface for all TUI panes.
type Component interface {
	// Init initializes the component.
	Init() tea.Cmd

	// Update handles messages and returns the updated component.
	Update(msg tea.Msg) (Component, tea.Cmd)

	// View renders the component.
	View() string

	// Title returns the component title.
	Title() string

	// Focused returns true if the component is focused.
	Focused() bool

	// Focus sets the component as focused.
	Focus()

	// Blur removes focus from the component.
	Blur()

	// SetSize sets the component dimensions.
	SetSize(width, height int)

	// Width returns the component width.
	Width() int

	// Height returns the component height.
	Height() int
}

// BaseComponent carries the state every pane shares. Panes embed it and add
// Init, Update and View.
type BaseComponent struct {
	title   string
	focused bool
	width   int
	height  int
}

// NewBaseComponent creates a new base component.
func NewBaseComponent(title string) *BaseComponent {
	return &BaseComponent{title: title}
}

// Title returns the component title.
func (c *BaseComponent) Title() string {
	return c.title
}

// SetTitle replaces the title.
func (c *BaseComponent) SetTitle(title string) {
	c.title = title
}

// Focused returns true if focused.
func (c *BaseComponent) Focused() bool {
	return c.focused
}

// Focus sets the component as focused.
func (c *BaseComponent) Focus() {
	c.focused = true
}

// Blur removes focus.
func (c *BaseComponent) Blur() {
	c.focused = false
}

// SetSize sets dimensions.
func (c *BaseComponent) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Width returns the width.
func (c *BaseComponent) Width() int {
	return c.width
}

// Height returns the height.
func (c *BaseComponent) Height() int {
	return c.height
}

// InnerSize is the content area inside the pane border.
func (c *BaseComponent) InnerSize() (int, int) {
	return max(c.width-2, 0), max(c.height-2, 0)
}

// Colors shared by the panes.
var (
	ColorAccent   = lipgloss.Color("62")
	ColorMuted    = lipgloss.Color("240")
	ColorTitle    = lipgloss.Color("229")
	ColorSelected = lipgloss.Color("237")
	ColorSuccess  = lipgloss.Color("34")
	ColorWarning  = lipgloss.Color("214")
	ColorError    = lipgloss.Color("160")
	ColorEdited   = lipgloss.Color("178")
	ColorFavorite = lipgloss.Color("220")
)

// Styles are the building blocks of a pane.
type Styles struct {
	Focused   lipgloss.Style
	Unfocused lipgloss.Style
	Title     lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
}

// DefaultStyles returns default styling.
func DefaultStyles() Styles {
	return Styles{
		Focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent),
		Unfocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTitle),
		Selected: lipgloss.NewStyle().
			Background(ColorSelected).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// RenderPane draws content inside a rounded border with the title on the
// first line. width and height include the border.
func RenderPane(title, content string, width, height int, focused bool) string {
	styles := DefaultStyles()
	innerW, innerH := max(width-2, 0), max(height-2, 0)

	style := styles.Unfocused
	if focused {
		style = styles.Focused
	}
	head := RenderTitle(title, innerW, focused)
	lines := strings.Split(content, "\n")
	if content == "" {
		lines = nil
	}
	body := make([]string, 0, innerH)
	body = append(body, head)
	for _, l := range lines {
		if len(body) >= innerH {
			break
		}
		body = append(body, ansi.Truncate(l, innerW, ""))
	}
	return style.Width(innerW).Height(innerH).Render(strings.Join(body, "\n"))
}

// RenderTitle renders a title bar.
func RenderTitle(title string, width int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(width).
		Bold(true)

	if focused {
		style = style.Foreground(ColorTitle).
			Background(ColorAccent)
	} else {
		style = style.Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))
	}

	return style.Render(Truncate(title, width))
}

// Truncate cuts s to width display cells, ending in "..." when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads s with spaces to width display cells, truncating if longer.
func PadRight(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(s, width)
}

// AdjustOffset ensures cursor is visible within a viewport of height rows.
func AdjustOffset(cursor, offset, height int) int {
	if height < 1 {
		height = 1
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}
