package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/tree"
	"github.com/artpar/postdeck/internal/tui"
)

// VariablesPopup lists the active environment's variables, with a filter
// and in-place value editing.
type VariablesPopup struct {
	envName string
	vars    []core.Variable

	query     string
	searching bool
	filtered  []int

	cursor    int
	editing   bool
	editIndex int
	input     textinput.Model
	modified  bool
}

// NewVariablesPopup creates a popup over a copy of vars.
func NewVariablesPopup(envName string, vars []core.Variable) *VariablesPopup {
	ti := textinput.New()
	ti.CharLimit = 0
	ti.Width = 40
	ti.Prompt = ""
	return &VariablesPopup{
		envName: envName,
		vars:    append([]core.Variable(nil), vars...),
		input:   ti,
	}
}

// Variables returns the current, possibly edited, values.
func (p *VariablesPopup) Variables() []core.Variable {
	return append([]core.Variable(nil), p.vars...)
}

// Modified reports edits not yet saved.
func (p *VariablesPopup) Modified() bool {
	return p.modified
}

// MarkSaved clears the modified flag.
func (p *VariablesPopup) MarkSaved() {
	p.modified = false
}

// Editing reports whether a value is being edited.
func (p *VariablesPopup) Editing() bool {
	return p.editing
}

// Searching reports whether a filter is being typed.
func (p *VariablesPopup) Searching() bool {
	return p.searching
}

// Query returns the filter.
func (p *VariablesPopup) Query() string {
	return p.query
}

// Cursor is the highlighted position in the shown list.
func (p *VariablesPopup) Cursor() int {
	return p.cursor
}

// shown returns the indices into vars that are listed.
func (p *VariablesPopup) shown() []int {
	if p.query != "" {
		return p.filtered
	}
	out := make([]int, len(p.vars))
	for i := range out {
		out[i] = i
	}
	return out
}

// selected is the index into vars under the cursor.
func (p *VariablesPopup) selected() (int, bool) {
	shown := p.shown()
	if p.cursor < 0 || p.cursor >= len(shown) {
		return 0, false
	}
	return shown[p.cursor], true
}

func (p *VariablesPopup) refilter() {
	p.filtered = nil
	p.cursor = 0
	if p.query == "" {
		return
	}
	q := strings.ToLower(p.query)
	for i, v := range p.vars {
		if strings.Contains(strings.ToLower(v.Key), q) || strings.Contains(strings.ToLower(v.Value), q) {
			p.filtered = append(p.filtered, i)
		}
	}
}

// HandleKey applies a key and reports what happened.
func (p *VariablesPopup) HandleKey(msg tea.KeyMsg) Result {
	switch {
	case p.editing:
		return p.handleEdit(msg)
	case p.searching:
		p.handleSearch(msg)
		return ResultNone
	}

	switch {
	case key.Matches(msg, tui.Keys.Down):
		p.cursor = clampIndex(p.cursor+1, len(p.shown()))
	case key.Matches(msg, tui.Keys.Up):
		p.cursor = clampIndex(p.cursor-1, len(p.shown()))
	case key.Matches(msg, tui.Keys.Enter):
		if i, ok := p.selected(); ok {
			p.editing = true
			p.editIndex = i
			p.input.SetValue(p.vars[i].Value)
			p.input.CursorEnd()
			p.input.Focus()
		}
	case key.Matches(msg, tui.Keys.Search):
		p.searching = true
		p.query = ""
		p.refilter()
	case key.Matches(msg, tui.Keys.SaveVars):
		return ResultSave
	case key.Matches(msg, tui.Keys.Cancel):
		return ResultCancelled
	}
	return ResultNone
}

func (p *VariablesPopup) handleEdit(msg tea.KeyMsg) Result {
	switch msg.Type {
	case tea.KeyEnter:
		p.editing = false
		p.input.Blur()
		value := p.input.Value()
		if p.vars[p.editIndex].Value == value {
			return ResultNone
		}
		p.vars[p.editIndex].Value = value
		p.modified = true
		return ResultChanged
	case tea.KeyEsc:
		p.editing = false
		p.input.Blur()
		return ResultNone
	}
	p.input, _ = p.input.Update(msg)
	return ResultNone
}

func (p *VariablesPopup) handleSearch(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		p.searching = false
		return
	case tea.KeyEsc:
		p.searching = false
		p.query = ""
	case tea.KeyBackspace:
		p.query = tree.TrimRune(p.query)
	case tea.KeySpace:
		p.query += " "
	case tea.KeyRunes:
		p.query += string(msg.Runes)
	default:
		return
	}
	p.refilter()
}

// View renders the popup box.
func (p *VariablesPopup) View() string {
	styles := tui.DefaultStyles()
	lines := []string{styles.Title.Render("Variables: " + p.envName)}
	switch {
	case p.searching:
		lines = append(lines, "/"+p.query)
	case p.query != "":
		lines = append(lines, styles.Muted.Render("filter: "+p.query))
	default:
		lines = append(lines, "")
	}

	shown := p.shown()
	if len(shown) == 0 {
		lines = append(lines, styles.Muted.Render("(no variables)"))
	}
	for pos, i := range shown {
		v := p.vars[i]
		value := tui.Truncate(v.Value, 50)
		if p.editing && i == p.editIndex {
			value = p.input.View()
		}
		line := v.Key + " = " + value
		if !v.IsEnabled() {
			line += " (disabled)"
		}
		if pos == p.cursor {
			line = selectedRowStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	hint := "j/k: nav  enter: edit  /: search  s: save  esc: close"
	switch {
	case p.editing:
		hint = "enter: confirm  esc: cancel"
	case p.searching:
		hint = "enter: confirm  esc: cancel  type to search"
	}
	if p.modified {
		hint = "* unsaved  " + hint
	}
	lines = append(lines, "", styles.Muted.Render(hint))
	return popupStyle.Render(strings.Join(lines, "\n"))
}
