package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/postdeck/internal/tui"
)

// DialogStep is the field a NewRequestDialog is asking for.
type DialogStep int

const (
	StepName DialogStep = iota
	StepURL
)

// EmptyNameStatus is the status shown when Enter is pressed on an empty name.
const EmptyNameStatus = "Name cannot be empty"

// NewRequestDialog asks for a name, then an optional URL.
type NewRequestDialog struct {
	step   DialogStep
	name   textinput.Model
	url    textinput.Model
	status string
}

// NewNewRequestDialog creates a dialog at the name step.
func NewNewRequestDialog() *NewRequestDialog {
	d := &NewRequestDialog{
		name:   newDialogInput("My request"),
		url:    newDialogInput("https://example.com"),
		status: "Enter request name",
	}
	d.name.Focus()
	return d
}

func newDialogInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = " "
	ti.Width = 50
	return ti
}

// Step is the current field.
func (d *NewRequestDialog) Step() DialogStep {
	return d.step
}

// Status is the hint for the current step.
func (d *NewRequestDialog) Status() string {
	return d.status
}

// Name is the entered name, trimmed.
func (d *NewRequestDialog) Name() string {
	return strings.TrimSpace(d.name.Value())
}

// URL is the entered URL, trimmed. It may be empty.
func (d *NewRequestDialog) URL() string {
	return strings.TrimSpace(d.url.Value())
}

// HandleKey types into the current field. Enter on the name step advances
// unless the name is blank; Enter on the URL step returns ResultChosen.
func (d *NewRequestDialog) HandleKey(msg tea.KeyMsg) Result {
	switch msg.Type {
	case tea.KeyEsc:
		return ResultCancelled
	case tea.KeyEnter:
		if d.step == StepURL {
			return ResultChosen
		}
		if d.Name() == "" {
			d.status = EmptyNameStatus
			return ResultNone
		}
		d.step = StepURL
		d.name.Blur()
		d.url.Focus()
		d.status = "Enter request URL (or leave empty)"
		return ResultNone
	}
	if d.step == StepName {
		d.name, _ = d.name.Update(msg)
	} else {
		d.url, _ = d.url.Update(msg)
	}
	return ResultNone
}

// View renders the dialog box.
func (d *NewRequestDialog) View() string {
	styles := tui.DefaultStyles()
	title, label, input := "New Request - Step 1/2: Name", "Name:", d.name.View()
	if d.step == StepURL {
		title, label, input = "New Request - Step 2/2: URL", "URL:", d.url.View()
	}
	lines := []string{
		styles.Title.Render(title),
		"",
		label,
		input,
		"",
		styles.Muted.Render(d.status),
		styles.Muted.Render("enter: next  esc: cancel"),
	}
	return popupStyle.Width(60).Render(strings.Join(lines, "\n"))
}

// HelpView renders the full key reference.
func HelpView(width int) string {
	h := help.New()
	h.ShowAll = true
	h.Width = width
	lines := []string{
		tui.DefaultStyles().Title.Render("Keys"),
		"",
		h.View(tui.Keys),
		"",
		tui.DefaultStyles().Muted.Render("esc or ?: close"),
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}
