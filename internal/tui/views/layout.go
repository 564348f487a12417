package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/artpar/postdeck/internal/tui"
	"github.com/artpar/postdeck/internal/tui/components"
)

// statusHeight is the status line plus the key hint line.
const statusHeight = 2

var (
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	notificationStyle = lipgloss.NewStyle().Foreground(tui.ColorSuccess).Bold(true)
	indicatorStyle    = lipgloss.NewStyle().Foreground(tui.ColorAccent).Bold(true)
	confirmStyle      = lipgloss.NewStyle().Foreground(tui.ColorWarning).Bold(true)
)

// SetSize resizes the view.
func (v *MainView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.updatePaneSizes()
}

// updatePaneSizes lays out the panes: the left column holds Collections
// (40%) over Requests (60%); the right column holds Preview, split 40/60
// with Response once there is one.
func (v *MainView) updatePaneSizes() {
	if v.width == 0 || v.height == 0 {
		return
	}
	bodyHeight := max(v.height-statusHeight, 2)
	leftWidth := max(v.width*18/100, 24)
	leftWidth = min(leftWidth, v.width/2)
	rightWidth := v.width - leftWidth

	collectionsHeight := bodyHeight * 40 / 100
	v.collectionsPane.SetSize(leftWidth, collectionsHeight)
	v.requestsPane.SetSize(leftWidth, bodyHeight-collectionsHeight)

	if v.response.HasResponse() {
		previewHeight := bodyHeight * 40 / 100
		v.preview.SetSize(rightWidth, previewHeight)
		v.response.SetSize(rightWidth, bodyHeight-previewHeight)
	} else {
		v.preview.SetSize(rightWidth, bodyHeight)
		v.response.SetSize(rightWidth, 0)
	}
	v.help.Width = v.width
}

// View renders the view.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	bodyHeight := max(v.height-statusHeight, 2)

	var body string
	if popup := v.popupView(); popup != "" {
		body = lipgloss.Place(v.width, bodyHeight, lipgloss.Center, lipgloss.Center, popup)
	} else {
		left := lipgloss.JoinVertical(lipgloss.Left, v.collectionsPane.View(), v.requestsPane.View())
		right := v.preview.View()
		if v.response.HasResponse() {
			right = lipgloss.JoinVertical(lipgloss.Left, right, v.response.View())
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, v.renderStatusBar(), v.renderHelpBar())
}

func (v *MainView) popupView() string {
	switch v.mode {
	case modeHelp:
		return components.HelpView(v.width - 4)
	case modeEnvironments, modeWorkspaces:
		return v.listPopup.View()
	case modeVariables:
		return v.varsPopup.View()
	case modeNewRequest:
		return v.dialog.View()
	case modeSaving:
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(tui.ColorAccent).
			Padding(1, 2).
			Render(v.spinner.View() + " Saving changes to Postman...\n\n" + tui.DefaultStyles().Muted.Render("esc: cancel"))
	}
	return ""
}

func (v *MainView) renderStatusBar() string {
	var parts []string
	if v.loading || v.sess.Saving() {
		parts = append(parts, v.spinner.View())
	}
	msg := v.status
	if v.mode == modeConfirmExecute {
		msg = confirmStyle.Render(msg)
	} else {
		msg = statusStyle.Render(msg)
	}
	parts = append(parts, msg)
	if v.notification != "" {
		parts = append(parts, notificationStyle.Render(v.notification))
	}
	env := "No Environment"
	if v.environment != nil {
		env = v.environment.Name
	}
	right := indicatorStyle.Render("[" + v.workspaceName() + "] [" + env + "]")

	left := ansi.Truncate(strings.Join(parts, " "), max(v.width-lipgloss.Width(right)-1, 0), "...")
	gap := max(v.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Title returns the view title.
func (v *MainView) Title() string {
	return "postdeck"
}

// Focused reports true; the view always owns the keyboard.
func (v *MainView) Focused() bool {
	return true
}

// Focus is a no-op.
func (v *MainView) Focus() {}

// Blur is a no-op.
func (v *MainView) Blur() {}

// Width returns the view width.
func (v *MainView) Width() int {
	return v.width
}

// Height returns the view height.
func (v *MainView) Height() int {
	return v.height
}

func (v *MainView) renderHelpBar() string {
	hint := v.help.ShortHelpView(tui.Keys.ShortHelp())
	switch v.focused {
	case PaneCollections:
		hint = "1-4: pane | j/k: nav | enter: load | f: fav | /: search | w: workspace | ?: help | q: quit"
	case PaneResponse:
		hint = "1-4: pane | j/k: nav | h/l: fold | /: search | y: yank | ?: help | q: quit"
	}
	return tui.DefaultStyles().Muted.Render(tui.Truncate(hint, v.width))
}
