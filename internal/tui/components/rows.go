package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/postdeck/internal/session"
	"github.com/artpar/postdeck/internal/tui"
)

// These helpers are pure: a row in, its text out.

func folderIcon(expanded bool) string {
	if expanded {
		return "-"
	}
	return "+"
}

// RequestRowText is the plain text of a request-tree row. Indentation is
// dropped for the filtered list shown while a search is typed.
func RequestRowText(row session.Row, indent bool) string {
	var b strings.Builder
	if indent {
		b.WriteString(strings.Repeat("  ", row.Depth))
	}
	if row.IsFolder {
		b.WriteString(folderIcon(row.Expanded))
	} else {
		b.WriteString(">")
	}
	b.WriteString(" ")
	if row.Favorite {
		b.WriteString("* ")
	}
	if !row.IsFolder && row.Payload != nil {
		b.WriteString("[" + row.Payload.Method + "] ")
	}
	b.WriteString(row.Name)
	if row.Edited {
		b.WriteString(" ~")
	}
	return b.String()
}

// CollectionRowText is the plain text of a collections-pane row. Favorites
// under the favorites folder need no marker; the copy in the regular list
// gets "* ".
func CollectionRowText(row session.CollectionRow, indent bool) string {
	var b strings.Builder
	if indent {
		b.WriteString(strings.Repeat("  ", row.Depth))
	}
	switch {
	case row.IsFolder:
		b.WriteString(folderIcon(row.Expanded) + " ")
	case row.Favorite && row.Depth == 0:
		b.WriteString("* ")
	default:
		b.WriteString("  ")
	}
	b.WriteString(row.Name)
	return b.String()
}

var (
	selectedRowStyle = lipgloss.NewStyle().Background(tui.ColorSelected).Foreground(lipgloss.Color("255")).Bold(true)
	editedRowStyle   = lipgloss.NewStyle().Foreground(tui.ColorEdited)
	folderRowStyle   = lipgloss.NewStyle().Foreground(tui.ColorFavorite)
	favoriteRowStyle = lipgloss.NewStyle().Foreground(tui.ColorFavorite)
	plainRowStyle    = lipgloss.NewStyle()
)

func requestRowStyle(row session.Row, selected bool) lipgloss.Style {
	switch {
	case selected:
		return selectedRowStyle
	case row.Edited:
		return editedRowStyle
	case row.IsFolder:
		return folderRowStyle
	case row.Favorite:
		return favoriteRowStyle
	}
	return plainRowStyle
}

func collectionRowStyle(row session.CollectionRow, selected bool) lipgloss.Style {
	switch {
	case selected:
		return selectedRowStyle
	case row.IsFolder, row.Favorite:
		return favoriteRowStyle
	}
	return plainRowStyle
}

// visibleRows is the list of row indices a pane shows: the search matches
// while a query is typed, every row otherwise.
func visibleRows(n int, filtering bool, matches []int) []int {
	if filtering {
		return matches
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// renderList draws the rows in indices that fit height, scrolled so the
// cursor row stays visible. It returns the new offset.
func renderList(indices []int, cursor, offset, height int, line func(i int, selected bool) string) (string, int) {
	if height < 1 || len(indices) == 0 {
		return "", 0
	}
	pos := 0
	for k, i := range indices {
		if i == cursor {
			pos = k
			break
		}
	}
	offset = tui.AdjustOffset(pos, offset, height)
	end := min(offset+height, len(indices))
	lines := make([]string, 0, end-offset)
	for _, i := range indices[offset:end] {
		lines = append(lines, line(i, i == cursor))
	}
	return strings.Join(lines, "\n"), offset
}
