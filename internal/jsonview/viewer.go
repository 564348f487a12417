package jsonview

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"

	"github.com/artpar/postdeck/internal/tree"
)

// MaxStringWidth is the display width past which string values are cut.
const MaxStringWidth = 50

// Row is one visible line of the viewer.
type Row struct {
	Path       Path
	Depth      int
	Kind       Kind
	Key        string
	Value      string
	ChildCount int
	Expanded   bool
	Match      bool
}

// Container reports whether the row is an object or array.
func (r Row) Container() bool {
	return r.Kind.IsContainer()
}

// Viewer holds a parsed document with its expansion, cursor and search
// state.
type Viewer struct {
	root     *node
	expanded map[string]bool
	cursor   int
	search   tree.SearchState[Path]
}

// New parses body. It reports false when body is not a single JSON value, in
// which case the caller shows the body as plain text. A new viewer starts
// fully expanded.
func New(body string) (*Viewer, bool) {
	root, err := parse(body)
	if err != nil {
		return nil, false
	}
	v := &Viewer{root: root, expanded: make(map[string]bool)}
	v.ExpandAll()
	return v, true
}

// Rows projects the document into visible rows. Containers list their
// children only when expanded.
func (v *Viewer) Rows() []Row {
	matches := make(map[string]bool, len(v.search.Matches))
	if v.search.Query != "" {
		for _, m := range v.search.Matches {
			matches[m.Key()] = true
		}
	}
	var rows []Row
	walk(v.root, RootPath(), func(p Path, n *node) bool {
		rows = append(rows, Row{
			Path:       p,
			Depth:      len(p) - 1,
			Kind:       n.kind,
			Key:        n.segment.Label(),
			Value:      label(n),
			ChildCount: len(n.children),
			Expanded:   v.expanded[p.Key()],
			Match:      matches[p.Key()],
		})
		return n.kind.IsContainer() && v.expanded[p.Key()]
	})
	return rows
}

func label(n *node) string {
	switch n.kind {
	case KindObject:
		return fmt.Sprintf("{ %d keys }", len(n.children))
	case KindArray:
		return fmt.Sprintf("[ %d items ]", len(n.children))
	case KindString:
		return `"` + Truncate(n.text) + `"`
	default:
		return n.text
	}
}

// Truncate shortens s to MaxStringWidth columns, ending in "...".
func Truncate(s string) string {
	if runewidth.StringWidth(s) <= MaxStringWidth {
		return s
	}
	return runewidth.Truncate(s, MaxStringWidth, "...")
}

// ExpandAll opens every object and array, the root included.
func (v *Viewer) ExpandAll() {
	selected := v.selectedPath()
	walk(v.root, RootPath(), func(p Path, n *node) bool {
		if n.kind.IsContainer() {
			v.expanded[p.Key()] = true
		}
		return true
	})
	v.relocate(selected)
}

// CollapseAll closes everything except the root.
func (v *Viewer) CollapseAll() {
	selected := v.selectedPath()
	v.expanded = map[string]bool{RootPath().Key(): true}
	v.relocate(selected)
}

// ExpandedPaths returns the open containers in document order.
func (v *Viewer) ExpandedPaths() []Path {
	var out []Path
	walk(v.root, RootPath(), func(p Path, n *node) bool {
		if v.expanded[p.Key()] {
			out = append(out, p)
		}
		return true
	})
	return out
}

// IsExpanded reports whether the container at p is open.
func (v *Viewer) IsExpanded(p Path) bool {
	return v.expanded[p.Key()]
}

// Toggle opens or closes the container under the cursor.
func (v *Viewer) Toggle() {
	row, ok := v.Selected()
	if !ok || !row.Container() {
		return
	}
	v.expanded[row.Path.Key()] = !row.Expanded
}

// Expand opens the container under the cursor.
func (v *Viewer) Expand() {
	row, ok := v.Selected()
	if !ok || !row.Container() {
		return
	}
	v.expanded[row.Path.Key()] = true
}

// Collapse closes the container under the cursor, or moves to the parent
// when the cursor is on a leaf or a closed container.
func (v *Viewer) Collapse() {
	row, ok := v.Selected()
	if !ok {
		return
	}
	if row.Container() && row.Expanded {
		v.expanded[row.Path.Key()] = false
		return
	}
	if len(row.Path) > 1 {
		v.relocate(row.Path[:len(row.Path)-1])
	}
}

// MoveCursor moves the selection by delta rows, clamped.
func (v *Viewer) MoveCursor(delta int) {
	v.cursor = tree.Clamp(v.cursor+delta, len(v.Rows()))
}

// Cursor is the selected row index.
func (v *Viewer) Cursor() int {
	return v.cursor
}

// SetCursor selects row index i, clamped.
func (v *Viewer) SetCursor(i int) {
	v.cursor = tree.Clamp(i, len(v.Rows()))
}

// Selected returns the row under the cursor.
func (v *Viewer) Selected() (Row, bool) {
	rows := v.Rows()
	if len(rows) == 0 {
		return Row{}, false
	}
	return rows[tree.Clamp(v.cursor, len(rows))], true
}

// SelectedValue returns the JSON text of the node under the cursor, indented
// for containers and raw for strings.
func (v *Viewer) SelectedValue() string {
	row, ok := v.Selected()
	if !ok {
		return ""
	}
	n, ok := lookup(v.root, row.Path)
	if !ok {
		return ""
	}
	if n.kind == KindString {
		return n.text
	}
	out, err := json.MarshalIndent(n.value, "", "  ")
	if err != nil {
		return n.text
	}
	return string(out)
}

func (v *Viewer) selectedPath() Path {
	if v.expanded == nil || v.root == nil {
		return nil
	}
	row, ok := v.Selected()
	if !ok {
		return nil
	}
	return row.Path
}

// relocate selects the row at p, or the closest visible ancestor of p.
func (v *Viewer) relocate(p Path) {
	if p == nil {
		v.cursor = tree.Clamp(v.cursor, len(v.Rows()))
		return
	}
	rows := v.Rows()
	for l := len(p); l > 0; l-- {
		for i, r := range rows {
			if r.Path.Equal(p[:l]) {
				v.cursor = i
				return
			}
		}
	}
	v.cursor = tree.Clamp(v.cursor, len(rows))
}

// Search returns the path of every node whose object key contains query, or
// whose string value or number text does. Booleans and null are not matched
// by value. Each node appears at most once.
func (v *Viewer) Search(query string) []Path {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)
	var matches []Path
	walk(v.root, RootPath(), func(p Path, n *node) bool {
		if len(p) == 1 {
			return true
		}
		switch {
		case n.segment.Kind == SegmentKey && strings.Contains(strings.ToLower(n.segment.Key), q):
			matches = append(matches, p)
		case n.kind == KindString && strings.Contains(strings.ToLower(n.text), q):
			matches = append(matches, p)
		case n.kind == KindNumber && strings.Contains(strings.ToLower(n.text), q):
			matches = append(matches, p)
		}
		return true
	})
	return matches
}

// BeginSearch starts typing a new query.
func (v *Viewer) BeginSearch() {
	v.search.Begin(v.cursor)
}

// Searching reports whether a query is being typed.
func (v *Viewer) Searching() bool {
	return v.search.Typing()
}

// Query is the current search text.
func (v *Viewer) Query() string {
	return v.search.Query
}

// Matches returns the current matches.
func (v *Viewer) Matches() []Path {
	return v.search.Matches
}

// SearchInput appends r to the query and jumps to the first match.
func (v *Viewer) SearchInput(r rune) {
	v.SetQuery(tree.AppendRune(v.search.Query, r))
}

// SearchBackspace drops the last rune of the query.
func (v *Viewer) SearchBackspace() {
	v.SetQuery(tree.TrimRune(v.search.Query))
}

// SetQuery replaces the query, recomputing matches from scratch.
func (v *Viewer) SetQuery(q string) {
	if m, ok := v.search.Update(q, v.Search(q)); ok {
		v.jump(m)
	}
}

// ConfirmSearch keeps the selection and matches for n/N.
func (v *Viewer) ConfirmSearch() {
	v.search.Confirm()
}

// CancelSearch clears the query and restores the cursor from before the
// search. Containers opened while searching stay open.
func (v *Viewer) CancelSearch() {
	v.cursor = tree.Clamp(v.search.Cancel(), len(v.Rows()))
}

// NextMatch jumps to the following match, wrapping.
func (v *Viewer) NextMatch() {
	if m, ok := v.search.Next(); ok {
		v.jump(m)
	}
}

// PrevMatch jumps to the previous match, wrapping.
func (v *Viewer) PrevMatch() {
	if m, ok := v.search.Prev(); ok {
		v.jump(m)
	}
}

func (v *Viewer) jump(p Path) {
	for _, a := range p.Ancestors() {
		v.expanded[a.Key()] = true
	}
	v.relocate(p)
}

// SearchStatus summarizes the search for the status bar.
func (v *Viewer) SearchStatus() string {
	if v.search.Query == "" {
		return ""
	}
	cur, total := v.search.Position()
	if total == 0 {
		return fmt.Sprintf("/%s (no matches)", v.search.Query)
	}
	return fmt.Sprintf("/%s (%d/%d)", v.search.Query, cur, total)
}
