package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding of the browser.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Collapse    key.Binding
	Expand      key.Binding
	CollapseAll key.Binding
	ExpandAll   key.Binding
	Enter       key.Binding
	Search      key.Binding
	NextMatch   key.Binding
	PrevMatch   key.Binding
	Cancel      key.Binding

	Pane1    key.Binding
	Pane2    key.Binding
	Pane3    key.Binding
	Pane4    key.Binding
	NextPane key.Binding

	Favorite    key.Binding
	Execute     key.Binding
	Edit        key.Binding
	Save        key.Binding
	Add         key.Binding
	Yank        key.Binding
	YankCurl    key.Binding
	Environment key.Binding
	Variables   key.Binding
	Workspace   key.Binding
	SaveVars    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// Keys is the default key map.
var Keys = DefaultKeyMap()

// DefaultKeyMap returns the browser bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "nav")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "nav")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Collapse:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "fold")),
		Expand:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("h/l", "fold")),
		CollapseAll: key.NewBinding(key.WithKeys("H"), key.WithHelp("H/L", "fold all")),
		ExpandAll:   key.NewBinding(key.WithKeys("L"), key.WithHelp("H/L", "fold all")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextMatch:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n/N", "match")),
		PrevMatch:   key.NewBinding(key.WithKeys("N"), key.WithHelp("n/N", "match")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Pane1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1-4", "pane")),
		Pane2:    key.NewBinding(key.WithKeys("2")),
		Pane3:    key.NewBinding(key.WithKeys("3")),
		Pane4:    key.NewBinding(key.WithKeys("4")),
		NextPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),

		Favorite:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fav")),
		Execute:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "exec")),
		Edit:        key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "edit")),
		Save:        key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "save")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Yank:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank")),
		YankCurl:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "yank curl")),
		Environment: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "env")),
		Variables:   key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "vars")),
		Workspace:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "workspace")),
		SaveVars:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the one-line help bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Enter, k.Execute, k.Edit, k.Save, k.Add, k.Favorite, k.Search, k.Environment, k.Help, k.Quit}
}

// FullHelp is the help overlay, one column per group.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Top, k.Bottom, k.Collapse, k.CollapseAll, k.Enter},
		{k.Search, k.NextMatch, k.Cancel, k.Pane1, k.NextPane},
		{k.Execute, k.Edit, k.Save, k.Add, k.Favorite, k.Yank, k.YankCurl},
		{k.Environment, k.Variables, k.Workspace, k.Help, k.Quit},
	}
}
