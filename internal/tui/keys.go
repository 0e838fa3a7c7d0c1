package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	Grab, Drop            key.Binding
	Add, Edit, Delete     key.Binding
	Undo                  key.Binding
	Query, Status, Clear  key.Binding
	Export, Import        key.Binding
	Help, Quit            key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "row up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "row down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Grab:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/drop")),
		Drop:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Query:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Status: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Export: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		Import: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Add, k.Edit, k.Delete, k.Query, k.Status, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Drop, k.Add, k.Edit, k.Delete, k.Undo},
		{k.Query, k.Status, k.Clear},
		{k.Export, k.Import, k.Help, k.Quit},
	}
}
