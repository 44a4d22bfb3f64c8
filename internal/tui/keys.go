package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextPart key.Binding
	PrevPart key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Refresh  key.Binding
	Save     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	NextPart: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next part")),
	PrevPart: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev part")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save png")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPart, k.Select, k.Refresh, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPart, k.PrevPart},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Refresh, k.Save, k.Quit},
	}
}
