package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Enter   key.Binding
	Admin   key.Binding
	Prev    key.Binding
	Next    key.Binding
	Jump    key.Binding
	Save    key.Binding
	Preview key.Binding
	NextIn  key.Binding
	PrevIn  key.Binding
	Up      key.Binding
	Down    key.Binding
	MoveUp  key.Binding
	MoveDn  key.Binding
	Remove  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Admin:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "admin")),
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Jump:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Preview: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
		NextIn:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevIn:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:  key.NewBinding(key.WithKeys("K", "["), key.WithHelp("K", "move up")),
		MoveDn:  key.NewBinding(key.WithKeys("J", "]"), key.WithHelp("J", "move down")),
		Remove:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
	}
}

func (k keyMap) homeHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Admin, k.Quit}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Jump, k.Enter, k.Back, k.Quit}
}

func (k keyMap) adminHelp(inCards bool) []key.Binding {
	if inCards {
		return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDn, k.Remove, k.NextIn, k.Save, k.Back}
	}
	return []key.Binding{k.NextIn, k.PrevIn, k.Save, k.Preview, k.Back}
}
