package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	All        key.Binding
	Incomplete key.Binding
	Completed  key.Binding
	Toggle     key.Binding
	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Refresh    key.Binding
	Quit       key.Binding

	Submit    key.Binding
	NextField key.Binding
	Cancel    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		All:        key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Incomplete: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "incomplete")),
		Completed:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		NextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) browseHelp() []key.Binding {
	return []key.Binding{k.All, k.Incomplete, k.Completed, k.Toggle, k.Add, k.Edit, k.Delete, k.Refresh}
}
