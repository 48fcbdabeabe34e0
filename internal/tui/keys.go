package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevTab  key.Binding
	NextTab  key.Binding
	Pane     key.Binding
	Pin      key.Binding
	Snooze   key.Binding
	Unsnooze key.Binding
	Open     key.Binding
	Search   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Enter    key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PrevTab:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "previous tab")),
	NextTab:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next tab")),
	Pane:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus preview")),
	Pin:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle pin")),
	Snooze:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snooze")),
	Unsnooze: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "unsnooze")),
	Open:     key.NewBinding(key.WithKeys("o", "enter"), key.WithHelp("o", "open in browser")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
}
