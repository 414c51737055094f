package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	enter key.Binding
	back  key.Binding
	next  key.Binding
	prev  key.Binding
	first key.Binding
	last  key.Binding
	fetch key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:  key.NewBinding(key.WithKeys("n", "j"), key.WithHelp("n", "next note")),
		prev:  key.NewBinding(key.WithKeys("p", "k"), key.WithHelp("p", "prev note")),
		first: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "first note")),
		last:  key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "last note")),
		fetch: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch pending")),
		quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.next, k.prev},
		{k.first, k.last, k.fetch, k.quit},
	}
}
