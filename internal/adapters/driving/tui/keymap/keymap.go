// Package keymap holds the key bindings of every TUI screen.
package keymap

import "github.com/charmbracelet/bubbles/key"

// KeyMap groups bindings by what they act on. Views match with key.Matches
// and render hints from the per-screen groups below.
type KeyMap struct {
	// global
	Quit key.Binding
	Back key.Binding

	// lists
	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	// query screen
	Submit     key.Binding
	ToggleMode key.Binding
	NewQuery   key.Binding

	// sources screen
	Reload key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns vim-style navigation plus arrows.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:       bind("q", "quit", "q", "ctrl+c"),
		Back:       bind("esc", "back", "esc"),
		Up:         bind("↑/k", "up", "up", "k"),
		Down:       bind("↓/j", "down", "down", "j"),
		Select:     bind("enter", "select", "enter"),
		Submit:     bind("enter", "search", "enter"),
		ToggleMode: bind("tab", "search/record", "tab"),
		NewQuery:   bind("n", "new query", "n"),
		Reload:     bind("r", "reload", "r"),
	}
}

// ShortHelp is shown while a query is being typed.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleMode, k.Back}
}

// ResultsHelp is shown while browsing passages.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.NewQuery, k.Up, k.Down, k.Back}
}

// MenuHelp is shown under the main menu.
func (k *KeyMap) MenuHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// SourcesHelp is shown under the source list.
func (k *KeyMap) SourcesHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reload, k.Back}
}

// FullHelp lists every binding, one column per screen.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Quit},
		{k.Submit, k.ToggleMode, k.NewQuery},
		{k.Reload, k.Back},
	}
}
