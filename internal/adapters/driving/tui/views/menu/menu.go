// Package menu is the TUI start screen.
package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/keymap"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/messages"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
)

// Item is one entry of the menu. An item without a target quits.
type Item struct {
	Label  string
	Hint   string
	Target *messages.ViewChanged
}

func goTo(view messages.ViewType, mode messages.Mode) *messages.ViewChanged {
	return &messages.ViewChanged{View: view, Mode: mode}
}

// DefaultItems are the entries of the start screen.
func DefaultItems() []Item {
	return []Item{
		{Label: "Ask", Hint: "ranked passages with citations", Target: goTo(messages.ViewSearch, messages.ModeSearch)},
		{Label: "Look up a ficha", Hint: "by code such as 596-70 or by description", Target: goTo(messages.ViewSearch, messages.ModeRecord)},
		{Label: "Sources", Hint: "what has been ingested", Target: goTo(messages.ViewSources, messages.ModeSearch)},
		{Label: "Keys", Hint: "every key binding", Target: goTo(messages.ViewHelp, messages.ModeSearch)},
		{Label: "Quit"},
	}
}

// View is the start screen.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the start screen.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		help:   help.New(),
		items:  DefaultItems(),
		width:  80,
		height: 24,
	}
}

// Init implements the bubbletea component contract.
func (v *View) Init() tea.Cmd { return nil }

// Update moves the cursor or activates the selected item.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			v.selected = max(v.selected-1, 0)
		case key.Matches(msg, v.keymap.Down):
			v.selected = min(v.selected+1, len(v.items)-1)
		case key.Matches(msg, v.keymap.Select):
			return v, v.activate(v.items[v.selected])
		case key.Matches(msg, v.keymap.Quit):
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *View) activate(item Item) tea.Cmd {
	if item.Target == nil {
		return tea.Quit
	}
	target := *item.Target
	return func() tea.Msg { return target }
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Babix"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Traffic law answers grounded in your documents"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + item.Label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + item.Label))
		}
		if item.Hint != "" {
			b.WriteString("  " + v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(v.help.ShortHelpView(v.keymap.MenuHelp())))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
	v.ready = true
}

// Selected returns the cursor index.
func (v *View) Selected() int { return v.selected }

// Items returns the menu entries.
func (v *View) Items() []Item { return v.items }
