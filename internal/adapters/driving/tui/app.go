package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/keymap"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/messages"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/views/menu"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/views/search"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/views/sources"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// App routes messages between the menu, query and sources screens.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menu    *menu.View
	query   *search.View
	sources *sources.View
	current messages.ViewType

	err   error
	ready bool
}

var _ tea.Model = (*App)(nil)

// NewApp wires the screens to ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, errors.New("creating app: ports are required")
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	h := help.New()
	h.ShowAll = true

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keymap:  km,
		help:    h,
		menu:    menu.NewView(s, km),
		query:   search.NewView(s, km, ports.Search, ports.Records),
		sources: sources.NewView(s, km, ports.Source),
		current: messages.ViewMenu,
	}, nil
}

// WithContext sets the context service calls run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.query.WithContext(ctx)
	a.sources.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("babix")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	case messages.ViewChanged:
		return a, a.show(msg)

	case messages.SearchCompleted, messages.RecordFound:
		a.query, cmd = a.query.Update(msg)
		a.err = a.query.Err()
		return a, cmd

	case messages.SourcesLoaded:
		a.sources, cmd = a.sources.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.current == messages.ViewSearch {
			a.query, cmd = a.query.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a.forward(msg)
}

// show switches screens and runs the entered screen's init.
func (a *App) show(msg messages.ViewChanged) tea.Cmd {
	a.current = msg.View
	switch msg.View {
	case messages.ViewSearch:
		a.query.Reset()
		return tea.Batch(a.query.SetMode(msg.Mode), a.query.Init())
	case messages.ViewSources:
		return a.sources.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// forward routes input to the active screen.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.current {
	case messages.ViewMenu:
		a.menu, cmd = a.menu.Update(msg)
	case messages.ViewSearch:
		a.query, cmd = a.query.Update(msg)
		a.err = a.query.Err()
	case messages.ViewSources:
		a.sources, cmd = a.sources.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, a.keymap.Back) {
			a.current = messages.ViewMenu
		}
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.current {
	case messages.ViewSearch:
		return a.query.View()
	case messages.ViewSources:
		return a.sources.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menu.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Normal.Render("Tab switches the query screen between passage search and record lookup."))
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("Record lookup accepts a ficha code such as 596-70 or a description."))
	b.WriteString("\n\n")
	b.WriteString(a.help.View(a.keymap))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("esc: back to menu"))
	return b.String()
}

// Run starts the program in the alternate screen and blocks until it exits.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	return err
}

// Query returns the text in the query input.
func (a *App) Query() string { return a.query.Query() }

// Results returns the passages of the last search.
func (a *App) Results() []domain.SearchResult { return a.query.Results() }

// Match returns the last record lookup answer.
func (a *App) Match() *domain.RecordMatch { return a.query.Match() }

// Mode returns the query screen's mode.
func (a *App) Mode() messages.Mode { return a.query.Mode() }

// CurrentView returns the active screen.
func (a *App) CurrentView() messages.ViewType { return a.current }

// Err returns the last error.
func (a *App) Err() error { return a.err }

// Ready reports whether a window size has been received.
func (a *App) Ready() bool { return a.ready }

// SetDimensions resizes every screen.
func (a *App) SetDimensions(width, height int) {
	a.ready = true
	a.help.Width = width
	a.menu.SetDimensions(width, height)
	a.query.SetDimensions(width, height)
	a.sources.SetDimensions(width, height)
}
