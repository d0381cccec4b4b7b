// Package sources provides the sources view component for the TUI.
package sources

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
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
)

// ErrNoSourceService is returned when the view has no source service.
var ErrNoSourceService = errors.New("source service not available")

// View lists ingested sources with their index counts.
type View struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	help          help.Model
	sourceService driving.SourceService
	ctx           context.Context

	stats    []domain.SourceStats
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new sources view.
func NewView(s *styles.Styles, km *keymap.KeyMap, sourceService driving.SourceService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:        s,
		keymap:        km,
		help:          help.New(),
		sourceService: sourceService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads sources.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadSources()
}

func (v *View) loadSources() tea.Cmd {
	return func() tea.Msg {
		if v.sourceService == nil {
			return messages.SourcesLoaded{Err: ErrNoSourceService}
		}
		stats, err := v.sourceService.Stats(v.ctx)
		return messages.SourcesLoaded{Stats: stats, Err: err}
	}
}

// Update handles messages for the sources view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.stats = msg.Stats
		if v.selected >= len(v.stats) {
			v.selected = max(len(v.stats)-1, 0)
		}
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		v.selected = max(v.selected-1, 0)
	case key.Matches(msg, v.keymap.Down):
		v.selected = max(min(v.selected+1, len(v.stats)-1), 0)
	case key.Matches(msg, v.keymap.Reload):
		v.loading = true
		return v, v.loadSources()
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// View renders the sources view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sources"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading sources..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.stats) == 0:
		b.WriteString(v.styles.Muted.Render("Nothing ingested yet. Run `babix ingest <path|url>`."))
	default:
		for i := range v.stats {
			b.WriteString(v.renderSource(i, &v.stats[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(v.help.ShortHelpView(v.keymap.SourcesHelp())))
	return b.String()
}

func (v *View) renderSource(index int, st *domain.SourceStats) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := st.Source.Title
	if name == "" {
		name = st.Source.Origin
	}
	maxLen := v.width - 40
	if maxLen < 10 {
		maxLen = 10
	}
	if r := []rune(name); len(r) > maxLen {
		name = string(r[:maxLen-3]) + "..."
	}

	counts := fmt.Sprintf("%d chunks, %d records", st.Chunks, st.Records)
	statusStyle := v.styles.Success
	if st.Source.Status == domain.SourceStatusError {
		statusStyle = v.styles.Error
	}

	var line string
	if index == v.selected {
		line = v.styles.Selected.Render(fmt.Sprintf("%s%-8s %s", indicator, st.Source.Status, name))
	} else {
		line = v.styles.Normal.Render(indicator) +
			statusStyle.Render(fmt.Sprintf("%-8s ", st.Source.Status)) +
			v.styles.Normal.Render(name)
	}
	line += "  " + v.styles.Muted.Render(counts)

	if st.Source.LastError != "" {
		line += "\n    " + v.styles.Error.Render(st.Source.LastError)
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
	v.ready = true
}

// Stats returns the loaded source statistics.
func (v *View) Stats() []domain.SourceStats {
	return v.stats
}

// SelectedIndex returns the currently selected source index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
