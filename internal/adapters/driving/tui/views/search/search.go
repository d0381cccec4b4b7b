// Package search provides the query view for the TUI: ranked passage
// search and record lookup, toggled with Tab.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/components/input"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/components/list"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/components/status"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/keymap"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/messages"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
)

// View represents the query view with input, results and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	recordService driving.RecordService
	ctx           context.Context

	// match is the last record lookup answer, shown in record mode.
	match *domain.RecordMatch

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing, false = navigating results
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	recordService driving.RecordService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		recordService: recordService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.RecordFound:
		v.handleRecordFound(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key.Matches(msg, v.keymap.ToggleMode):
		return v, v.SetMode(v.input.Mode().Toggle())
	}

	if v.focusInput {
		if key.Matches(msg, v.keymap.Submit) {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	case key.Matches(msg, v.keymap.NewQuery):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// submit dispatches the typed query in the current mode.
func (v *View) submit() tea.Cmd {
	query := strings.TrimSpace(v.input.Value())
	if query == "" {
		return nil
	}
	v.statusbar.Searching()
	v.focusInput = false
	v.input.Blur()
	if v.input.Mode() == messages.ModeRecord {
		return v.performLookup(query)
	}
	return v.performSearch(query)
}

// SetMode switches between passage search and record lookup, dropping the
// previous answer.
func (v *View) SetMode(mode messages.Mode) tea.Cmd {
	v.input.SetMode(mode)
	v.clearResults()
	v.focusInput = true
	return v.input.Focus()
}

// performSearch runs a ranked search in the background.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		resp, err := v.searchService.Search(v.ctx, query, domain.SearchOptions{})
		return messages.SearchCompleted{Response: resp, Err: err}
	}
}

// performLookup resolves the query to a record in the background.
func (v *View) performLookup(query string) tea.Cmd {
	return func() tea.Msg {
		if v.recordService == nil {
			return messages.ErrorOccurred{Err: ErrNoRecordService}
		}
		match, err := v.recordService.FindRecord(v.ctx, query)
		return messages.RecordFound{Query: query, Match: match, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.match = nil
	if msg.Response == nil || msg.Response.Insufficient {
		v.list.SetResults(nil)
	} else {
		v.list.SetResults(msg.Response.Results)
	}
	v.statusbar.ShowResponse(msg.Response)
}

func (v *View) handleRecordFound(msg messages.RecordFound) {
	v.list.SetResults(nil)
	if errors.Is(msg.Err, domain.ErrInsufficientEvidence) {
		v.err = nil
		v.match = nil
		v.statusbar.ShowInsufficient("no record matches " + msg.Query)
		return
	}
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.match = msg.Match
	v.statusbar.ShowMatch(msg.Match)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.ShowError(err)
}

func (v *View) clearResults() {
	v.list.SetResults(nil)
	v.match = nil
	v.err = nil
	v.statusbar.Clear()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Babix"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.input.Mode() == messages.ModeRecord {
		sections = append(sections, v.renderMatch())
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMatch renders the last record lookup.
func (v *View) renderMatch() string {
	if v.match == nil {
		return v.styles.Muted.Render("Type a code or describe the infraction, then press enter.")
	}

	var b strings.Builder
	if v.match.Record == nil {
		b.WriteString(v.styles.Subtitle.Render("Best matching sentence"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Normal.Render(v.match.Sentence))
		if v.match.SourceOrigin != "" {
			b.WriteString("\n")
			b.WriteString(v.styles.Citation.Render(v.match.SourceOrigin))
		}
		return b.String()
	}

	rec := v.match.Record
	b.WriteString(v.styles.Code.Render(rec.Code))
	b.WriteString("  ")
	b.WriteString(v.styles.Title.Render(rec.Title))
	b.WriteString("\n\n")

	for _, name := range rec.FieldNames() {
		value := v.styles.Normal
		if name == domain.FieldSeverity {
			value = v.styles.Severity(rec.Fields[name])
		}
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%-12s", name)))
		b.WriteString(" ")
		b.WriteString(value.Render(rec.Fields[name]))
		b.WriteString("\n")
	}
	if rec.Body != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(rec.Body))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status bar
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Mode returns the current query mode.
func (v *View) Mode() messages.Mode {
	return v.input.Mode()
}

// Query returns the current query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Match returns the last record lookup answer.
func (v *View) Match() *domain.RecordMatch {
	return v.match
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to input mode with an empty query.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.clearResults()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
