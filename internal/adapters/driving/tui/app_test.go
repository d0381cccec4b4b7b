package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/messages"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

// goTo switches the app to a view and runs the view's init command.
func goTo(app *App, view messages.ViewType) {
	_, cmd := app.Update(messages.ViewChanged{View: view})
	if view == messages.ViewSources && cmd != nil {
		app.Update(cmd())
	}
}

// runCmd feeds the message produced by cmd back into the app.
func runCmd(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	app.Update(cmd())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(validPorts())

	require.NoError(t, err)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})
	assert.ErrorIs(t, err, ErrMissingRecordService)
	assert.Nil(t, app)

	app, err = NewApp(nil)
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(validPorts())
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("k"), "v")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(validPorts())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(validPorts())

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Babix")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, validPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, validPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
}

func TestApp_MenuToSearch(t *testing.T) {
	app := newTestApp(t, validPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(t, app, cmd)

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, messages.ModeSearch, app.Mode())
}

func TestApp_MenuOpensRecordLookup(t *testing.T) {
	app := newTestApp(t, validPorts())

	app.Update(keyRunes("j"))
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(t, app, cmd)

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, messages.ModeRecord, app.Mode())
}

func TestApp_SearchFlow(t *testing.T) {
	ports := validPorts()
	ports.Search = &MockSearchService{SearchFunc: func(_ context.Context, q string, _ domain.SearchOptions) (*domain.SearchResponse, error) {
		return &domain.SearchResponse{
			Query:   q,
			Results: []domain.SearchResult{{Origin: "manual.pdf", Kind: domain.EntryChunk, Snippet: "capacete", Score: 1}},
		}, nil
	}}
	app := newTestApp(t, ports)
	goTo(app, messages.ViewSearch)

	app.Update(keyRunes("capacete"))
	assert.Equal(t, "capacete", app.Query())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(t, app, cmd)

	require.Len(t, app.Results(), 1)
	assert.Contains(t, app.View(), "manual.pdf")
}

func TestApp_RecordFlow(t *testing.T) {
	ports := validPorts()
	ports.Records = &MockRecordService{FindFunc: func(context.Context, string) (*domain.RecordMatch, error) {
		return &domain.RecordMatch{
			Record:     &domain.Record{Code: "518-51", Title: "Conduzir sem capacete"},
			Method:     domain.MatchByCode,
			Confidence: 1,
		}, nil
	}}
	app := newTestApp(t, ports)
	goTo(app, messages.ViewSearch)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app.Update(keyRunes("518-51"))
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(t, app, cmd)

	require.NotNil(t, app.Match())
	assert.Contains(t, app.View(), "Conduzir sem capacete")
}

func TestApp_SearchError(t *testing.T) {
	ports := validPorts()
	ports.Search = &MockSearchService{SearchFunc: func(context.Context, string, domain.SearchOptions) (*domain.SearchResponse, error) {
		return nil, errors.New("boom")
	}}
	app := newTestApp(t, ports)
	goTo(app, messages.ViewSearch)

	app.Update(keyRunes("x"))
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(t, app, cmd)

	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "boom")
}

func TestApp_EscFromSearch(t *testing.T) {
	app := newTestApp(t, validPorts())
	goTo(app, messages.ViewSearch)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	runCmd(t, app, cmd)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_SourcesView(t *testing.T) {
	ports := validPorts()
	ports.Source = &MockSourceService{StatsFunc: func(context.Context) ([]domain.SourceStats, error) {
		return []domain.SourceStats{{
			Source: domain.Source{ID: "s1", Origin: "/tmp/regras.txt", Status: domain.SourceStatusFetched},
			Chunks: 3,
		}}, nil
	}}
	app := newTestApp(t, ports)

	goTo(app, messages.ViewSources)

	assert.Equal(t, messages.ViewSources, app.CurrentView())
	assert.Contains(t, app.View(), "/tmp/regras.txt")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	runCmd(t, app, cmd)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t, validPorts())
	goTo(app, messages.ViewHelp)

	view := app.View()
	assert.Contains(t, view, "record lookup")
	assert.Contains(t, view, "search/record")
	assert.Contains(t, view, "reload")

	app.Update(keyRunes("x"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, validPorts())

	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})

	assert.EqualError(t, app.Err(), "disk full")
}
