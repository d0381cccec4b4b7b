// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// Mode selects what the query input is answered with.
type Mode int

const (
	// ModeSearch runs ranked passage search.
	ModeSearch Mode = iota
	// ModeRecord resolves the query to a single record.
	ModeRecord
)

// String returns the label shown next to the query input.
func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeSearch {
		return ModeRecord
	}
	return ModeSearch
}

// SearchCompleted carries a search response back to the model.
type SearchCompleted struct {
	Response *domain.SearchResponse
	Err      error
}

// RecordFound carries a record lookup back to the model.
// Match is nil and Err wraps domain.ErrInsufficientEvidence when nothing
// matched confidently.
type RecordFound struct {
	Query string
	Match *domain.RecordMatch
	Err   error
}

// ViewChanged is sent when navigating between views. Mode applies only
// when View is ViewSearch.
type ViewChanged struct {
	View ViewType
	Mode Mode
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the query input and results view.
	ViewSearch
	// ViewSources lists ingested sources and their status.
	ViewSources
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewSources:
		return "sources"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SourcesLoaded carries sources with their counts.
type SourcesLoaded struct {
	Stats []domain.SourceStats
	Err   error
}
