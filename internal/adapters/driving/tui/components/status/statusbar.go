// Package status renders the one-line outcome of the last query.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/keymap"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// State is the outcome the bar currently reports.
type State string

const (
	StateReady        State = "ready"
	StateSearching    State = "searching"
	StateError        State = "error"
	StateResults      State = "results"
	StateMatch        State = "match"
	StateInsufficient State = "insufficient"
)

// Bar shows what the last query produced on the left and the key hints
// for that outcome on the right.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	width  int

	state  State
	detail string
	hits   int
	best   float64
}

// NewBar creates an idle bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// Searching marks a query as in flight.
func (b *Bar) Searching() {
	b.Clear()
	b.state = StateSearching
}

// ShowResponse reports a ranked search. A nil or insufficient response is
// reported as missing evidence.
func (b *Bar) ShowResponse(resp *domain.SearchResponse) {
	if resp == nil || resp.Insufficient || len(resp.Results) == 0 {
		reason := ""
		if resp != nil {
			reason = resp.Reason
		}
		b.ShowInsufficient(reason)
		return
	}
	b.Clear()
	b.state = StateResults
	b.hits = len(resp.Results)
	for _, r := range resp.Results {
		if r.Score > b.best {
			b.best = r.Score
		}
	}
}

// ShowMatch reports a record lookup answer.
func (b *Bar) ShowMatch(m *domain.RecordMatch) {
	if m == nil {
		b.ShowInsufficient("")
		return
	}
	b.Clear()
	b.state = StateMatch
	b.detail = fmt.Sprintf("%s match (%.0f%%)", m.Method, m.Confidence*100)
	if m.Record != nil {
		b.detail = m.Record.Code + " · " + b.detail
	}
}

// ShowInsufficient reports that the corpus cannot support an answer.
func (b *Bar) ShowInsufficient(reason string) {
	b.Clear()
	b.state = StateInsufficient
	b.detail = reason
}

// ShowError reports a failed query.
func (b *Bar) ShowError(err error) {
	b.Clear()
	b.state = StateError
	if err != nil {
		b.detail = err.Error()
	}
}

// Clear returns the bar to idle.
func (b *Bar) Clear() {
	b.state = StateReady
	b.detail = ""
	b.hits = 0
	b.best = 0
}

// State returns the outcome being reported.
func (b *Bar) State() State { return b.state }

// Hits is the number of passages in the last response.
func (b *Bar) Hits() int { return b.hits }

// SetWidth sets the rendered width.
func (b *Bar) SetWidth(width int) { b.width = width }

// View renders the bar padded to its width.
func (b *Bar) View() string {
	left, right := b.outcome(), b.hints()
	gap := max(b.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) outcome() string {
	switch b.state {
	case StateSearching:
		return b.styles.Muted.Render("Searching...")
	case StateError:
		if b.detail == "" {
			return b.styles.Error.Render("Error")
		}
		return b.styles.Error.Render("Error: " + b.detail)
	case StateInsufficient:
		msg := "Insufficient evidence"
		if b.detail != "" {
			msg += ": " + b.detail
		}
		return b.styles.Warning.Render(msg)
	case StateResults:
		noun := "passages"
		if b.hits == 1 {
			noun = "passage"
		}
		return b.styles.Normal.Render(fmt.Sprintf("%d %s, best %.2f", b.hits, noun, b.best))
	case StateMatch:
		return b.styles.Success.Render(b.detail)
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) hints() string {
	bindings := b.keymap.ShortHelp()
	if b.state == StateResults {
		bindings = b.keymap.ResultsHelp()
	}

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, describe(kb))
	}
	return b.styles.Muted.Render(strings.Join(parts, " | "))
}

func describe(kb key.Binding) string {
	h := kb.Help()
	return h.Key + ": " + h.Desc
}
