// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/messages"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
)

const (
	searchPlaceholder = "Pergunte sobre o texto legal..."
	recordPlaceholder = "Código (596-70) ou descrição da infração..."
)

// QueryInput wraps a bubbles textinput with a mode badge.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	mode      messages.Mode
	width     int
}

// NewQueryInput creates a new query input in search mode.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = searchPlaceholder
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		mode:      messages.ModeSearch,
		width:     50,
	}
}

// Init initialises the input.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input with its mode badge.
func (q *QueryInput) View() string {
	badge := q.styles.Mode.Render(q.mode.String())
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, badge, " ", field)
}

// Mode returns the current mode.
func (q *QueryInput) Mode() messages.Mode {
	return q.mode
}

// SetMode switches the mode and its placeholder.
func (q *QueryInput) SetMode(mode messages.Mode) {
	q.mode = mode
	if mode == messages.ModeRecord {
		q.textinput.Placeholder = recordPlaceholder
	} else {
		q.textinput.Placeholder = searchPlaceholder
	}
}

// ToggleMode flips between search and record mode.
func (q *QueryInput) ToggleMode() {
	q.SetMode(q.mode.Toggle())
}

// Placeholder returns the current placeholder text.
func (q *QueryInput) Placeholder() string {
	return q.textinput.Placeholder
}

// Value returns the current input value.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	// Account for the badge and padding
	inputWidth := width - 16
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QueryInput) Reset() {
	q.textinput.Reset()
}
