// Package styles holds the lipgloss styles shared by the TUI and the
// coloured CLI output.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette. Each colour has a light and a dark terminal variant.
type Theme struct {
	Accent  lipgloss.AdaptiveColor // road-sign green: titles, selection
	Amber   lipgloss.AdaptiveColor // codes, citations, mode badge
	Text    lipgloss.AdaptiveColor
	Faint   lipgloss.AdaptiveColor // snippets, hints
	Good    lipgloss.AdaptiveColor
	Caution lipgloss.AdaptiveColor // insufficient evidence, skipped sources
	Bad     lipgloss.AdaptiveColor
	Frame   lipgloss.AdaptiveColor
	Bar     lipgloss.AdaptiveColor
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// DefaultTheme follows the colours of Brazilian road signage.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  adaptive("#1B5E20", "#4CAF50"),
		Amber:   adaptive("#B26A00", "#F9A825"),
		Text:    adaptive("#212121", "#E0E0E0"),
		Faint:   adaptive("#616161", "#8A8F98"),
		Good:    adaptive("#2E7D32", "#81C784"),
		Caution: adaptive("#8D6E00", "#FFD54F"),
		Bad:     adaptive("#C62828", "#E57373"),
		Frame:   adaptive("#B0BEC5", "#455A64"),
		Bar:     adaptive("#ECEFF1", "#1C2024"),
	}
}

// Styles are the rendered roles. Views pick a role, never a colour.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	Code     lipgloss.Style // ficha codes such as 596-70
	Citation lipgloss.Style
	Mode     lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	// severity styles by the lower-cased first word of the gravidade field
	severity map[string]lipgloss.Style
}

// NewStyles derives every role from theme. A nil theme means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return &Styles{
		theme:      theme,
		Title:      fg(theme.Accent).Bold(true),
		Subtitle:   fg(theme.Amber).Bold(true),
		Normal:     fg(theme.Text),
		Muted:      fg(theme.Faint),
		Selected:   fg(theme.Text).Background(theme.Accent).Bold(true),
		Error:      fg(theme.Bad),
		Success:    fg(theme.Good),
		Warning:    fg(theme.Caution),
		Code:       fg(theme.Amber).Bold(true),
		Citation:   fg(theme.Amber).Italic(true),
		Mode:       fg(theme.Bar).Background(theme.Amber).Bold(true).Padding(0, 1),
		InputField: lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(theme.Frame).Padding(0, 1),
		StatusBar:  fg(theme.Faint).Background(theme.Bar).Padding(0, 1),
		Help:       fg(theme.Faint),
		severity: map[string]lipgloss.Style{
			"leve":       fg(theme.Good),
			"média":      fg(theme.Caution),
			"media":      fg(theme.Caution),
			"grave":      fg(theme.Bad),
			"gravíssima": fg(theme.Bad).Bold(true),
			"gravissima": fg(theme.Bad).Bold(true),
		},
	}
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// PlainStyles render text unchanged, for output that is not a terminal.
func PlainStyles() *Styles {
	p := lipgloss.NewStyle()
	return &Styles{
		theme: DefaultTheme(),
		Title: p, Subtitle: p, Normal: p, Muted: p, Selected: p,
		Error: p, Success: p, Warning: p,
		Code: p, Citation: p, Mode: p,
		InputField: p, StatusBar: p, Help: p,
	}
}

// Severity styles a gravidade value such as "Gravíssima (3X)". Unknown
// values render as Normal.
func (s *Styles) Severity(value string) lipgloss.Style {
	word, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(value)), " ")
	if st, ok := s.severity[word]; ok {
		return st
	}
	return s.Normal
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
