package analysis

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis markers added when a snippet window is cut from its text.
const (
	LeadingEllipsis  = "… "
	TrailingEllipsis = " …"
)

// DefaultSnippetRadius is the number of runes kept on each side of a match.
const DefaultSnippetRadius = 150

// Snippet returns a window of radius runes around the first occurrence of
// term in text. When term does not occur, the first 2*radius runes are
// returned instead. Markers are added only on the sides where the window
// was truncated, and a snippet is never longer than the text itself.
// Runs of whitespace are collapsed to single spaces.
func Snippet(text, term string, radius int) string {
	if radius <= 0 {
		radius = DefaultSnippetRadius
	}

	start, end := -1, -1
	if term != "" {
		start, end = IndexFold(text, term)
	}

	var from, to int
	if start < 0 {
		from = 0
		to = advanceRunes(text, 0, 2*radius)
	} else {
		from = retreatRunes(text, start, radius)
		to = advanceRunes(text, end, radius)
	}

	window := collapseSpaces(text[from:to])
	if from > 0 {
		window = LeadingEllipsis + window
	}
	if to < len(text) {
		window += TrailingEllipsis
	}
	if whole := collapseSpaces(text); utf8.RuneCountInString(window) >= utf8.RuneCountInString(whole) {
		return whole
	}
	return window
}

// advanceRunes returns the byte offset n runes after i, clamped to len(s).
func advanceRunes(s string, i, n int) int {
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return i
}

// retreatRunes returns the byte offset n runes before i, clamped to 0.
func retreatRunes(s string, i, n int) int {
	for n > 0 && i > 0 {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
		n--
	}
	return i
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
