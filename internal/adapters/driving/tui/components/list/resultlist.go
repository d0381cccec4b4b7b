// Package list renders ranked passages with their citations.
package list

import (
	"fmt"
	"strings"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// linesPerResult is heading, citation and snippet.
const linesPerResult = 3

// ResultList is a scrolling cursor over a search response.
type ResultList struct {
	styles   *styles.Styles
	results  []domain.SearchResult
	selected int
	width    int
	height   int
}

// NewResultList creates an empty list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 10}
}

// SetResults replaces the list and moves the cursor to the top.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// Results returns the listed passages.
func (r *ResultList) Results() []domain.SearchResult { return r.results }

// Selected returns the cursor index.
func (r *ResultList) Selected() int { return r.selected }

// SelectedResult returns the passage under the cursor, or nil.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves the cursor up, stopping at the first passage.
func (r *ResultList) MoveUp() { r.selected = max(r.selected-1, 0) }

// MoveDown moves the cursor down, stopping at the last passage.
func (r *ResultList) MoveDown() { r.selected = max(min(r.selected+1, len(r.results)-1), 0) }

// SetDimensions sets the area the list may draw in.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// View renders the window of passages around the cursor.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := []string{r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results))), ""}
	start, end := r.window()
	for i := start; i < end; i++ {
		lines = append(lines, r.render(i))
	}
	if end < len(r.results) {
		lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("  … %d more", len(r.results)-end)))
	}
	return strings.Join(lines, "\n")
}

// window keeps the cursor on screen.
func (r *ResultList) window() (start, end int) {
	visible := max((r.height-4)/linesPerResult, 1)
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	return start, min(start+visible, len(r.results))
}

func (r *ResultList) render(i int) string {
	res := &r.results[i]
	width := max(r.width-20, 10)
	heading := fmt.Sprintf("%2d. %-*s", i+1, width, truncate(res.Heading(), width))
	score := fmt.Sprintf("%.2f", res.Score)

	var line string
	if i == r.selected {
		line = r.styles.Selected.Render("> " + heading + "  " + score)
	} else {
		line = r.styles.Normal.Render("  "+heading+"  ") + r.styles.Muted.Render(score)
	}

	body := max(r.width-8, 20)
	return line + "\n" +
		r.styles.Citation.Render("      "+truncate(res.Citation(), body)) + "\n" +
		r.styles.Muted.Render("      "+truncate(res.Snippet, body))
}

// truncate shortens s to n runes with a trailing ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
