package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// outputStyles returns coloured styles when cmd writes to a terminal.
func outputStyles(cmd *cobra.Command) *styles.Styles {
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return styles.DefaultStyles()
	}
	return styles.PlainStyles()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printInsufficient reports that the corpus does not support an answer.
func printInsufficient(cmd *cobra.Command, s *styles.Styles, reason string) {
	msg := "Insufficient evidence"
	if reason != "" {
		msg += ": " + reason
	}
	cmd.Println(s.Warning.Render(msg))
}

func printResults(cmd *cobra.Command, s *styles.Styles, results []domain.SearchResult, offset int) {
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s %s\n", offset+i+1, s.Title.Render(r.Heading()), s.Muted.Render(fmt.Sprintf("(%.2f)", r.Score)))
		cmd.Printf("      %s\n", s.Citation.Render(r.Citation()))
		if r.Snippet != "" {
			cmd.Printf("      %s\n", oneLine(r.Snippet))
		}
		cmd.Println()
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func printIngestResult(cmd *cobra.Command, s *styles.Styles, r *domain.IngestResult) {
	switch r.Outcome {
	case domain.OutcomeFailed:
		cmd.Printf("%s %s: %v\n", s.Error.Render("✗"), r.Origin, r.Err)
	case domain.OutcomeSkipped:
		cmd.Printf("%s %s unchanged\n", s.Muted.Render("="), r.Origin)
	default:
		cmd.Printf("%s %s: %d chunks, %d records (%s)\n",
			s.Success.Render("✓"), r.Origin, r.ChunksIndexed, r.RecordsIndexed, r.Duration.Round(time.Millisecond))
	}
	for _, w := range r.Warnings {
		cmd.Printf("  %s %v\n", s.Warning.Render("!"), w)
	}
}
