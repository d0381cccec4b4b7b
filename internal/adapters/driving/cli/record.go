package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

var recordJSON bool

var recordCmd = &cobra.Command{
	Use:   "record [code|description]",
	Short: "Look up a record by code or description",
	Long: `Resolves an exact record code such as 596-70, or a free-text
description of the infraction, to the best matching record.

Lookup order: exact code, then title/body similarity, then the single
best sentence in the corpus. Nothing is invented when no candidate is
close enough.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecord,
}

var recordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored record",
	Args:  cobra.NoArgs,
	RunE:  runRecordList,
}

func init() {
	recordCmd.Flags().BoolVar(&recordJSON, "json", false, "output as JSON")
	recordCmd.AddCommand(recordListCmd)
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	query := strings.Join(args, " ")
	match, err := recordService.FindRecord(cmd.Context(), query)
	if errors.Is(err, domain.ErrInsufficientEvidence) {
		if recordJSON {
			return printJSON(cmd, map[string]any{"found": false, "query": query})
		}
		printInsufficient(cmd, outputStyles(cmd), "no record matches "+query)
		return nil
	}
	if err != nil {
		return fmt.Errorf("record lookup failed: %w", err)
	}

	if recordJSON {
		return printJSON(cmd, match)
	}
	printMatch(cmd, outputStyles(cmd), match)
	return nil
}

func runRecordList(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	records, err := recordService.ListRecords(cmd.Context())
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}
	if recordJSON {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No records stored.")
		return nil
	}

	s := outputStyles(cmd)
	for i := range records {
		cmd.Printf("%s  %s\n", s.Code.Render(fmt.Sprintf("%-8s", records[i].Code)), records[i].Title)
	}
	return nil
}

func printMatch(cmd *cobra.Command, s *styles.Styles, m *domain.RecordMatch) {
	if m.Record == nil {
		cmd.Println(s.Subtitle.Render("Best matching sentence"))
		cmd.Printf("  %s\n", m.Sentence)
		if m.SourceOrigin != "" {
			cmd.Printf("  %s\n", s.Citation.Render(m.SourceOrigin))
		}
		cmd.Printf("  %s\n", s.Muted.Render(fmt.Sprintf("%s match, confidence %.2f", m.Method, m.Confidence)))
		return
	}

	rec := m.Record
	cmd.Printf("%s  %s\n", s.Code.Render(rec.Code), s.Title.Render(rec.Title))

	for _, name := range rec.FieldNames() {
		value := rec.Fields[name]
		if name == domain.FieldSeverity {
			value = s.Severity(value).Render(value)
		}
		cmd.Printf("  %-14s %s\n", name+":", value)
	}
	if rec.Body != "" {
		cmd.Println()
		cmd.Printf("  %s\n", oneLine(rec.Body))
	}
	if m.SourceOrigin != "" {
		cmd.Printf("\n  %s\n", s.Citation.Render(m.SourceOrigin))
	}
	cmd.Printf("  %s\n", s.Muted.Render(fmt.Sprintf("%s match, confidence %.2f", m.Method, m.Confidence)))
}
