package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

var sourcesJSON bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List ingested sources",
	Long: `Lists every registered source with its fetch status, HTTP status,
content hash, chunk and record counts, and the last error if any.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	stats, err := sourceService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	if sourcesJSON {
		return printJSON(cmd, stats)
	}
	if len(stats) == 0 {
		cmd.Println("No sources ingested.")
		return nil
	}

	s := outputStyles(cmd)
	for i := range stats {
		src := &stats[i].Source
		status := s.Success.Render(string(src.Status))
		if src.Status == domain.SourceStatusError {
			status = s.Error.Render(string(src.Status))
		}

		title := src.Title
		if title == "" {
			title = src.Origin
		}
		cmd.Printf("%s  %s\n", status, s.Title.Render(title))
		cmd.Printf("    origin:  %s\n", src.Origin)
		cmd.Printf("    id:      %s\n", src.ID)
		if src.HTTPStatus != 0 {
			cmd.Printf("    http:    %d\n", src.HTTPStatus)
		}
		if src.ContentHash != "" {
			cmd.Printf("    hash:    %s\n", shortHash(src.ContentHash))
		}
		cmd.Printf("    indexed: %d chunks, %d records\n", stats[i].Chunks, stats[i].Records)
		if !src.FetchedAt.IsZero() {
			cmd.Printf("    fetched: %s\n", src.FetchedAt.Format("2006-01-02 15:04"))
		}
		if src.LastError != "" {
			cmd.Printf("    error:   %s\n", s.Error.Render(src.LastError))
		}
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
