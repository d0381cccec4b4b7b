package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

var (
	ingestDirs  []string
	ingestMIME  string
	ingestStdin string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [origins...]",
	Short: "Ingest documents into the index",
	Long: `Fetches, normalises, chunks, segments and indexes each origin.

Origins may be local paths, file:// or http(s) URLs, github://owner/repo/path
or gdrive://<file-id>. Unchanged content is skipped. A failing origin is
reported and marked as errored without stopping the others.

Examples:
  babix ingest manual.pdf https://example.org/regras
  babix ingest --dir ./docs
  cat notas.txt | babix ingest --stdin notas`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestDirs, "dir", nil, "ingest every supported file under a directory")
	ingestCmd.Flags().StringVar(&ingestMIME, "mime", "", "override the content type of local files")
	ingestCmd.Flags().StringVar(&ingestStdin, "stdin", "", "read one document from stdin under this name")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if len(args) == 0 && len(ingestDirs) == 0 && ingestStdin == "" {
		return errors.New("nothing to ingest: pass origins, --dir or --stdin")
	}

	ctx := cmd.Context()
	results := make([]domain.IngestResult, 0, len(args))

	if ingestStdin != "" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		mime := ingestMIME
		if mime == "" {
			mime = "text/plain"
		}
		results = append(results, ingestService.Ingest(ctx, domain.RawDocument{
			Origin:   "stdin://" + ingestStdin,
			MIMEType: mime,
			Content:  content,
		}))
	}

	origins := append([]string(nil), args...)
	for _, dir := range ingestDirs {
		if lister == nil {
			return errors.New("directory listing not configured")
		}
		found, err := lister.List(ctx, dir)
		if err != nil {
			return fmt.Errorf("list %s: %w", dir, err)
		}
		if len(found) == 0 {
			cmd.Printf("No supported files under %s\n", dir)
		}
		origins = append(origins, found...)
	}

	if ingestMIME != "" {
		for _, origin := range origins {
			results = append(results, ingestWithMIME(cmd, origin, ingestMIME))
		}
	} else if len(origins) > 0 {
		results = append(results, ingestService.IngestBatch(ctx, origins)...)
	}

	return reportIngest(cmd, results)
}

// ingestWithMIME reads a local file and ingests it with a forced content type.
func ingestWithMIME(cmd *cobra.Command, origin, mime string) domain.IngestResult {
	content, err := os.ReadFile(strings.TrimPrefix(origin, "file://"))
	if err != nil {
		return domain.IngestResult{
			Origin:  origin,
			Outcome: domain.OutcomeFailed,
			Err:     fmt.Errorf("read %s: %w", origin, err),
		}
	}
	return ingestService.Ingest(cmd.Context(), domain.RawDocument{
		Origin:   origin,
		MIMEType: mime,
		Content:  content,
	})
}

func reportIngest(cmd *cobra.Command, results []domain.IngestResult) error {
	s := outputStyles(cmd)
	var indexed, skipped, failed int
	for i := range results {
		printIngestResult(cmd, s, &results[i])
		switch results[i].Outcome {
		case domain.OutcomeFailed:
			failed++
		case domain.OutcomeSkipped:
			skipped++
		default:
			indexed++
		}
	}

	cmd.Println()
	cmd.Printf("%d indexed, %d unchanged, %d failed\n", indexed, skipped, failed)
	if failed > 0 && failed == len(results) {
		return fmt.Errorf("all %d origins failed", failed)
	}
	return nil
}
