package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

var watchMetricsAddr string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest files as they appear or change",
	Long: `Watches a directory tree and ingests new or modified files. Bursts of
events for the same file collapse into one follow-up pass. Deleted files
keep their indexed content.

When scheduler.enabled is set, registered sources are also refreshed
periodically while the watcher runs.

Use --metrics-addr to expose Prometheus metrics, e.g. --metrics-addr :9090.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve /metrics on this address")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if folderWatcher == nil {
		return errors.New("watch service not configured")
	}

	s := outputStyles(cmd)
	folderWatcher.OnResult(func(r domain.IngestResult) {
		printIngestResult(cmd, s, &r)
	})

	cmd.Printf("Watching %s (ctrl+c to stop)\n", args[0])
	return foreground(cmd.Context(), watchMetricsAddr, func(ctx context.Context) error {
		return folderWatcher.Run(ctx, args[0])
	})
}
