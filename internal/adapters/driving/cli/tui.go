package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Opens a full-screen interface for asking questions and looking up fichas.

  ↑/k ↓/j   move through results
  Tab       switch between passage search and record lookup
  Enter     search or select
  n         new query
  r         reload the source list
  Esc       back
  ctrl+c    quit

Scheduled refresh runs in the background when scheduler.enabled is set.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(searchService, recordService, sourceService))
	if err != nil {
		return fmt.Errorf("starting TUI: %w", err)
	}

	// bubbletea restores the terminal on panic; keep the trace readable.
	defer func() {
		if r := recover(); r != nil {
			cmd.PrintErrf("TUI crashed: %v\n%s\n", r, debug.Stack())
			err = fmt.Errorf("TUI crashed: %v", r)
		}
	}()

	return foreground(cmd.Context(), "", func(ctx context.Context) error {
		if err := app.WithContext(ctx).Run(); err != nil {
			return fmt.Errorf("TUI: %w", err)
		}
		return nil
	})
}
