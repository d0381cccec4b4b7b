package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	scheduleRuns int
	scheduleJSON bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show background refresh tasks and their recent runs",
	Long: `Shows the persisted refresh schedule: when each task last ran, when it
runs next, and how many sources recent runs re-indexed, skipped or failed.
Tasks only run while "babix watch" or "babix tui" is active with
scheduler.enabled set.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().IntVarP(&scheduleRuns, "runs", "r", 5, "number of recent runs to show per task")
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	status, err := scheduler.Status(cmd.Context(), scheduleRuns)
	if err != nil {
		return fmt.Errorf("schedule status: %w", err)
	}
	if scheduleJSON {
		return printJSON(cmd, status)
	}
	if settingsService != nil && !settingsService.Get().Scheduler.Enabled {
		cmd.Println("Scheduler is disabled (set scheduler.enabled to true).")
	}
	if len(status) == 0 {
		cmd.Println("No scheduled tasks.")
		return nil
	}

	s := outputStyles(cmd)
	for _, ts := range status {
		state := s.Success.Render("enabled")
		if !ts.Task.Enabled {
			state = s.Muted.Render("disabled")
		}
		cmd.Printf("%s  %s (every %s)\n", s.Title.Render(ts.Task.ID), state, ts.Task.Interval)
		cmd.Printf("    last run: %s\n", stamp(ts.Task.LastRun))
		cmd.Printf("    next run: %s\n", stamp(ts.Task.NextRun))
		if ts.Task.LastError != "" {
			cmd.Printf("    error:    %s\n", s.Error.Render(ts.Task.LastError))
		}
		for _, run := range ts.Runs {
			mark := s.Success.Render("✓")
			if !run.Succeeded() {
				mark = s.Error.Render("✗")
			}
			cmd.Printf("    %s %s  %d indexed, %d unchanged, %d failed (%s)\n",
				mark, stamp(run.StartedAt), run.Indexed, run.Skipped, run.Failed,
				run.EndedAt.Sub(run.StartedAt).Round(time.Millisecond))
		}
	}
	return nil
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
