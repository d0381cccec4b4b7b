package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from stored passages",
	Long: `Clears the search index and re-adds every stored chunk and record.
Use it after changing index.engine or index.scoring. Nothing is fetched.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if reindexFunc == nil {
		return errors.New("index not configured")
	}

	n, err := reindexFunc(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	cmd.Printf("Reindexed %d entries.\n", n)
	return nil
}
