package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

var (
	probePerSource int
	probeJSON      bool
)

var probeCmd = &cobra.Command{
	Use:   "probe [term]",
	Short: "Find every passage containing a literal term",
	Long: `Lists passages that contain the term as a case- and accent-insensitive
substring, at most --per-source matches per source. Unlike search, probe
does not rank: it answers "where does this phrase appear?".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().IntVar(&probePerSource, "per-source", 0, "matches per source (0 = configured default)")
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	term := strings.Join(args, " ")
	resp, err := searchService.Probe(cmd.Context(), term, domain.SearchOptions{PerSource: probePerSource})
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	if probeJSON {
		return printJSON(cmd, resp)
	}

	s := outputStyles(cmd)
	if resp.Insufficient || len(resp.Results) == 0 {
		printInsufficient(cmd, s, resp.Reason)
		return nil
	}
	cmd.Printf("%d passages contain %q:\n\n", len(resp.Results), term)
	printResults(cmd, s, resp.Results, 0)
	return nil
}
