package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

var (
	searchLimit  int
	searchOffset int
	searchJSON   bool
	searchSource []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Ranks passages and records by lexical relevance to the query.

Each result is cited with its origin and offset. When no passage supports
the query the command reports insufficient evidence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVar(&searchSource, "source", nil, "restrict to source IDs")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := strings.Join(args, " ")
	opts := domain.SearchOptions{
		Limit:     searchLimit,
		Offset:    searchOffset,
		SourceIDs: searchSource,
	}

	resp, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, resp)
	}
	return outputSearch(cmd, resp, searchOffset)
}

func outputSearch(cmd *cobra.Command, resp *domain.SearchResponse, offset int) error {
	s := outputStyles(cmd)
	if resp.Insufficient || len(resp.Results) == 0 {
		printInsufficient(cmd, s, resp.Reason)
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	printResults(cmd, s, resp.Results, offset)
	return nil
}
