package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Settings live in config.toml inside the data directory. Keys use dot
notation, for example chunker.size or retrieval.similarity_threshold.`,
	RunE: runConfigShow,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised setting keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		for _, k := range settingsService.Keys() {
			cmd.Println(k)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		if err := settingsService.Set(args[0], args[1]); err != nil {
			return err
		}
		cmd.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	st := settingsService.Get()
	s := outputStyles(cmd)
	section := func(name string) {
		cmd.Println()
		cmd.Println(s.Subtitle.Render("[" + name + "]"))
	}

	cmd.Println(s.Title.Render("Current Settings"))
	cmd.Println(s.Muted.Render(settingsService.Path()))

	section("Chunker")
	cmd.Printf("  unit: %s  size: %d  overlap: %d\n", st.Chunker.Unit, st.Chunker.Size, st.Chunker.Overlap)

	section("Segmenter")
	cmd.Printf("  pattern set: %s\n", st.Segmenter.PatternSet)
	if st.Segmenter.PatternsFile != "" {
		cmd.Printf("  patterns file: %s\n", st.Segmenter.PatternsFile)
	}
	if len(st.Segmenter.ExpectedHints) > 0 {
		cmd.Printf("  expected hints: %s\n", strings.Join(st.Segmenter.ExpectedHints, ", "))
	}

	section("Index")
	cmd.Printf("  engine: %s  scoring: %s  min token length: %d\n",
		st.Index.Engine, st.Index.Scoring, st.Index.MinTokenLength)

	section("Retrieval")
	cmd.Printf("  snippet radius: %d  probe per source: %d\n", st.Retrieval.SnippetRadius, st.Retrieval.ProbePerSource)
	cmd.Printf("  min score: %g  similarity threshold: %g\n", st.Retrieval.MinScore, st.Retrieval.SimilarityThreshold)

	section("Ingest")
	cmd.Printf("  workers: %d  timeout: %s  max bytes: %d\n", st.Ingest.Workers, st.Ingest.Timeout, st.Ingest.MaxBytes)

	section("Web")
	cmd.Printf("  user agent: %s  requests/s: %g  readability: %t\n",
		st.Web.UserAgent, st.Web.RequestsPerSecond, st.Web.Readability)

	section("Scheduler")
	cmd.Printf("  enabled: %t\n", st.Scheduler.Enabled)

	cmd.Println()
	cmd.Println(s.Muted.Render(fmt.Sprintf("%d keys; see `babix config keys`", len(settingsService.Keys()))))
	return nil
}
