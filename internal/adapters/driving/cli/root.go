// Package cli provides the babix command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
	"github.com/Mg12345-web/IA-Babix/internal/core/services"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// skipBootstrap marks commands that run without the service graph.
const skipBootstrap = "babix/skip-bootstrap"

// SettingsService reads and writes configuration keys.
type SettingsService interface {
	Get() domain.Settings
	Set(key, value string) error
	Keys() []string
	Path() string
}

// FolderWatcher re-ingests files under a directory as they change.
type FolderWatcher interface {
	OnResult(fn func(domain.IngestResult))
	Run(ctx context.Context, root string) error
}

// Services is the service graph the commands run against.
type Services struct {
	Search    driving.SearchService
	Records   driving.RecordService
	Sources   driving.SourceService
	Ingest    driving.IngestService
	Settings  SettingsService
	Scheduler driving.Scheduler
	Lister    driven.Lister
	Watcher   FolderWatcher

	// Reindex rebuilds the search index from stored chunks and records.
	Reindex func(ctx context.Context) (int, error)

	// Metrics serves ingestion metrics; nil disables --metrics-addr.
	Metrics http.Handler

	// Close releases stores and the index.
	Close func() error
}

// BootstrapFunc builds the service graph for a data directory.
type BootstrapFunc func(ctx context.Context, home string) (*Services, error)

var (
	version = "dev"

	verbose bool
	homeDir string

	bootstrap BootstrapFunc
	closeFn   func() error

	searchService   driving.SearchService
	recordService   driving.RecordService
	sourceService   driving.SourceService
	ingestService   driving.IngestService
	settingsService SettingsService
	scheduler       driving.Scheduler
	lister          driven.Lister
	folderWatcher   FolderWatcher
	reindexFunc     func(ctx context.Context) (int, error)
	metricsHandler  http.Handler
)

var rootCmd = &cobra.Command{
	Use:   "babix",
	Short: "Grounded search over your documents",
	Long: `Babix ingests PDFs, web pages and text files, segments them into
passages and code-keyed records, and answers questions only with text it
can cite.

Every answer carries its source. When nothing in the corpus supports a
query, babix says so instead of guessing.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "data directory (default $BABIX_HOME or ~/.babix)")
}

// SetVersion sets the version reported by `babix version`.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services on first use.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs an already built service graph.
func SetServices(s *Services) {
	searchService = s.Search
	recordService = s.Records
	sourceService = s.Sources
	ingestService = s.Ingest
	settingsService = s.Settings
	scheduler = s.Scheduler
	lister = s.Lister
	folderWatcher = s.Watcher
	reindexFunc = s.Reindex
	metricsHandler = s.Metrics
	closeFn = s.Close
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, cancelled on shutdown.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ResolveHome returns the data directory: flag, then $BABIX_HOME, then ~/.babix.
func ResolveHome(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(services.EnvHome); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".babix"), nil
}

func setup(cmd *cobra.Command, _ []string) error {
	if !verbose {
		if v, err := strconv.ParseBool(os.Getenv(services.EnvVerbose)); err == nil {
			verbose = v
		}
	}
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if _, ok := cmd.Annotations[skipBootstrap]; ok {
		return nil
	}
	if bootstrap == nil || searchService != nil {
		return nil
	}

	home, err := ResolveHome(homeDir)
	if err != nil {
		return err
	}
	loadEnv(home)

	svc, err := bootstrap(cmd.Context(), home)
	if err != nil {
		return fmt.Errorf("start babix: %w", err)
	}
	SetServices(svc)
	return nil
}

// loadEnv reads .env from the working directory and the data directory.
// Variables already set in the environment win.
func loadEnv(home string) {
	for _, path := range []string{".env", filepath.Join(home, ".env")} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Ignoring %s: %v", path, err)
		}
	}
	if !verbose {
		if v, err := strconv.ParseBool(os.Getenv(services.EnvVerbose)); err == nil && v {
			verbose = true
			logger.SetVerbose(true)
		}
	}
}

func teardown() error {
	if closeFn == nil {
		return nil
	}
	fn := closeFn
	closeFn = nil
	if err := fn(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
