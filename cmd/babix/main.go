// Command babix is a grounded document search and record lookup tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driven/config/file"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driven/config/patterns"
	bleveindex "github.com/Mg12345-web/IA-Babix/internal/adapters/driven/index/bleve"
	memoryindex "github.com/Mg12345-web/IA-Babix/internal/adapters/driven/index/memory"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driven/metrics/prometheus"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driven/storage/sqlite"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/cli"
	"github.com/Mg12345-web/IA-Babix/internal/connectors"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/core/services"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers"
	"github.com/Mg12345-web/IA-Babix/internal/postprocessors"
	"github.com/Mg12345-web/IA-Babix/internal/segmenter"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap builds the service graph for the data directory home.
func bootstrap(ctx context.Context, home string) (*cli.Services, error) {
	logger.Section("Bootstrap")
	logger.Debug("Data directory: %s", home)

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()

	store, err := sqlite.NewStore(home)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if v, err := store.SchemaVersion(ctx); err == nil {
		logger.Debug("Opened %s at schema version %d", store.Path(), v)
	}
	sources, docs, records := store.SourceStore(), store.DocumentStore(), store.RecordStore()

	engine, err := openIndex(ctx, home, settings, docs, records)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	closeAll := func() error {
		return errors.Join(engine.Close(), store.Close())
	}

	seg, err := newSegmenter(settings.Segmenter)
	if err != nil {
		return nil, errors.Join(err, closeAll())
	}

	normaliserRegistry := normalisers.NewRegistry(normalisers.WithWhitespace(settings.Ingest.Whitespace))
	normalisers.RegisterDefaults(normaliserRegistry)

	processorRegistry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processorRegistry)
	pipeline, err := postprocessors.BuildPipeline(processorRegistry, settings.PipelineConfig())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("build pipeline: %w", err), closeAll())
	}

	router := connectors.NewDefaultRouter(ctx, settings)

	ingest := services.NewIngestService(
		sources, docs, records, engine,
		normaliserRegistry, pipeline, seg, settings.Ingest,
	)
	ingest.SetFetcher(router)
	metrics := prometheus.New()
	ingest.SetMetrics(metrics)

	search := services.NewSearchService(docs, records, sources, engine, settings.Retrieval, settings.Index.MinTokenLength)
	recordService := services.NewRecordService(
		records, docs, sources, engine,
		settings.Retrieval.SimilarityThreshold, settings.Index.MinTokenLength,
	)
	recordService.SetCodePattern(seg.QueryPattern())

	return &cli.Services{
		Search:    search,
		Records:   recordService,
		Sources:   services.NewSourceService(sources, docs, records),
		Ingest:    ingest,
		Settings:  settingsService,
		Scheduler: services.NewScheduler(settings.Scheduler, store.SchedulerStore(), ingest),
		Lister:    router,
		Watcher:   services.NewWatchService(router, ingest),
		Reindex: func(ctx context.Context) (int, error) {
			return services.RebuildIndex(ctx, docs, records, engine)
		},
		Metrics: metrics.Handler(),
		Close:   closeAll,
	}, nil
}

// openIndex opens the configured engine. The memory engine starts empty
// and is rebuilt from the stores.
func openIndex(
	ctx context.Context,
	home string,
	settings domain.Settings,
	docs driven.DocumentStore,
	records driven.RecordStore,
) (driven.SearchEngine, error) {
	if settings.Index.Engine == domain.IndexEngineBleve {
		engine, err := bleveindex.New(filepath.Join(home, bleveindex.IndexDir), settings.Index.MinTokenLength)
		if err != nil {
			return nil, fmt.Errorf("open bleve index: %w", err)
		}
		return engine, nil
	}

	engine := memoryindex.New(
		memoryindex.WithScoring(settings.Index.Scoring),
		memoryindex.WithMinTokenLength(settings.Index.MinTokenLength),
	)
	n, err := services.RebuildIndex(ctx, docs, records, engine)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	logger.Debug("Loaded %d index entries", n)
	return engine, nil
}

func newSegmenter(cfg domain.SegmenterSettings) (*segmenter.Segmenter, error) {
	set, err := patterns.Load(cfg.PatternsFile, cfg.PatternSet)
	if err != nil {
		return nil, fmt.Errorf("load pattern set: %w", err)
	}
	set.Expected = append(set.Expected, cfg.ExpectedHints...)
	seg, err := segmenter.New(set)
	if err != nil {
		return nil, fmt.Errorf("compile pattern set %s: %w", set.Name, err)
	}
	return seg, nil
}
