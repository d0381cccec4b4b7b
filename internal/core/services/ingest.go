package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Index write stages reported in IndexWriteError.
const (
	stageSource   = "source"
	stageDocument = "document"
	stageRecords  = "records"
	stageIndex    = "index"
)

// IngestService runs the write path for one or many sources.
type IngestService struct {
	sources     driven.SourceStore
	docs        driven.DocumentStore
	records     driven.RecordStore
	searchIndex driven.SearchEngine
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	segmenter   driven.Segmenter
	fetcher     driven.Fetcher
	metrics     driven.IngestMetrics

	workers int
	timeout time.Duration

	locks      *keyedMutex
	refreshing atomic.Bool

	mu     sync.Mutex
	status domain.IngestStatus
}

// NewIngestService creates a new ingest service.
// The fetcher and metrics are optional and set with SetFetcher and SetMetrics.
func NewIngestService(
	sources driven.SourceStore,
	docs driven.DocumentStore,
	records driven.RecordStore,
	searchIndex driven.SearchEngine,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	segmenter driven.Segmenter,
	cfg domain.IngestSettings,
) *IngestService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &IngestService{
		sources:     sources,
		docs:        docs,
		records:     records,
		searchIndex: searchIndex,
		normalisers: normalisers,
		pipeline:    pipeline,
		segmenter:   segmenter,
		workers:     workers,
		timeout:     cfg.Timeout,
		locks:       newKeyedMutex(),
	}
}

// SetFetcher sets the fetcher used by IngestOrigin.
func (s *IngestService) SetFetcher(f driven.Fetcher) {
	s.fetcher = f
}

// SetMetrics sets the optional metrics sink.
func (s *IngestService) SetMetrics(m driven.IngestMetrics) {
	s.metrics = m
}

// Ingest processes a payload the caller already fetched.
func (s *IngestService) Ingest(ctx context.Context, raw domain.RawDocument) domain.IngestResult {
	if raw.Origin == "" {
		return domain.IngestResult{
			Outcome: domain.OutcomeFailed,
			Err:     fmt.Errorf("%w: origin is required", domain.ErrInvalidInput),
		}
	}

	unlock := s.locks.Lock(raw.Origin)
	defer unlock()

	return s.track(raw.Origin, func() domain.IngestResult {
		return s.ingestLocked(ctx, raw)
	})
}

// IngestOrigin fetches origin and ingests it. Fetch failures are recorded
// on the source with their HTTP status.
func (s *IngestService) IngestOrigin(ctx context.Context, origin string) domain.IngestResult {
	if s.fetcher == nil {
		return domain.IngestResult{
			Origin:  origin,
			Outcome: domain.OutcomeFailed,
			Err:     fmt.Errorf("ingest %s: no fetcher configured: %w", origin, domain.ErrUnsupportedType),
		}
	}

	unlock := s.locks.Lock(origin)
	defer unlock()

	return s.track(origin, func() domain.IngestResult {
		logger.Source(origin).Debug("fetching")

		fetchCtx, cancel := s.withTimeout(ctx)
		raw, err := s.fetcher.Fetch(fetchCtx, origin)
		cancel()
		if err != nil {
			status := 0
			var fe *domain.FetchError
			if errors.As(err, &fe) {
				status = fe.Status
			} else if errors.Is(err, context.DeadlineExceeded) {
				err = &domain.FetchError{Origin: origin, Err: err}
			}
			return s.fail(ctx, origin, status, err)
		}

		raw.Origin = origin
		return s.ingestLocked(ctx, *raw)
	})
}

// IngestBatch ingests origins with at most ingest.workers in flight.
// Results keep input order; per-source failures never abort the batch.
func (s *IngestService) IngestBatch(ctx context.Context, origins []string) []domain.IngestResult {
	logger.Section("Batch Ingest")
	logger.Info("Ingesting %d origins with %d workers", len(origins), s.workers)

	results := make([]domain.IngestResult, len(origins))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, origin := range origins {
		if err := ctx.Err(); err != nil {
			results[i] = domain.IngestResult{Origin: origin, Outcome: domain.OutcomeFailed, Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = s.IngestOrigin(ctx, origin)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// RefreshAll re-ingests every registered origin the fetcher can reach.
// Only one refresh runs at a time.
func (s *IngestService) RefreshAll(ctx context.Context) ([]domain.IngestResult, error) {
	if !s.refreshing.CompareAndSwap(false, true) {
		return nil, domain.ErrIngestInProgress
	}
	defer s.refreshing.Store(false)

	sources, err := s.sources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	supports, canCheck := s.fetcher.(interface{ Supports(string) bool })
	origins := make([]string, 0, len(sources))
	for _, src := range sources {
		if canCheck && !supports.Supports(src.Origin) {
			logger.Debug("Skipping refresh of %s: no fetcher for its scheme", src.Origin)
			continue
		}
		origins = append(origins, src.Origin)
	}

	return s.IngestBatch(ctx, origins), nil
}

// Status returns a snapshot of the ingestion counters.
func (s *IngestService) Status() domain.IngestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ==================== Pipeline ====================

// ingestLocked runs the pipeline for one source. The caller holds the
// source's lock.
//
//nolint:gocyclo // Sequential pipeline steps
func (s *IngestService) ingestLocked(ctx context.Context, raw domain.RawDocument) domain.IngestResult {
	origin := raw.Origin
	sourceID := SourceID(origin)
	result := domain.IngestResult{Origin: origin, SourceID: sourceID}
	log := logger.Source(origin)
	defer logger.Timer("ingest %s", origin)()

	hash := ContentHash(raw.Content)
	changed, err := s.sources.HasChanged(ctx, origin, hash)
	if err != nil {
		return s.fail(ctx, origin, raw.HTTPStatus, &domain.IndexWriteError{SourceID: sourceID, Stage: stageSource, Err: err})
	}
	if !changed {
		log.Debug("content unchanged, skipping")
		if err := s.sources.Touch(ctx, origin); err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Warn("failed to touch source: %v", err)
		}
		result.Outcome = domain.OutcomeSkipped
		return result
	}

	// Normalising is the step that parses untrusted payloads, so it gets
	// the same bound as a fetch.
	normCtx, cancel := s.withTimeout(ctx)
	norm, err := s.normalise(normCtx, &raw)
	cancel()
	if err != nil {
		return s.fail(ctx, origin, raw.HTTPStatus, err)
	}

	doc := norm.Document
	doc.ID = DocumentID(origin)
	doc.SourceID = sourceID
	doc.Origin = origin
	if doc.Title == "" {
		doc.Title = origin
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return s.fail(ctx, origin, raw.HTTPStatus, fmt.Errorf("chunk %s: %w", origin, err))
	}

	records, err := s.segmenter.Segment(&doc)
	var warning *domain.SegmentationWarning
	switch {
	case errors.As(err, &warning):
		log.Warn("%v", warning)
		result.Warnings = append(result.Warnings, warning)
	case err != nil:
		return s.fail(ctx, origin, raw.HTTPStatus, fmt.Errorf("segment %s: %w", origin, err))
	}
	log.Debug("%d chunks, %d records", len(chunks), len(records))

	if err := s.docs.ReplaceDocument(ctx, &doc, chunks); err != nil {
		return s.fail(ctx, origin, raw.HTTPStatus, &domain.IndexWriteError{SourceID: sourceID, Stage: stageDocument, Err: err})
	}
	if err := s.records.ReplaceForSource(ctx, sourceID, records); err != nil {
		return s.fail(ctx, origin, raw.HTTPStatus, &domain.IndexWriteError{SourceID: sourceID, Stage: stageRecords, Err: err})
	}

	entries := chunkEntries(chunks)
	recEntries := recordEntries(records)
	entries = append(entries, recEntries...)
	if err := s.searchIndex.Index(ctx, sourceID, entries); err != nil {
		return s.fail(ctx, origin, raw.HTTPStatus, &domain.IndexWriteError{SourceID: sourceID, Stage: stageIndex, Err: err})
	}

	// The hash is written last: a crash before this point leaves the old
	// hash (or none) and the next pass redoes the work.
	_, err = s.sources.Register(ctx, domain.Source{
		ID:          sourceID,
		Origin:      origin,
		Title:       doc.Title,
		Status:      domain.SourceStatusFetched,
		HTTPStatus:  raw.HTTPStatus,
		ContentHash: hash,
		FetchedAt:   time.Now().UTC(),
	})
	if err != nil {
		return s.fail(ctx, origin, raw.HTTPStatus, &domain.IndexWriteError{SourceID: sourceID, Stage: stageSource, Err: err})
	}

	result.Outcome = domain.OutcomeIndexed
	result.ChunksIndexed = len(chunks)
	result.RecordsIndexed = len(recEntries)
	if s.metrics != nil {
		s.metrics.AddChunks(result.ChunksIndexed)
		s.metrics.AddRecords(result.RecordsIndexed)
	}
	log.Info("indexed %d chunks, %d records", result.ChunksIndexed, result.RecordsIndexed)
	return result
}

// normalise runs the registry and gives up when ctx expires, even if the
// normaliser itself ignores ctx.
func (s *IngestService) normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	type outcome struct {
		res *driven.NormaliseResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.normalisers.Normalise(ctx, raw)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, fmt.Errorf("normalise %s: %w", raw.Origin, o.err)
		}
		return o.res, nil
	case <-ctx.Done():
		return nil, &domain.ExtractionError{Origin: raw.Origin, Cause: "parsing timed out", Err: ctx.Err()}
	}
}

// fail records err against the source and returns a failed result.
// The source keeps an empty hash so the next pass reprocesses it.
func (s *IngestService) fail(ctx context.Context, origin string, httpStatus int, err error) domain.IngestResult {
	sourceID := SourceID(origin)
	log := logger.Source(origin)
	log.Warn("ingest failed: %v", err)

	_, regErr := s.sources.Register(context.WithoutCancel(ctx), domain.Source{
		ID:         sourceID,
		Origin:     origin,
		Status:     domain.SourceStatusError,
		HTTPStatus: httpStatus,
		LastError:  err.Error(),
		FetchedAt:  time.Now().UTC(),
	})
	if regErr != nil {
		log.Error("failed to record error: %v", regErr)
		err = errors.Join(err, regErr)
	}

	return domain.IngestResult{
		Origin:   origin,
		SourceID: sourceID,
		Outcome:  domain.OutcomeFailed,
		Err:      err,
	}
}

func (s *IngestService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// track maintains the status counters and metrics around one ingest.
func (s *IngestService) track(origin string, fn func() domain.IngestResult) domain.IngestResult {
	s.mu.Lock()
	s.status.Running++
	s.mu.Unlock()

	start := time.Now()
	result := fn()
	result.Duration = time.Since(start)
	if result.Origin == "" {
		result.Origin = origin
	}

	s.mu.Lock()
	s.status.Running--
	s.status.LastRun = time.Now()
	switch result.Outcome {
	case domain.OutcomeIndexed:
		s.status.Processed++
	case domain.OutcomeSkipped:
		s.status.Skipped++
	case domain.OutcomeFailed:
		s.status.Failed++
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveIngest(result.Outcome, result.Duration)
	}
	return result
}
