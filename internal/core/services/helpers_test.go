package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driven/config/patterns"
	memindex "github.com/Mg12345-web/IA-Babix/internal/adapters/driven/index/memory"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driven/storage/memory"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers"
	"github.com/Mg12345-web/IA-Babix/internal/postprocessors"
	"github.com/Mg12345-web/IA-Babix/internal/segmenter"
)

// workedExample is the two-record MBFT excerpt used across the tests.
const workedExample = "596-70 Dirigir sem linha amarela Art. 183 Gravidade: gravíssima " +
	"Penalidade: multa 601-80 Estacionar em local proibido"

// testEnv wires the core services over in-memory adapters.
type testEnv struct {
	sources *memory.SourceStore
	docs    *memory.DocumentStore
	records *memory.RecordStore
	engine  *memindex.Engine

	ingest *IngestService
	search *SearchService
	lookup *RecordService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, domain.DefaultSettings())
}

func newTestEnvWith(t *testing.T, settings domain.Settings) *testEnv {
	t.Helper()

	registry := normalisers.NewRegistry(normalisers.WithWhitespace(settings.Ingest.Whitespace))
	normalisers.RegisterDefaults(registry)

	procs := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(procs)
	pipeline, err := postprocessors.BuildPipeline(procs, settings.PipelineConfig())
	require.NoError(t, err)

	set, err := patterns.Load("", settings.Segmenter.PatternSet)
	require.NoError(t, err)
	seg, err := segmenter.New(set)
	require.NoError(t, err)

	env := &testEnv{
		sources: memory.NewSourceStore(),
		docs:    memory.NewDocumentStore(),
		records: memory.NewRecordStore(),
		engine: memindex.New(
			memindex.WithScoring(settings.Index.Scoring),
			memindex.WithMinTokenLength(settings.Index.MinTokenLength),
		),
	}
	env.ingest = NewIngestService(env.sources, env.docs, env.records, env.engine,
		registry, pipeline, seg, settings.Ingest)
	env.search = NewSearchService(env.docs, env.records, env.sources, env.engine,
		settings.Retrieval, settings.Index.MinTokenLength)
	env.lookup = NewRecordService(env.records, env.docs, env.sources, env.engine,
		settings.Retrieval.SimilarityThreshold, settings.Index.MinTokenLength)
	env.lookup.SetCodePattern(seg.QueryPattern())
	return env
}

func smallChunks() domain.Settings {
	s := domain.DefaultSettings()
	s.Chunker.Size = 8
	s.Chunker.Overlap = 2
	return s
}

func textDoc(origin, content string) domain.RawDocument {
	return domain.RawDocument{Origin: origin, MIMEType: "text/plain", Content: []byte(content)}
}

// stubFetcher serves canned payloads and errors by origin.
type stubFetcher struct {
	mu       sync.Mutex
	payloads map[string]string
	errs     map[string]error
	delay    time.Duration
	calls    map[string]int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		payloads: make(map[string]string),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *stubFetcher) Scheme() string { return "*" }

func (f *stubFetcher) Fetch(ctx context.Context, origin string) (*domain.RawDocument, error) {
	f.mu.Lock()
	f.calls[origin]++
	payload, ok := f.payloads[origin]
	err := f.errs[origin]
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.FetchError{Origin: origin, Status: 404, Err: domain.ErrNotFound}
	}
	return &domain.RawDocument{Origin: origin, MIMEType: "text/plain", Content: []byte(payload)}, nil
}

func (f *stubFetcher) Supports(origin string) bool {
	return len(origin) < 8 || origin[:8] != "stdin://"
}

func (f *stubFetcher) callCount(origin string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[origin]
}

// countingMetrics records what the ingest service reports.
type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[domain.IngestOutcome]int
	chunks   int
	records  int
}

func (m *countingMetrics) ObserveIngest(outcome domain.IngestOutcome, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[domain.IngestOutcome]int)
	}
	m.outcomes[outcome]++
}

func (m *countingMetrics) AddChunks(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks += n
}

func (m *countingMetrics) AddRecords(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records += n
}
