package mcp

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	resp     *domain.SearchResponse
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.resp == nil {
		return &domain.SearchResponse{Query: query, Insufficient: true, Reason: "no matches"}, nil
	}
	return m.resp, nil
}

func (m *mockSearchService) Probe(
	ctx context.Context,
	term string,
	opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	return m.Search(ctx, term, opts)
}

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	records map[string]*domain.Record
	match   *domain.RecordMatch
	err     error
}

func (m *mockRecordService) GetRecord(_ context.Context, code string) (*domain.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (m *mockRecordService) FindRecord(_ context.Context, _ string) (*domain.RecordMatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.match == nil {
		return nil, domain.ErrInsufficientEvidence
	}
	return m.match, nil
}

func (m *mockRecordService) ListRecords(_ context.Context) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, m.err
}

// mockSourceService is a mock implementation of driving.SourceService.
type mockSourceService struct {
	stats []domain.SourceStats
	err   error
}

func (m *mockSourceService) Get(_ context.Context, id string) (*domain.Source, error) {
	for i := range m.stats {
		if m.stats[i].Source.ID == id {
			return &m.stats[i].Source, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSourceService) List(_ context.Context) ([]domain.Source, error) {
	out := make([]domain.Source, len(m.stats))
	for i := range m.stats {
		out[i] = m.stats[i].Source
	}
	return out, m.err
}

func (m *mockSourceService) Stats(_ context.Context) ([]domain.SourceStats, error) {
	return m.stats, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	results []domain.IngestResult
	origins []string
}

func (m *mockIngestService) Ingest(_ context.Context, raw domain.RawDocument) domain.IngestResult {
	return domain.IngestResult{Origin: raw.Origin, Outcome: domain.OutcomeIndexed}
}

func (m *mockIngestService) IngestOrigin(_ context.Context, origin string) domain.IngestResult {
	return domain.IngestResult{Origin: origin, Outcome: domain.OutcomeIndexed}
}

func (m *mockIngestService) IngestBatch(_ context.Context, origins []string) []domain.IngestResult {
	m.origins = origins
	return m.results
}

func (m *mockIngestService) RefreshAll(_ context.Context) ([]domain.IngestResult, error) {
	return m.results, nil
}

func (m *mockIngestService) Status() domain.IngestStatus {
	return domain.IngestStatus{}
}
