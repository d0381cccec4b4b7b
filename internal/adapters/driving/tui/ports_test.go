package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error)
}

func (m *MockSearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return &domain.SearchResponse{Query: query}, nil
}

func (m *MockSearchService) Probe(
	ctx context.Context, term string, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	return m.Search(ctx, term, opts)
}

// MockRecordService implements driving.RecordService for testing.
type MockRecordService struct {
	FindFunc func(ctx context.Context, query string) (*domain.RecordMatch, error)
}

func (m *MockRecordService) GetRecord(_ context.Context, _ string) (*domain.Record, error) {
	return nil, domain.ErrNotFound
}

func (m *MockRecordService) FindRecord(ctx context.Context, query string) (*domain.RecordMatch, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, query)
	}
	return nil, domain.ErrInsufficientEvidence
}

func (m *MockRecordService) ListRecords(_ context.Context) ([]domain.Record, error) {
	return nil, nil
}

// MockSourceService implements driving.SourceService for testing.
type MockSourceService struct {
	StatsFunc func(ctx context.Context) ([]domain.SourceStats, error)
}

func (m *MockSourceService) Get(_ context.Context, _ string) (*domain.Source, error) {
	return nil, domain.ErrNotFound
}

func (m *MockSourceService) List(_ context.Context) ([]domain.Source, error) {
	return nil, nil
}

func (m *MockSourceService) Stats(ctx context.Context) ([]domain.SourceStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return nil, nil
}

func validPorts() *Ports {
	return NewPorts(&MockSearchService{}, &MockRecordService{}, &MockSourceService{})
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"all set", validPorts(), nil},
		{"missing search", &Ports{Records: &MockRecordService{}, Source: &MockSourceService{}}, ErrMissingSearchService},
		{"missing records", &Ports{Search: &MockSearchService{}, Source: &MockSourceService{}}, ErrMissingRecordService},
		{"missing source", &Ports{Search: &MockSearchService{}, Records: &MockRecordService{}}, ErrMissingSourceService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPorts_ValidateReportsAllMissing(t *testing.T) {
	err := (&Ports{}).Validate()

	assert.ErrorIs(t, err, ErrMissingSearchService)
	assert.ErrorIs(t, err, ErrMissingRecordService)
	assert.ErrorIs(t, err, ErrMissingSourceService)
}
