package driving

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// SearchService provides retrieval to external actors.
type SearchService interface {
	// Search runs ranked lexical search over chunks and records.
	// An empty or low-confidence result is reported through
	// SearchResponse.Insufficient rather than as an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error)

	// Probe returns every chunk containing term as a literal,
	// case- and accent-insensitive substring, capped per source.
	Probe(ctx context.Context, term string, opts domain.SearchOptions) (*domain.SearchResponse, error)
}

// RecordService answers record lookups.
type RecordService interface {
	// GetRecord returns the record with exactly this code, or domain.ErrNotFound.
	GetRecord(ctx context.Context, code string) (*domain.Record, error)

	// FindRecord resolves a code or free-text query to the best record.
	// Returns domain.ErrInsufficientEvidence when nothing is confident enough.
	FindRecord(ctx context.Context, query string) (*domain.RecordMatch, error)

	// ListRecords returns every stored record ordered by code.
	ListRecords(ctx context.Context) ([]domain.Record, error)
}
