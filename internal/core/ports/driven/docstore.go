package driven

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// DocumentStore persists documents and chunks.
type DocumentStore interface {
	// ReplaceDocument deletes the previous document of doc.SourceID with its
	// chunks and writes doc and chunks in a single transaction.
	ReplaceDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks of a source ordered by position.
	GetChunks(ctx context.Context, sourceID string) ([]domain.Chunk, error)

	// CountChunks returns the number of chunks stored for a source.
	CountChunks(ctx context.Context, sourceID string) (int, error)

	// ScanChunks calls fn for every chunk in source and position order.
	// Iteration stops early when fn returns false.
	ScanChunks(ctx context.Context, fn func(domain.Chunk) bool) error
}

// RecordStore persists segmented records keyed by code.
type RecordStore interface {
	// ReplaceForSource removes the records of sourceID and writes records in
	// order. A later record with the same code overwrites an earlier one,
	// including records owned by other sources.
	ReplaceForSource(ctx context.Context, sourceID string, records []domain.Record) error

	// Get retrieves a record by code.
	Get(ctx context.Context, code string) (*domain.Record, error)

	// List returns every record ordered by code.
	List(ctx context.Context) ([]domain.Record, error)

	// CountForSource returns the number of records owned by a source.
	CountForSource(ctx context.Context, sourceID string) (int, error)
}
