package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document // keyed by source ID
	chunks    map[string][]domain.Chunk  // keyed by source ID, position order
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// ReplaceDocument swaps the document of doc.SourceID and its chunks.
func (s *DocumentStore) ReplaceDocument(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" || doc.SourceID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *doc
	if prev, ok := s.documents[doc.SourceID]; ok && stored.CreatedAt.IsZero() {
		stored.CreatedAt = prev.CreatedAt
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	doc.CreatedAt, doc.UpdatedAt = stored.CreatedAt, stored.UpdatedAt

	copied := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		c.DocumentID = doc.ID
		c.SourceID = doc.SourceID
		copied[i] = c
	}
	sort.SliceStable(copied, func(i, j int) bool { return copied[i].Position < copied[j].Position })

	s.documents[doc.SourceID] = stored
	s.chunks[doc.SourceID] = copied
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.documents {
		if doc.ID == id {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, chunks := range s.chunks {
		for _, c := range chunks {
			if c.ID == id {
				return &c, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunks retrieves all chunks of a source ordered by position.
func (s *DocumentStore) GetChunks(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Chunk(nil), s.chunks[sourceID]...), nil
}

// CountChunks returns the number of chunks stored for a source.
func (s *DocumentStore) CountChunks(_ context.Context, sourceID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chunks[sourceID]), nil
}

// ScanChunks calls fn for every chunk in source and position order.
// fn runs on a snapshot, so it may call back into the store.
func (s *DocumentStore) ScanChunks(ctx context.Context, fn func(domain.Chunk) bool) error {
	s.mu.RLock()
	sourceIDs := make([]string, 0, len(s.chunks))
	for id := range s.chunks {
		sourceIDs = append(sourceIDs, id)
	}
	sort.Strings(sourceIDs)
	var snapshot []domain.Chunk
	for _, id := range sourceIDs {
		snapshot = append(snapshot, s.chunks[id]...)
	}
	s.mu.RUnlock()

	for _, c := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn(c) {
			return nil
		}
	}
	return nil
}
