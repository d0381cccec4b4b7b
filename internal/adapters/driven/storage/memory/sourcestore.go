package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu       sync.RWMutex
	byOrigin map[string]domain.Source
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{byOrigin: make(map[string]domain.Source)}
}

// Register upserts a source by origin and returns its stable ID.
func (s *SourceStore) Register(_ context.Context, source domain.Source) (string, error) {
	if source.Origin == "" || source.ID == "" {
		return "", domain.ErrInvalidInput
	}
	if source.Status == "" {
		source.Status = domain.SourceStatusNew
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if source.FetchedAt.IsZero() {
		source.FetchedAt = now
	}
	source.UpdatedAt = now
	source.CreatedAt = now

	if existing, ok := s.byOrigin[source.Origin]; ok {
		source.ID = existing.ID
		source.CreatedAt = existing.CreatedAt
		if source.Title == "" {
			source.Title = existing.Title
		}
	}
	s.byOrigin[source.Origin] = source
	return source.ID, nil
}

// HasChanged reports whether hash differs from the stored content hash.
func (s *SourceStore) HasChanged(_ context.Context, origin, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.byOrigin[origin]
	if !ok || existing.ContentHash == "" {
		return true, nil
	}
	return existing.ContentHash != hash, nil
}

// Touch refreshes the fetch timestamp of an unchanged source.
func (s *SourceStore) Touch(_ context.Context, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byOrigin[origin]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	existing.FetchedAt = now
	existing.UpdatedAt = now
	s.byOrigin[origin] = existing
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, source := range s.byOrigin {
		if source.ID == id {
			return &source, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetByOrigin retrieves a source by origin.
func (s *SourceStore) GetByOrigin(_ context.Context, origin string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.byOrigin[origin]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// List returns all registered sources ordered by origin.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Source, 0, len(s.byOrigin))
	for _, source := range s.byOrigin {
		result = append(result, source)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Origin < result[j].Origin })
	return result, nil
}
