package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string]domain.Record)}
}

// ReplaceForSource removes the records of sourceID and writes records in
// order; the last record with a given code wins.
func (s *RecordStore) ReplaceForSource(_ context.Context, sourceID string, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, rec := range s.records {
		if rec.SourceID == sourceID {
			delete(s.records, code)
		}
	}

	now := time.Now().UTC()
	for _, rec := range records {
		rec.SourceID = sourceID
		rec.UpdatedAt = now
		s.records[rec.Code] = rec
	}
	return nil
}

// Get retrieves a record by code.
func (s *RecordStore) Get(_ context.Context, code string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// List returns every record ordered by code.
func (s *RecordStore) List(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// CountForSource returns the number of records owned by a source.
func (s *RecordStore) CountForSource(_ context.Context, sourceID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, rec := range s.records {
		if rec.SourceID == sourceID {
			n++
		}
	}
	return n, nil
}
