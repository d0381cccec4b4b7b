package services

import (
	"context"
	"fmt"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService exposes the source registry for diagnostics.
type SourceService struct {
	sourceStore driven.SourceStore
	docStore    driven.DocumentStore
	recordStore driven.RecordStore
}

// NewSourceService creates a new source service.
func NewSourceService(
	sourceStore driven.SourceStore,
	docStore driven.DocumentStore,
	recordStore driven.RecordStore,
) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		docStore:    docStore,
		recordStore: recordStore,
	}
}

// Get retrieves a source by ID or by origin.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	src, err := s.sourceStore.Get(ctx, id)
	if err == nil {
		return src, nil
	}
	if byOrigin, originErr := s.sourceStore.GetByOrigin(ctx, id); originErr == nil {
		return byOrigin, nil
	}
	return nil, err
}

// List returns all registered sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	return s.sourceStore.List(ctx)
}

// Stats returns every source with its chunk and record counts.
func (s *SourceService) Stats(ctx context.Context) ([]domain.SourceStats, error) {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	stats := make([]domain.SourceStats, 0, len(sources))
	for _, src := range sources {
		chunks, err := s.docStore.CountChunks(ctx, src.ID)
		if err != nil {
			return nil, fmt.Errorf("count chunks for %s: %w", src.Origin, err)
		}
		records, err := s.recordStore.CountForSource(ctx, src.ID)
		if err != nil {
			return nil, fmt.Errorf("count records for %s: %w", src.Origin, err)
		}
		stats = append(stats, domain.SourceStats{Source: src, Chunks: chunks, Records: records})
	}
	return stats, nil
}
