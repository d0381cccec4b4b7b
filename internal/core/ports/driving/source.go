package driving

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// SourceService exposes the source registry for diagnostics.
type SourceService interface {
	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all registered sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Stats returns every source with its chunk and record counts.
	Stats(ctx context.Context) ([]domain.SourceStats, error)
}
