package driven

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// SourceStore is the durable registry of ingested origins.
// Writes are atomic per source row.
type SourceStore interface {
	// Register upserts a source by origin and returns its stable ID.
	// Re-registering an existing origin updates mutable fields only.
	Register(ctx context.Context, source domain.Source) (string, error)

	// HasChanged reports whether hash differs from the stored content hash.
	// Unknown origins and sources whose last attempt failed report true.
	HasChanged(ctx context.Context, origin, hash string) (bool, error)

	// Touch refreshes the fetch timestamp of an unchanged source.
	Touch(ctx context.Context, origin string) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// GetByOrigin retrieves a source by origin.
	GetByOrigin(ctx context.Context, origin string) (*domain.Source, error)

	// List returns all registered sources ordered by origin.
	List(ctx context.Context) ([]domain.Source, error)
}
