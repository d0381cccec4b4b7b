package driven

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// SearchEngine provides ranked lexical search over index entries.
// Implementations must allow concurrent Search calls while Index runs.
type SearchEngine interface {
	// Index atomically replaces every entry of sourceID with entries.
	Index(ctx context.Context, sourceID string, entries []domain.IndexEntry) error

	// DeleteSource removes every entry of a source.
	DeleteSource(ctx context.Context, sourceID string) error

	// Search scores entries against already tokenised terms and returns at
	// most limit hits by descending score.
	Search(ctx context.Context, terms []string, limit int) ([]domain.SearchHit, error)

	// Count returns the number of indexed entries.
	Count() int

	// Close releases resources.
	Close() error
}
