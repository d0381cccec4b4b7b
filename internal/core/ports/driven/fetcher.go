package driven

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// Fetcher retrieves the raw payload of an origin.
// Failures reaching the origin are returned as *domain.FetchError.
type Fetcher interface {
	// Scheme returns the origin scheme this fetcher serves ("file", "https", "github").
	Scheme() string

	// Fetch retrieves one origin.
	Fetch(ctx context.Context, origin string) (*domain.RawDocument, error)
}

// Lister enumerates origins under a root, used for folder ingestion.
type Lister interface {
	// List returns every ingestible origin below root, sorted.
	List(ctx context.Context, root string) ([]string, error)
}

// Watcher streams change events for origins below a root.
type Watcher interface {
	// Watch listens for real-time changes until ctx is cancelled.
	Watch(ctx context.Context, root string) (<-chan domain.Change, error)
}
