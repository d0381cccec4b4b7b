package driving

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// IngestService runs the write path: normalise, chunk, segment and index.
// Per-source failures are reported in IngestResult.Err, never as the
// returned error of a batch.
type IngestService interface {
	// Ingest processes a payload the caller already fetched.
	Ingest(ctx context.Context, raw domain.RawDocument) domain.IngestResult

	// IngestOrigin fetches an origin through the fetcher router and ingests it.
	IngestOrigin(ctx context.Context, origin string) domain.IngestResult

	// IngestBatch ingests origins in parallel. Results keep input order.
	IngestBatch(ctx context.Context, origins []string) []domain.IngestResult

	// RefreshAll re-ingests every registered origin.
	RefreshAll(ctx context.Context) ([]domain.IngestResult, error)

	// Status returns a snapshot of the ingestion counters.
	Status() domain.IngestStatus
}
