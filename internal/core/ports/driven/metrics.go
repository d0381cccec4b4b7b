package driven

import (
	"time"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// IngestMetrics records ingestion telemetry. It is optional.
type IngestMetrics interface {
	// ObserveIngest records one ingest outcome and its duration.
	ObserveIngest(outcome domain.IngestOutcome, d time.Duration)

	// AddChunks counts chunks written to the index.
	AddChunks(n int)

	// AddRecords counts records written to the index.
	AddRecords(n int)
}
