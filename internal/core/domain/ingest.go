package domain

import "time"

// IngestOutcome classifies the result of ingesting one source.
type IngestOutcome string

const (
	// OutcomeIndexed means chunks and records were (re)written.
	OutcomeIndexed IngestOutcome = "indexed"

	// OutcomeSkipped means the content hash was unchanged.
	OutcomeSkipped IngestOutcome = "skipped"

	// OutcomeFailed means the source was marked as errored.
	OutcomeFailed IngestOutcome = "failed"
)

// IngestResult is the outcome of one ingest call.
type IngestResult struct {
	Origin         string
	SourceID       string
	Outcome        IngestOutcome
	ChunksIndexed  int
	RecordsIndexed int

	// Warnings are non-fatal diagnostics such as SegmentationWarning.
	Warnings []error

	// Err is the per-source failure. It is never returned as a batch error.
	Err error

	Duration time.Duration
}

// Skipped reports whether the source was unchanged.
func (r IngestResult) Skipped() bool { return r.Outcome == OutcomeSkipped }

// IngestStatus is a snapshot of ingestion counters.
type IngestStatus struct {
	Running   int
	Processed int
	Failed    int
	Skipped   int
	LastRun   time.Time
}
