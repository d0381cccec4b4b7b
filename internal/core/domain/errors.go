package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no normaliser or fetcher handles the payload.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIngestInProgress indicates the source is already being ingested.
	ErrIngestInProgress = errors.New("ingest in progress")

	// ErrSearchUnavailable indicates the search engine is not configured.
	ErrSearchUnavailable = errors.New("search engine unavailable")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrInsufficientEvidence is returned when the index holds nothing that
	// answers the query with enough confidence. Callers must not fabricate
	// citations when they see it.
	ErrInsufficientEvidence = errors.New("insufficient indexed evidence")
)

// FetchError reports a failure reaching a source over the network or the
// filesystem. The source is marked as errored and ingestion moves on.
type FetchError struct {
	Origin string
	// Status is the HTTP status code, 0 when the request never completed.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Origin, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Origin, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed.
// Client errors other than 408 and 429 are permanent.
func (e *FetchError) Retryable() bool {
	switch {
	case e.Status == 0:
		return true
	case e.Status == 408, e.Status == 429:
		return true
	case e.Status >= 500:
		return true
	default:
		return false
	}
}

// ExtractionError reports content that was retrieved but could not be turned
// into text, such as a scanned PDF without a text layer.
type ExtractionError struct {
	Origin string
	Cause  string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Origin, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Retryable is always false: a different extraction strategy is required.
func (e *ExtractionError) Retryable() bool { return false }

// SegmentationWarning reports a document expected to contain records in
// which none were detected. The document is still chunked and searchable.
type SegmentationWarning struct {
	Origin     string
	PatternSet string
}

func (w *SegmentationWarning) Error() string {
	return fmt.Sprintf("no records detected in %s (pattern set %q)", w.Origin, w.PatternSet)
}

// IndexWriteError reports a storage failure while writing chunks, records or
// index entries for a source. The whole source is retried on the next pass.
type IndexWriteError struct {
	SourceID string
	Stage    string
	Err      error
}

func (e *IndexWriteError) Error() string {
	return fmt.Sprintf("index write %s (%s): %v", e.SourceID, e.Stage, e.Err)
}

func (e *IndexWriteError) Unwrap() error { return e.Err }

// Retryable is always true at whole-source granularity.
func (e *IndexWriteError) Retryable() bool { return true }

// IsRetryable reports whether err, or any error it wraps, is marked retryable.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}
