package domain

import "time"

// SourceStatus is the outcome of the last fetch of a source.
type SourceStatus string

const (
	// SourceStatusNew marks a source registered but not yet fetched.
	SourceStatusNew SourceStatus = "new"

	// SourceStatusFetched marks a source whose latest content is indexed.
	SourceStatusFetched SourceStatus = "fetched"

	// SourceStatusError marks a source whose last fetch or ingest failed.
	SourceStatusError SourceStatus = "error"
)

// Source is an ingested origin (URL or file path).
// Origin is the business identity; ID is derived from it and stable.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Origin is the URL, path or fetcher URI the content came from.
	Origin string

	// Title is the human-readable title of the latest document.
	Title string

	// Status is the result of the last ingestion attempt.
	Status SourceStatus

	// HTTPStatus is the last HTTP status code, or 0 for local sources.
	HTTPStatus int

	// ContentHash is the hex SHA-256 of the last successfully indexed payload.
	// Empty after a failed attempt so that the next pass reprocesses.
	ContentHash string

	// LastError is the message of the last failure, if any.
	LastError string

	// FetchedAt is when the source was last fetched.
	FetchedAt time.Time

	// CreatedAt is when the source was first registered.
	CreatedAt time.Time

	// UpdatedAt is when the source row was last modified.
	UpdatedAt time.Time
}

// SourceStats summarises what is stored for a source.
type SourceStats struct {
	Source  Source
	Chunks  int
	Records int
}
