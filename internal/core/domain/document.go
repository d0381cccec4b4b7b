package domain

import "time"

// Document is the normalised text of one Source. Re-ingesting the source
// replaces it, so a source never has more than one.
type Document struct {
	ID       string
	SourceID string
	Origin   string
	Title    string

	// Content is the text after normalisation. Chunk offsets index into it.
	Content string

	// Metadata is whatever the normaliser extracted (page count, author,
	// record code).
	Metadata map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chunk is one overlapping span of a Document. Positions run from zero
// without gaps.
type Chunk struct {
	ID         string
	DocumentID string
	SourceID   string
	Position   int

	// Start and End are byte offsets into Document.Content.
	Start int
	End   int

	Content string
}
