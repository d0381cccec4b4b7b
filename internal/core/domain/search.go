package domain

import "fmt"

// EntryKind distinguishes the two kinds of indexed units.
type EntryKind string

const (
	// EntryChunk is a chunk of a document.
	EntryChunk EntryKind = "chunk"

	// EntryRecord is a segmented record.
	EntryRecord EntryKind = "record"
)

// IndexEntry is one unit handed to the search engine.
// Entries are derived data, regenerated from chunks and records.
type IndexEntry struct {
	// ID is the chunk ID or the record code.
	ID       string
	Kind     EntryKind
	SourceID string
	Position int
	Text     string
}

// SearchHit is a raw engine match before hydration.
type SearchHit struct {
	ID       string
	Kind     EntryKind
	SourceID string
	Position int
	Score    float64
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// SourceIDs filters to specific sources.
	SourceIDs []string

	// PerSource caps probe matches per source; zero uses the configured default.
	PerSource int
}

// SearchResult is a single citeable passage.
type SearchResult struct {
	SourceID   string    `json:"source_id"`
	Origin     string    `json:"origin"`
	Title      string    `json:"title"`
	Kind       EntryKind `json:"kind"`
	ChunkID    string    `json:"chunk_id,omitempty"`
	RecordCode string    `json:"record_code,omitempty"`
	Position   int       `json:"position"`
	Snippet    string    `json:"snippet"`
	Score      float64   `json:"score"`
}

// Heading names the passage: the ficha code for records, else the source
// title, else the origin.
func (r *SearchResult) Heading() string {
	switch {
	case r.Kind == EntryRecord && r.RecordCode != "":
		return "Ficha " + r.RecordCode
	case r.Title != "":
		return r.Title
	}
	return r.Origin
}

// Citation locates the passage. Chunks are numbered from 1 as §N.
func (r *SearchResult) Citation() string {
	if r.Kind == EntryChunk {
		return fmt.Sprintf("%s §%d", r.Origin, r.Position+1)
	}
	return r.Origin
}

// SearchResponse wraps results with the insufficient-evidence signal.
// When Insufficient is true, Results is empty and Reason says why.
type SearchResponse struct {
	Query        string         `json:"query"`
	Terms        []string       `json:"terms"`
	Results      []SearchResult `json:"results"`
	Insufficient bool           `json:"insufficient"`
	Reason       string         `json:"reason,omitempty"`
}
