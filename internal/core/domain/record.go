package domain

import (
	"maps"
	"slices"
	"time"
)

// Record is a "ficha": a structured sub-document keyed by a domain code
// such as "596-70". Codes are unique; a later write replaces an earlier one.
type Record struct {
	// Code is the business key.
	Code string `json:"code"`

	// Title is the first-line summary.
	Title string `json:"title"`

	// Body is the free text between this code and the next one.
	Body string `json:"body"`

	// LegalBasis is the cited article, e.g. "Art. 183".
	LegalBasis string `json:"legal_basis,omitempty"`

	// Severity is the "Gravidade" field.
	Severity string `json:"gravidade,omitempty"`

	// Penalty is the "Penalidade" field.
	Penalty string `json:"penalidade,omitempty"`

	// Points is the "Pontuação" field.
	Points string `json:"pontuacao,omitempty"`

	// Fields holds every labelled field found, including the ones above.
	Fields map[string]string `json:"fields,omitempty"`

	// SourceID and DocumentID reference the originating document.
	SourceID   string `json:"source_id"`
	DocumentID string `json:"document_id"`

	// Offset is the byte offset of the code in the document.
	Offset int `json:"offset"`

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known record field names.
const (
	FieldLegalBasis = "legal_basis"
	FieldSeverity   = "gravidade"
	FieldPenalty    = "penalidade"
	FieldPoints     = "pontuacao"
)

// SetField stores a labelled field and mirrors well-known names onto the
// typed attributes.
func (r *Record) SetField(name, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[name] = value
	switch name {
	case FieldLegalBasis:
		r.LegalBasis = value
	case FieldSeverity:
		r.Severity = value
	case FieldPenalty:
		r.Penalty = value
	case FieldPoints:
		r.Points = value
	}
}

// FieldNames returns the labelled field names in sorted order.
func (r *Record) FieldNames() []string {
	return slices.Sorted(maps.Keys(r.Fields))
}

// RecordMatchMethod describes how a record lookup was resolved.
type RecordMatchMethod string

const (
	// MatchByCode is an exact code lookup.
	MatchByCode RecordMatchMethod = "code"

	// MatchBySimilarity is a fuzzy match over record titles and bodies.
	MatchBySimilarity RecordMatchMethod = "similarity"

	// MatchBySentence is a best-sentence fallback over the whole corpus.
	MatchBySentence RecordMatchMethod = "sentence"
)

// RecordMatch is the answer to a record lookup.
// Record is nil when the match came from the sentence fallback.
type RecordMatch struct {
	Record     *Record           `json:"record,omitempty"`
	Method     RecordMatchMethod `json:"method"`
	Confidence float64           `json:"confidence"`

	// Sentence and SourceOrigin are set by the sentence fallback.
	Sentence     string `json:"sentence,omitempty"`
	SourceOrigin string `json:"source_origin,omitempty"`
}
