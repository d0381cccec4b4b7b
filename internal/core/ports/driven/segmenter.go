package driven

import "github.com/Mg12345-web/IA-Babix/internal/core/domain"

// Segmenter splits normalised text into coded records.
type Segmenter interface {
	// PatternSet returns the name of the active pattern set.
	PatternSet() string

	// Segment returns the records of doc in document order, duplicates kept.
	// A *domain.SegmentationWarning is returned alongside an empty slice when
	// the document was expected to contain records.
	Segment(doc *domain.Document) ([]domain.Record, error)
}
