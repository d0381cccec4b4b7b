package driven

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// Normaliser transforms raw payloads into clean plain text.
// Each normaliser handles specific MIME types (e.g., PDF, HTML).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Generic MIME normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw payload into a document.
	// Empty or unparseable input yields a *domain.ExtractionError.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking and segmentation happen after normalisation.
type NormaliseResult struct {
	// Document is the normalised document with Content and Title populated.
	Document domain.Document
}
