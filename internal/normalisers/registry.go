package normalisers

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers/clean"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the best matching normaliser.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
	whitespace  domain.WhitespaceMode
}

// Option configures the registry.
type Option func(*Registry)

// WithWhitespace selects how output whitespace is collapsed.
func WithWhitespace(mode domain.WhitespaceMode) Option {
	return func(r *Registry) {
		if mode != "" {
			r.whitespace = mode
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{whitespace: domain.WhitespaceLines}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a normaliser, keeping the list ordered by priority.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// SupportedMIMETypes returns all MIME types that can be normalised.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	sort.Strings(types)
	return types
}

// Normalise transforms a raw document using the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mimeType := ResolveMIME(raw.MIMEType, raw.Origin)
	n := r.find(mimeType)
	if n == nil {
		return nil, fmt.Errorf("normalise %s (%s): %w", raw.Origin, mimeType, domain.ErrUnsupportedType)
	}

	resolved := *raw
	resolved.MIMEType = mimeType
	result, err := n.Normalise(ctx, &resolved)
	if err != nil {
		return nil, err
	}

	result.Document.Content = clean.Apply(result.Document.Content, r.whitespace)
	if result.Document.Content == "" {
		return nil, &domain.ExtractionError{Origin: raw.Origin, Cause: "no text content after normalisation"}
	}
	return result, nil
}

// find returns the highest-priority normaliser for mimeType. Unknown text
// types fall back to the lowest-priority text/plain handler.
func (r *Registry) find(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if t == mimeType {
				return n
			}
		}
	}

	if mimeType != "" && !strings.HasPrefix(mimeType, "text/") {
		return nil
	}
	for i := len(r.normalisers) - 1; i >= 0; i-- {
		for _, t := range r.normalisers[i].SupportedMIMETypes() {
			if t == "text/plain" {
				return r.normalisers[i]
			}
		}
	}
	return nil
}

// ResolveMIME strips parameters from a declared content type and falls back
// to the origin's extension when nothing was declared.
func ResolveMIME(declared, origin string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			return strings.ToLower(mt)
		}
		return strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	}
	return MIMEFromExtension(origin)
}

// MIMEFromExtension maps well-known extensions to MIME types.
func MIMEFromExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".html", ".htm", ".xhtml":
		return "text/html"
	case ".txt", ".text", ".log":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	default:
		return ""
	}
}
