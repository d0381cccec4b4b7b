// Package plaintext provides the fallback Normaliser for text payloads.
package plaintext

import (
	"context"
	"html"
	"regexp"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/encoding/charmap"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers/clean"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// markupThreshold is the number of tags above which a text payload is
// treated as stray markup.
const markupThreshold = 3

var (
	tagPattern = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(\s[^<>]*)?/?>`)
	blockBreak = regexp.MustCompile(`(?i)</(p|div|li|tr|h[1-6]|table|section)>|<br\s*/?>`)
)

// Normaliser handles plain text documents.
type Normaliser struct {
	policy *bluemonday.Policy
}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{policy: bluemonday.StrictPolicy()}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/csv",
		"text/x-log",
		"application/json",
		"application/xml",
		"text/xml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise decodes text, removes stray markup and collapses whitespace.
// Payloads that are not valid UTF-8 are decoded as Windows-1252.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, encoding := decode(raw.Content)
	if looksLikeMarkup(content) {
		content = blockBreak.ReplaceAllString(content, "$0\n")
		content = html.UnescapeString(n.policy.Sanitize(content))
	}
	content = clean.Lines(content)

	title := clean.TitleFromOrigin(raw.Origin)
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		title = t
	}

	doc := domain.Document{
		Origin:   raw.Origin,
		Title:    title,
		Content:  content,
		Metadata: clean.CopyMetadata(raw.Metadata),
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "text"
	doc.Metadata["encoding"] = encoding

	return &driven.NormaliseResult{Document: doc}, nil
}

func decode(b []byte) (string, string) {
	if utf8.Valid(b) {
		return string(b), "utf-8"
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b), "utf-8"
	}
	return string(out), "windows-1252"
}

func looksLikeMarkup(s string) bool {
	return len(tagPattern.FindAllStringIndex(s, markupThreshold)) >= markupThreshold
}
