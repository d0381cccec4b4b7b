// Package chunker splits normalised text into ordered, overlapping chunks.
//
// Chunks are contiguous byte spans of the input: chunk k covers units
// [s_k, e_k) and chunk k+1 starts overlap units before e_k. Concatenating
// the non-overlapping part of every chunk reproduces the input exactly.
package chunker

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// DefaultChunkSize is the default number of units per chunk.
const DefaultChunkSize = 200

// DefaultChunkOverlap is the default number of overlapping units.
const DefaultChunkOverlap = 40

// Processor splits document content into fixed-size chunks.
type Processor struct {
	unit      domain.ChunkUnit
	chunkSize int
	overlap   int
}

var _ driven.PostProcessor = (*Processor)(nil)

// Option configures the chunker processor.
type Option func(*Processor)

// WithUnit selects words or characters (runes).
func WithUnit(unit domain.ChunkUnit) Option {
	return func(p *Processor) {
		if unit.IsValid() {
			p.unit = unit
		}
	}
}

// WithChunkSize sets the chunk size in units.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in units.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		unit:      domain.ChunkUnitWords,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must be strictly smaller than the chunk size.
	if p.overlap >= p.chunkSize {
		logger.Warn("chunker: overlap %d >= size %d, using %d", p.overlap, p.chunkSize, p.chunkSize/4)
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Unit returns the configured chunk unit.
func (p *Processor) Unit() domain.ChunkUnit { return p.unit }

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	content := doc.Content
	starts := p.unitStarts(content)
	n := len(starts)
	if n == 0 {
		// Empty content produces no chunks
		return nil, nil
	}

	stride := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, n/stride+1)

	for s, position := 0, 0; ; position++ {
		e := min(s+p.chunkSize, n)

		from := starts[s]
		if position == 0 {
			from = 0
		}
		to := len(content)
		if e < n {
			to = starts[e]
		}

		chunks = append(chunks, domain.Chunk{
			ID:         ChunkID(doc.ID, position),
			DocumentID: doc.ID,
			SourceID:   doc.SourceID,
			Position:   position,
			Start:      from,
			End:        to,
			Content:    content[from:to],
		})

		if e == n {
			break
		}
		s = e - p.overlap
	}

	return chunks, nil
}

// unitStarts returns the byte offset of every unit of content.
func (p *Processor) unitStarts(content string) []int {
	var starts []int //nolint:prealloc // size unknown until scanned
	if p.unit == domain.ChunkUnitChars {
		for i := range content {
			starts = append(starts, i)
		}
		return starts
	}

	inWord := false
	for i, r := range content {
		space := unicode.IsSpace(r)
		if !space && !inWord {
			starts = append(starts, i)
		}
		inWord = !space
	}
	return starts
}

// ChunkID derives a stable chunk ID from its document and position.
func ChunkID(documentID string, position int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", documentID, position))).String()
}

// Reconstruct rebuilds the original text from chunks produced by Process,
// keeping only the part of each chunk that does not overlap its predecessor.
func Reconstruct(chunks []domain.Chunk) string {
	var b strings.Builder
	prevEnd := 0
	for i, c := range chunks {
		if i == 0 || c.Start >= prevEnd {
			b.WriteString(c.Content)
		} else if skip := prevEnd - c.Start; skip < len(c.Content) {
			b.WriteString(c.Content[skip:])
		}
		prevEnd = c.End
	}
	return b.String()
}
