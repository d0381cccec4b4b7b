// Package postprocessors turns a normalised document into indexable chunks.
package postprocessors

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// ErrBrokenSpan is returned when a processor emits a chunk whose text is
// not the document slice its offsets point at.
var ErrBrokenSpan = errors.New("chunk text does not match its span")

// Pipeline runs processors in order. The first one receives nil chunks.
type Pipeline struct {
	processors []driven.PostProcessor
}

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Process runs doc through every processor and then checks the result:
// positions must be 0..n-1 and every chunk must be the exact slice
// doc.Content[Start:End], which keeps snippets and Reconstruct honest.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	var chunks []domain.Chunk
	for _, proc := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		chunks, err = proc.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", proc.Name(), err)
		}
		logger.Debug("%s: %d chunks after %s", doc.Origin, len(chunks), proc.Name())
	}

	if err := checkSpans(doc, chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

func checkSpans(doc *domain.Document, chunks []domain.Chunk) error {
	for i := range chunks {
		c := &chunks[i]
		if c.Position != i {
			return fmt.Errorf("chunk %d has position %d", i, c.Position)
		}
		if c.Start < 0 || c.End > len(doc.Content) || c.Start > c.End ||
			doc.Content[c.Start:c.End] != c.Content {
			return fmt.Errorf("chunk %d [%d:%d]: %w", i, c.Start, c.End, ErrBrokenSpan)
		}
	}
	return nil
}

func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

func (p *Pipeline) Len() int { return len(p.processors) }

// Names lists the processors in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
