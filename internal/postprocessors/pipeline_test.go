package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// stubProcessor returns fixed chunks, or passes its input through when
// chunks is nil.
type stubProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (s *stubProcessor) Name() string { return s.name }

func (s *stubProcessor) Process(_ context.Context, _ *domain.Document, in []domain.Chunk) ([]domain.Chunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.chunks != nil {
		return s.chunks, nil
	}
	return in, nil
}

var ficha = &domain.Document{ID: "doc", Origin: "mbft.pdf", Content: "596-70 Dirigir sem linha amarela"}

func span(pos, start, end int) domain.Chunk {
	return domain.Chunk{Position: pos, Start: start, End: end, Content: ficha.Content[start:end]}
}

func TestPipeline_Empty(t *testing.T) {
	p := NewPipeline()
	assert.Zero(t, p.Len())

	chunks, err := p.Process(context.Background(), ficha)
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestPipeline_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipeline_LastProcessorWins(t *testing.T) {
	p := NewPipeline(
		&stubProcessor{name: "first", chunks: []domain.Chunk{span(0, 0, 6)}},
		&stubProcessor{name: "second", chunks: []domain.Chunk{span(0, 0, 14), span(1, 7, 32)}},
	)
	p.Add(&stubProcessor{name: "passthrough"})

	chunks, err := p.Process(context.Background(), ficha)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Dirigir sem linha amarela", chunks[1].Content)
	assert.Equal(t, []string{"first", "second", "passthrough"}, p.Names())
}

func TestPipeline_ProcessorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewPipeline(&stubProcessor{name: "failing", err: boom}).Process(context.Background(), ficha)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "processor failing")
}

func TestPipeline_RejectsBrokenSpans(t *testing.T) {
	tests := []struct {
		name  string
		chunk domain.Chunk
	}{
		{"text differs", domain.Chunk{Start: 0, End: 6, Content: "596-71"}},
		{"out of range", domain.Chunk{Start: 0, End: 99, Content: ficha.Content}},
		{"inverted", domain.Chunk{Start: 6, End: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(&stubProcessor{name: "bad", chunks: []domain.Chunk{tt.chunk}})
			_, err := p.Process(context.Background(), ficha)
			assert.ErrorIs(t, err, ErrBrokenSpan)
		})
	}
}

func TestPipeline_RejectsGappedPositions(t *testing.T) {
	p := NewPipeline(&stubProcessor{name: "bad", chunks: []domain.Chunk{span(0, 0, 6), span(2, 7, 14)}})
	_, err := p.Process(context.Background(), ficha)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 2")
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(&stubProcessor{name: "x"}).Process(ctx, ficha)
	assert.ErrorIs(t, err, context.Canceled)
}
