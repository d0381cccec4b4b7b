package chunker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		assert.Equal(t, DefaultChunkSize, p.chunkSize)
		assert.Equal(t, DefaultChunkOverlap, p.overlap)
		assert.Equal(t, domain.ChunkUnitWords, p.Unit())
	})

	t.Run("custom values", func(t *testing.T) {
		p := New(WithChunkSize(500), WithOverlap(100), WithUnit(domain.ChunkUnitChars))
		assert.Equal(t, 500, p.chunkSize)
		assert.Equal(t, 100, p.overlap)
		assert.Equal(t, domain.ChunkUnitChars, p.Unit())
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		assert.Equal(t, 25, p.overlap)
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1), WithUnit("lines"))
		assert.Equal(t, DefaultChunkSize, p.chunkSize)
		assert.Equal(t, DefaultChunkOverlap, p.overlap)
		assert.Equal(t, domain.ChunkUnitWords, p.Unit())
	})
}

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}

func TestProcessor_Process_NilDocument(t *testing.T) {
	_, err := New().Process(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	for _, content := range []string{"", "   \n\t "} {
		chunks, err := New().Process(context.Background(), &domain.Document{ID: "d", Content: content}, nil)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestProcessor_Process_ShorterThanOneChunk(t *testing.T) {
	doc := &domain.Document{ID: "d", SourceID: "s", Content: "Dirigir sem habilitação"}

	chunks, err := New(WithChunkSize(50), WithOverlap(10)).Process(context.Background(), doc, nil)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Content, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, "s", chunks[0].SourceID)
	assert.Equal(t, "d", chunks[0].DocumentID)
}

// 130 words, size 50, overlap 10: chunks start at words 0, 40 and 80.
func TestProcessor_Process_WordOverlap(t *testing.T) {
	doc := &domain.Document{ID: "d", Content: words(130)}

	chunks, err := New(WithChunkSize(50), WithOverlap(10)).Process(context.Background(), doc, nil)

	require.NoError(t, err)
	require.Len(t, chunks, 3)

	firstWords := []string{"w0", "w40", "w80"}
	lastWords := []string{"w49", "w89", "w129"}
	for i, c := range chunks {
		f := strings.Fields(c.Content)
		assert.Equal(t, i, c.Position)
		assert.Equal(t, firstWords[i], f[0])
		assert.Equal(t, lastWords[i], f[len(f)-1])
		if i > 0 {
			assert.GreaterOrEqual(t, c.Start, chunks[i-1].Start)
		}
	}
	assert.Len(t, strings.Fields(chunks[0].Content), 50)
	assert.Len(t, strings.Fields(chunks[2].Content), 50)

	// Chunk 2 starts 10 words before chunk 1 ends.
	tail := strings.Fields(chunks[0].Content)[40:]
	head := strings.Fields(chunks[1].Content)[:10]
	assert.Equal(t, tail, head)
}

func TestProcessor_Process_CharUnit(t *testing.T) {
	doc := &domain.Document{ID: "d", Content: "infração gravíssima"}

	chunks, err := New(WithUnit(domain.ChunkUnitChars), WithChunkSize(8), WithOverlap(2)).
		Process(context.Background(), doc, nil)

	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "infração", chunks[0].Content)
	assert.Equal(t, "ão graví", chunks[1].Content)
	assert.Equal(t, "víssima", chunks[2].Content)
	assert.Equal(t, doc.Content, Reconstruct(chunks))
}

func TestProcessor_Process_Deterministic(t *testing.T) {
	doc := &domain.Document{ID: "d", Content: words(77)}
	p := New(WithChunkSize(20), WithOverlap(5))

	a, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	b, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, ChunkID("d", 0), a[0].ID)
	assert.NotEqual(t, a[0].ID, a[1].ID)
}

func TestReconstruct_Lossless(t *testing.T) {
	texts := []string{
		words(1),
		words(130),
		"  leading spaces and\n\nblank lines\tand tabs  ",
		"Art. 183 — Gravidade: gravíssima\nPenalidade: multa (três vezes)",
	}
	params := []struct{ size, overlap int }{{1, 0}, {3, 1}, {5, 4}, {50, 10}, {200, 40}}

	for _, text := range texts {
		for _, unit := range []domain.ChunkUnit{domain.ChunkUnitWords, domain.ChunkUnitChars} {
			for _, pp := range params {
				p := New(WithUnit(unit), WithChunkSize(pp.size), WithOverlap(pp.overlap))
				chunks, err := p.Process(context.Background(), &domain.Document{ID: "d", Content: text}, nil)
				require.NoError(t, err)
				assert.Equal(t, text, Reconstruct(chunks), "unit=%s size=%d overlap=%d", unit, pp.size, pp.overlap)
			}
		}
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	doc := &domain.Document{ID: "d", Content: "conteúdo"}
	input := []domain.Chunk{{ID: "old", Content: "old"}}

	chunks, err := New().Process(context.Background(), doc, input)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.NotEqual(t, "old", chunks[0].ID)
}
