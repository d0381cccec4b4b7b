package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

func stubBuilder(name string) BuilderFunc {
	return func(map[string]any) (driven.PostProcessor, error) {
		return &stubProcessor{name: name}, nil
	}
}

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Names())

	r.Register("zeta", stubBuilder("zeta"))
	r.Register("alpha", stubBuilder("alpha"))
	assert.True(t, r.Has("alpha"))
	assert.False(t, r.Has("stemmer"))
	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())

	proc, err := r.Build("zeta", nil)
	require.NoError(t, err)
	assert.Equal(t, "zeta", proc.Name())
}

func TestRegistry_BuildErrors(t *testing.T) {
	r := NewRegistry()
	r.Register("chunker", stubBuilder("chunker"))
	r.Register("liar", stubBuilder("someone-else"))
	boom := errors.New("bad config")
	r.Register("broken", func(map[string]any) (driven.PostProcessor, error) { return nil, boom })

	_, err := r.Build("stemmer", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown processor "stemmer"`)
	assert.Contains(t, err.Error(), "chunker")

	_, err = r.Build("liar", nil)
	assert.ErrorContains(t, err, "reports name")

	_, err = r.Build("broken", nil)
	assert.ErrorIs(t, err, boom)
}

func TestBuildChunker(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	require.True(t, r.Has("chunker"))

	for _, cfg := range []map[string]any{
		nil,
		{"unit": "chars", "chunk_size": 500, "overlap": 100},
		{"chunk_size": int64(50), "overlap": float64(10)},
	} {
		proc, err := r.Build("chunker", cfg)
		require.NoError(t, err)
		assert.Equal(t, "chunker", proc.Name())
	}
}

func TestBuildPipeline_FromSettings(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	p, err := BuildPipeline(r, domain.DefaultSettings().PipelineConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"chunker"}, p.Names())

	chunks, err := p.Process(context.Background(), ficha)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, ficha.Content, chunks[0].Content)
}

func TestBuildPipeline_UnknownProcessor(t *testing.T) {
	_, err := BuildPipeline(NewRegistry(), domain.PipelineConfig{Processors: []string{"stemmer"}})
	assert.Error(t, err)
}

func TestBuildChunker_RejectsMalformedConfig(t *testing.T) {
	for _, cfg := range []map[string]any{
		{"unit": "lines"},
		{"unit": 3},
		{"chunk_size": 0},
		{"chunk_size": "200"},
		{"overlap": -1},
		{"overlap": 2.5},
	} {
		_, err := buildChunker(cfg)
		assert.Error(t, err, "%v", cfg)
	}
}

func TestIntSetting(t *testing.T) {
	tests := []struct {
		name    string
		cfg     map[string]any
		want    int
		present bool
		wantErr bool
	}{
		{"int", map[string]any{"size": 100}, 100, true, false},
		{"int64 from toml", map[string]any{"size": int64(200)}, 200, true, false},
		{"float64 from json", map[string]any{"size": float64(300)}, 300, true, false},
		{"fractional", map[string]any{"size": 1.5}, 0, true, true},
		{"string", map[string]any{"size": "400"}, 0, true, true},
		{"missing", map[string]any{}, 0, false, false},
		{"nil", nil, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok, err := intSetting(tt.cfg, "size")
			assert.Equal(t, tt.want, n)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}
