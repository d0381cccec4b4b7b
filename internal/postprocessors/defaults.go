package postprocessors

import (
	"fmt"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/postprocessors/chunker"
)

// RegisterDefaults registers the built-in processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// buildChunker reads the [pipeline.chunker] table:
//
//	unit       = "words" | "chars"
//	chunk_size = 200
//	overlap    = 40
//
// Absent keys keep the chunker defaults. Present keys must be well formed.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if raw, ok := cfg["unit"]; ok {
		unit, isString := raw.(string)
		if !isString || !domain.ChunkUnit(unit).IsValid() {
			return nil, fmt.Errorf("unit must be %q or %q, got %v", domain.ChunkUnitWords, domain.ChunkUnitChars, raw)
		}
		opts = append(opts, chunker.WithUnit(domain.ChunkUnit(unit)))
	}

	size, ok, err := intSetting(cfg, "chunk_size")
	switch {
	case err != nil:
		return nil, err
	case ok && size <= 0:
		return nil, fmt.Errorf("chunk_size must be positive, got %d", size)
	case ok:
		opts = append(opts, chunker.WithChunkSize(size))
	}

	overlap, ok, err := intSetting(cfg, "overlap")
	switch {
	case err != nil:
		return nil, err
	case ok && overlap < 0:
		return nil, fmt.Errorf("overlap must not be negative, got %d", overlap)
	case ok:
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...), nil
}

// BuildPipeline constructs the pipeline described by cfg.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range cfg.Processors {
		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		p.Add(proc)
	}
	return p, nil
}

// intSetting reads an integer key. TOML decodes integers as int64 and
// JSON as float64, so both are accepted. ok is false when key is absent.
func intSetting(cfg map[string]any, key string) (n int, ok bool, err error) {
	raw, ok := cfg[key]
	if !ok {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if v != float64(int(v)) {
			return 0, true, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a number, got %T", key, raw)
	}
}
