package domain

import "time"

// ChunkUnit selects what the chunker counts.
type ChunkUnit string

// Available chunk units.
const (
	// ChunkUnitWords counts whitespace-separated words.
	ChunkUnitWords ChunkUnit = "words"

	// ChunkUnitChars counts runes.
	ChunkUnitChars ChunkUnit = "chars"
)

// IsValid returns true if the unit is recognised.
func (u ChunkUnit) IsValid() bool {
	return u == ChunkUnitWords || u == ChunkUnitChars
}

// IndexEngine selects the search engine implementation.
type IndexEngine string

// Available index engines.
const (
	// IndexEngineMemory is the in-process inverted index, rebuilt at start-up.
	IndexEngineMemory IndexEngine = "memory"

	// IndexEngineBleve is the on-disk bleve index.
	IndexEngineBleve IndexEngine = "bleve"
)

// IsValid returns true if the engine is recognised.
func (e IndexEngine) IsValid() bool {
	return e == IndexEngineMemory || e == IndexEngineBleve
}

// ScoringMode selects the ranking function of the memory index.
type ScoringMode string

// Available scoring modes.
const (
	// ScoringBM25 uses Okapi BM25 with document-frequency statistics.
	ScoringBM25 ScoringMode = "bm25"

	// ScoringTF sums raw query term occurrences.
	ScoringTF ScoringMode = "tf"
)

// IsValid returns true if the scoring mode is recognised.
func (m ScoringMode) IsValid() bool {
	return m == ScoringBM25 || m == ScoringTF
}

// WhitespaceMode controls how normalisers collapse whitespace.
type WhitespaceMode string

// Available whitespace modes.
const (
	// WhitespaceLines keeps single line breaks between blocks.
	WhitespaceLines WhitespaceMode = "lines"

	// WhitespaceSpaces collapses everything to single spaces.
	WhitespaceSpaces WhitespaceMode = "spaces"
)

// ChunkerSettings configures the chunker post-processor.
type ChunkerSettings struct {
	Unit    ChunkUnit
	Size    int
	Overlap int
}

// SegmenterSettings configures the record segmenter.
type SegmenterSettings struct {
	// PatternSet is the name of the pattern set to use.
	PatternSet string

	// PatternsFile replaces the embedded pattern sets when set.
	PatternsFile string

	// ExpectedHints are added to the pattern set's Expected list: origins
	// or titles containing one of them warn when no record is found.
	ExpectedHints []string
}

// IndexSettings configures the search engine.
type IndexSettings struct {
	Engine         IndexEngine
	Scoring        ScoringMode
	MinTokenLength int
}

// RetrievalSettings configures the retriever.
type RetrievalSettings struct {
	// SnippetRadius is the number of runes kept on each side of a match.
	SnippetRadius int

	// ProbePerSource caps substring probe hits per source.
	ProbePerSource int

	// MinScore is the best-score floor below which evidence is insufficient.
	MinScore float64

	// SimilarityThreshold is the minimum ratio for a fuzzy record match.
	SimilarityThreshold float64
}

// IngestSettings configures the ingestion pipeline.
type IngestSettings struct {
	Workers    int
	Timeout    time.Duration
	MaxBytes   int64
	Whitespace WhitespaceMode
}

// WebSettings configures the web fetcher.
type WebSettings struct {
	UserAgent         string
	RequestsPerSecond float64
	Readability       bool
}

// RemoteSettings holds credentials for remote fetchers.
type RemoteSettings struct {
	GitHubToken          string
	GDriveCredentialFile string
	GDriveAPIKey         string
	// GDriveAccessToken is a short-lived OAuth access token, usually
	// supplied through the environment.
	GDriveAccessToken string
}

// Settings holds all application settings.
type Settings struct {
	Chunker   ChunkerSettings
	Segmenter SegmenterSettings
	Index     IndexSettings
	Retrieval RetrievalSettings
	Ingest    IngestSettings
	Web       WebSettings
	Remote    RemoteSettings
	Scheduler SchedulerConfig
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Chunker: ChunkerSettings{
			Unit:    ChunkUnitWords,
			Size:    200,
			Overlap: 40,
		},
		Segmenter: SegmenterSettings{
			PatternSet: "ficha",
		},
		Index: IndexSettings{
			Engine:         IndexEngineMemory,
			Scoring:        ScoringBM25,
			MinTokenLength: 3,
		},
		Retrieval: RetrievalSettings{
			SnippetRadius:       150,
			ProbePerSource:      3,
			MinScore:            0,
			SimilarityThreshold: 0.25,
		},
		Ingest: IngestSettings{
			Workers:    4,
			Timeout:    30 * time.Second,
			MaxBytes:   32 << 20,
			Whitespace: WhitespaceLines,
		},
		Web: WebSettings{
			UserAgent:         "BabixBot/1.0",
			RequestsPerSecond: 2,
		},
		Scheduler: DefaultSchedulerConfig(),
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Processors can be added without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfig derives the post-processor pipeline from chunker settings.
func (s Settings) PipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"unit":       string(s.Chunker.Unit),
				"chunk_size": s.Chunker.Size,
				"overlap":    s.Chunker.Overlap,
			},
		},
	}
}
