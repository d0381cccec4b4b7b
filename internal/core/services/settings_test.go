package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driven/storage/memory"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func newSettingsService(values map[string]any, env map[string]string) *SettingsService {
	s := NewSettingsService(memory.NewConfigStore(values))
	s.getenv = func(key string) string { return env[key] }
	return s
}

func TestSettingsService_Defaults(t *testing.T) {
	s := newSettingsService(nil, nil)

	got := s.Get()

	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestSettingsService_FromConfig(t *testing.T) {
	s := newSettingsService(map[string]any{
		"chunker.unit":                       "chars",
		"chunker.size":                       int64(800),
		"chunker.overlap":                    int64(0),
		"segmenter.pattern_set":              "mbft-index",
		"segmenter.expected":                 []any{"resolução", 7},
		"index.engine":                       "bleve",
		"index.scoring":                      "tf",
		"index.min_token_length":             int64(4),
		"retrieval.snippet_radius":           int64(160),
		"retrieval.min_score":                1.5,
		"retrieval.similarity_threshold":     0.4,
		"ingest.workers":                     int64(8),
		"ingest.timeout_seconds":             int64(5),
		"normaliser.whitespace":              "spaces",
		"web.requests_per_second":            int64(1),
		"web.readability":                    true,
		"github.token":                       "ghp_file",
		"scheduler.enabled":                  true,
		"scheduler.refresh_interval_minutes": int64(30),
	}, nil)

	got := s.Get()

	assert.Equal(t, domain.ChunkUnitChars, got.Chunker.Unit)
	assert.Equal(t, 800, got.Chunker.Size)
	assert.Equal(t, 0, got.Chunker.Overlap)
	assert.Equal(t, "mbft-index", got.Segmenter.PatternSet)
	assert.Equal(t, []string{"resolução"}, got.Segmenter.ExpectedHints)
	assert.Equal(t, domain.IndexEngineBleve, got.Index.Engine)
	assert.Equal(t, domain.ScoringTF, got.Index.Scoring)
	assert.Equal(t, 4, got.Index.MinTokenLength)
	assert.Equal(t, 160, got.Retrieval.SnippetRadius)
	assert.Equal(t, 1.5, got.Retrieval.MinScore)
	assert.Equal(t, 0.4, got.Retrieval.SimilarityThreshold)
	assert.Equal(t, 8, got.Ingest.Workers)
	assert.Equal(t, 5*time.Second, got.Ingest.Timeout)
	assert.Equal(t, domain.WhitespaceSpaces, got.Ingest.Whitespace)
	assert.Equal(t, 1.0, got.Web.RequestsPerSecond)
	assert.True(t, got.Web.Readability)
	assert.Equal(t, "ghp_file", got.Remote.GitHubToken)
	assert.True(t, got.Scheduler.Enabled)
	assert.Equal(t, 30*time.Minute, got.Scheduler.GetTaskConfig(domain.TaskIDSourceRefresh).Interval)
}

func TestSettingsService_InvalidValuesFallBack(t *testing.T) {
	s := newSettingsService(map[string]any{
		"chunker.unit":          "pages",
		"chunker.size":          int64(-1),
		"index.engine":          "xapian",
		"index.scoring":         "cosine",
		"normaliser.whitespace": "tabs",
	}, nil)

	got := s.Get()
	d := domain.DefaultSettings()

	assert.Equal(t, d.Chunker.Unit, got.Chunker.Unit)
	assert.Equal(t, d.Chunker.Size, got.Chunker.Size)
	assert.Equal(t, d.Index.Engine, got.Index.Engine)
	assert.Equal(t, d.Index.Scoring, got.Index.Scoring)
	assert.Equal(t, d.Ingest.Whitespace, got.Ingest.Whitespace)
}

func TestSettingsService_EnvOverrides(t *testing.T) {
	s := newSettingsService(
		map[string]any{"github.token": "from-file", "gdrive.api_key": "file-key"},
		map[string]string{
			EnvGitHubToken:  "from-env",
			EnvGDriveAPIKey: "env-key",
			EnvGDriveToken:  "ya29.token",
		},
	)

	got := s.Get()

	assert.Equal(t, "from-env", got.Remote.GitHubToken)
	assert.Equal(t, "env-key", got.Remote.GDriveAPIKey)
	assert.Equal(t, "ya29.token", got.Remote.GDriveAccessToken)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	s := NewSettingsService(store)

	require.NoError(t, s.Set("chunker.size", "300"))
	require.NoError(t, s.Set("retrieval.min_score", "0.5"))
	require.NoError(t, s.Set("web.readability", "true"))
	require.NoError(t, s.Set("index.engine", "bleve"))

	assert.Equal(t, 300, store.GetInt("chunker.size"))
	assert.Equal(t, 0.5, store.GetFloat("retrieval.min_score"))
	assert.True(t, store.GetBool("web.readability"))
	assert.Equal(t, "bleve", store.GetString("index.engine"))

	err := s.Set("chunker.size", "big")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = s.Set("llm.provider", "openai")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Contains(t, s.Keys(), "ingest.workers")
	assert.Equal(t, ":memory:", s.Path())
}

func TestSettingsService_SetList(t *testing.T) {
	store := memory.NewConfigStore()
	s := NewSettingsService(store)

	require.NoError(t, s.Set("segmenter.expected", " mbft, resolução ,, ficha"))
	assert.Equal(t, []string{"mbft", "resolução", "ficha"}, s.Get().Segmenter.ExpectedHints)

	require.NoError(t, s.Set("segmenter.expected", ""))
	assert.Empty(t, s.Get().Segmenter.ExpectedHints)
}
