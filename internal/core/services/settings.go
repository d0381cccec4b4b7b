package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkerUnit          = "chunker.unit"
	keyChunkerSize          = "chunker.size"
	keyChunkerOverlap       = "chunker.overlap"
	keyPatternSet           = "segmenter.pattern_set"
	keyPatternsFile         = "segmenter.patterns_file"
	keyExpectedHints        = "segmenter.expected"
	keyIndexEngine          = "index.engine"
	keyIndexScoring         = "index.scoring"
	keyMinTokenLength       = "index.min_token_length"
	keySnippetRadius        = "retrieval.snippet_radius"
	keyProbePerSource       = "retrieval.probe_per_source"
	keyMinScore             = "retrieval.min_score"
	keySimilarityThreshold  = "retrieval.similarity_threshold"
	keyIngestWorkers        = "ingest.workers"
	keyIngestTimeout        = "ingest.timeout_seconds"
	keyIngestMaxBytes       = "ingest.max_bytes"
	keyWhitespace           = "normaliser.whitespace"
	keyWebUserAgent         = "web.user_agent"
	keyWebRate              = "web.requests_per_second"
	keyWebReadability       = "web.readability"
	keyGitHubToken          = "github.token"
	keyGDriveCredentials    = "gdrive.credentials_file"
	keyGDriveAPIKey         = "gdrive.api_key"
	keySchedulerEnabled     = "scheduler.enabled"
	keySchedulerRefreshMins = "scheduler.refresh_interval_minutes"
)

// Environment overrides.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvHome         = "BABIX_HOME"
	EnvVerbose      = "BABIX_VERBOSE"
	EnvGitHubToken  = "BABIX_GITHUB_TOKEN"
	EnvGDriveAPIKey = "BABIX_GDRIVE_API_KEY"
	EnvGDriveToken  = "BABIX_GDRIVE_TOKEN"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

var knownKeys = map[string]keyKind{
	keyChunkerUnit:          kindString,
	keyChunkerSize:          kindInt,
	keyChunkerOverlap:       kindInt,
	keyPatternSet:           kindString,
	keyPatternsFile:         kindString,
	keyExpectedHints:        kindList,
	keyIndexEngine:          kindString,
	keyIndexScoring:         kindString,
	keyMinTokenLength:       kindInt,
	keySnippetRadius:        kindInt,
	keyProbePerSource:       kindInt,
	keyMinScore:             kindFloat,
	keySimilarityThreshold:  kindFloat,
	keyIngestWorkers:        kindInt,
	keyIngestTimeout:        kindInt,
	keyIngestMaxBytes:       kindInt,
	keyWhitespace:           kindString,
	keyWebUserAgent:         kindString,
	keyWebRate:              kindFloat,
	keyWebReadability:       kindBool,
	keyGitHubToken:          kindString,
	keyGDriveCredentials:    kindString,
	keyGDriveAPIKey:         kindString,
	keySchedulerEnabled:     kindBool,
	keySchedulerRefreshMins: kindInt,
}

// SettingsService maps the config store onto domain.Settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore, getenv: os.Getenv}
}

// LoadSettings is a shorthand for NewSettingsService(cs).Get().
func LoadSettings(cs driven.ConfigStore) domain.Settings {
	return NewSettingsService(cs).Get()
}

// Get returns the effective settings: defaults, then the config file,
// then environment overrides. Invalid values fall back to defaults.
func (s *SettingsService) Get() domain.Settings {
	d := domain.DefaultSettings()

	settings := domain.Settings{
		Chunker: domain.ChunkerSettings{
			Unit:    s.getChunkUnit(d.Chunker.Unit),
			Size:    s.getPositiveInt(keyChunkerSize, d.Chunker.Size),
			Overlap: s.getInt(keyChunkerOverlap, d.Chunker.Overlap),
		},
		Segmenter: domain.SegmenterSettings{
			PatternSet:    s.getString(keyPatternSet, d.Segmenter.PatternSet),
			PatternsFile:  s.configStore.GetString(keyPatternsFile),
			ExpectedHints: s.configStore.GetStringSlice(keyExpectedHints),
		},
		Index: domain.IndexSettings{
			Engine:         s.getIndexEngine(d.Index.Engine),
			Scoring:        s.getScoring(d.Index.Scoring),
			MinTokenLength: s.getPositiveInt(keyMinTokenLength, d.Index.MinTokenLength),
		},
		Retrieval: domain.RetrievalSettings{
			SnippetRadius:       s.getPositiveInt(keySnippetRadius, d.Retrieval.SnippetRadius),
			ProbePerSource:      s.getPositiveInt(keyProbePerSource, d.Retrieval.ProbePerSource),
			MinScore:            s.getFloat(keyMinScore, d.Retrieval.MinScore),
			SimilarityThreshold: s.getFloat(keySimilarityThreshold, d.Retrieval.SimilarityThreshold),
		},
		Ingest: domain.IngestSettings{
			Workers:    s.getPositiveInt(keyIngestWorkers, d.Ingest.Workers),
			Timeout:    time.Duration(s.getPositiveInt(keyIngestTimeout, int(d.Ingest.Timeout/time.Second))) * time.Second,
			MaxBytes:   int64(s.getPositiveInt(keyIngestMaxBytes, int(d.Ingest.MaxBytes))),
			Whitespace: s.getWhitespace(d.Ingest.Whitespace),
		},
		Web: domain.WebSettings{
			UserAgent:         s.getString(keyWebUserAgent, d.Web.UserAgent),
			RequestsPerSecond: s.getFloat(keyWebRate, d.Web.RequestsPerSecond),
			Readability:       s.getBool(keyWebReadability, d.Web.Readability),
		},
		Remote: domain.RemoteSettings{
			GitHubToken:          s.configStore.GetString(keyGitHubToken),
			GDriveCredentialFile: s.configStore.GetString(keyGDriveCredentials),
			GDriveAPIKey:         s.configStore.GetString(keyGDriveAPIKey),
		},
		Scheduler: s.getSchedulerConfig(),
	}

	s.applyEnv(&settings)
	return settings
}

func (s *SettingsService) applyEnv(settings *domain.Settings) {
	if v := s.getenv(EnvGitHubToken); v != "" {
		settings.Remote.GitHubToken = v
	}
	if v := s.getenv(EnvGDriveAPIKey); v != "" {
		settings.Remote.GDriveAPIKey = v
	}
	if v := s.getenv(EnvGDriveToken); v != "" {
		settings.Remote.GDriveAccessToken = v
	}
}

// Set validates and stores a single key. Values arrive as strings from the
// command line and are converted to the key's type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer", domain.ErrInvalidInput, key)
		}
		typed = int64(n)
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	case kindList:
		// comma separated; an empty value clears the list
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		typed = items
	default:
		typed = value
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Path is where Set persists values.
func (s *SettingsService) Path() string { return s.configStore.Path() }

// Keys returns every recognised setting key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ==================== Typed getters ====================

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); exists {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); exists {
		return s.configStore.GetFloat(key)
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); exists {
		return s.configStore.GetBool(key)
	}
	return defaultVal
}

func (s *SettingsService) getChunkUnit(defaultVal domain.ChunkUnit) domain.ChunkUnit {
	unit := domain.ChunkUnit(s.configStore.GetString(keyChunkerUnit))
	if !unit.IsValid() {
		return defaultVal
	}
	return unit
}

func (s *SettingsService) getIndexEngine(defaultVal domain.IndexEngine) domain.IndexEngine {
	engine := domain.IndexEngine(s.configStore.GetString(keyIndexEngine))
	if !engine.IsValid() {
		return defaultVal
	}
	return engine
}

func (s *SettingsService) getScoring(defaultVal domain.ScoringMode) domain.ScoringMode {
	mode := domain.ScoringMode(s.configStore.GetString(keyIndexScoring))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getWhitespace(defaultVal domain.WhitespaceMode) domain.WhitespaceMode {
	switch mode := domain.WhitespaceMode(s.configStore.GetString(keyWhitespace)); mode {
	case domain.WhitespaceLines, domain.WhitespaceSpaces:
		return mode
	default:
		return defaultVal
	}
}

// getSchedulerConfig returns the scheduler configuration.
func (s *SettingsService) getSchedulerConfig() domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()

	if _, exists := s.configStore.Get(keySchedulerEnabled); exists {
		cfg.Enabled = s.configStore.GetBool(keySchedulerEnabled)
	}

	refresh := cfg.TaskConfigs[domain.TaskIDSourceRefresh]
	if mins := s.configStore.GetInt(keySchedulerRefreshMins); mins > 0 {
		refresh.Interval = time.Duration(mins) * time.Minute
	}
	cfg.TaskConfigs[domain.TaskIDSourceRefresh] = refresh

	return cfg
}
