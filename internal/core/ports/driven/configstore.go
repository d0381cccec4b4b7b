package driven

// ConfigStore holds user settings as flat dot-notation keys
// ("chunker.size", "segmenter.expected"). Typed getters return the zero
// value when a key is missing or holds another type, so callers apply
// their own defaults.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string

	// GetInt accepts any integer representation a decoder may produce.
	GetInt(key string) int

	// GetFloat also accepts integers, so "rps = 2" reads as 2.0.
	GetFloat(key string) float64

	GetBool(key string) bool

	// GetStringSlice drops non-string elements of a mixed array.
	GetStringSlice(key string) []string

	// Set stores a value and persists it before returning.
	Set(key string, value any) error

	// Path identifies where values are persisted.
	Path() string
}
