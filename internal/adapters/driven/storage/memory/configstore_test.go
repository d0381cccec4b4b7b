package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"chunker.unit":                   "chars",
		"chunker.size":                   int64(120),
		"retrieval.similarity_threshold": 0.4,
		"retrieval.min_score":            int64(2),
		"scheduler.enabled":              true,
		"segmenter.expected":             []any{"mbft", 3, "ficha"},
	})

	assert.Equal(t, "chars", store.GetString("chunker.unit"))
	assert.Equal(t, 120, store.GetInt("chunker.size"))
	assert.InDelta(t, 0.4, store.GetFloat("retrieval.similarity_threshold"), 1e-9)
	assert.InDelta(t, 2.0, store.GetFloat("retrieval.min_score"), 1e-9)
	assert.True(t, store.GetBool("scheduler.enabled"))
	assert.Equal(t, []string{"mbft", "ficha"}, store.GetStringSlice("segmenter.expected"))
}

func TestConfigStore_MissingAndMistyped(t *testing.T) {
	store := NewConfigStore(map[string]any{"n": "not a number"})

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("n"))
	assert.Equal(t, 0.0, store.GetFloat("n"))
	assert.False(t, store.GetBool("n"))
	assert.Nil(t, store.GetStringSlice("n"))
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("k", "a"))
	require.NoError(t, store.Set("k", "b"))

	val, ok := store.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "b", val)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SeedOrder(t *testing.T) {
	store := NewConfigStore(
		map[string]any{"chunker.size": 100, "chunker.unit": "words"},
		map[string]any{"chunker.size": 3.0},
	)

	assert.Equal(t, 3, store.GetInt("chunker.size"))
	assert.Equal(t, "words", store.GetString("chunker.unit"))
	assert.Equal(t, []string{"a"}, NewConfigStore(map[string]any{"k": []string{"a"}}).GetStringSlice("k"))
}

func TestConfigStore_SnapshotIsACopy(t *testing.T) {
	store := NewConfigStore(map[string]any{"a": 1})

	snap := store.Snapshot()
	snap["a"] = 2

	assert.Equal(t, 1, store.GetInt("a"))
}
