package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func TestSourcesCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.sources.stats = []domain.SourceStats{
		{
			Source: domain.Source{
				ID: "abc", Origin: "https://example.org/regras", Title: "Regras", Status: domain.SourceStatusFetched,
				HTTPStatus: 200, ContentHash: "0123456789abcdef0123", FetchedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
			},
			Chunks:  12,
			Records: 4,
		},
		{
			Source: domain.Source{ID: "def", Origin: "/tmp/x.pdf", Status: domain.SourceStatusError, LastError: "pdf has no text layer"},
		},
	}

	out, err := execute(t, "sources")

	require.NoError(t, err)
	assert.Contains(t, out, "fetched  Regras")
	assert.Contains(t, out, "http:    200")
	assert.Contains(t, out, "hash:    0123456789ab")
	assert.Contains(t, out, "12 chunks, 4 records")
	assert.Contains(t, out, "fetched: 2026-03-01 10:30")
	assert.Contains(t, out, "error  /tmp/x.pdf")
	assert.Contains(t, out, "error:   pdf has no text layer")
}

func TestSourcesCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "sources")

	require.NoError(t, err)
	assert.Contains(t, out, "No sources ingested.")
}

func TestSourcesCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.sources.err = errors.New("db locked")

	_, err := execute(t, "sources")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "list sources")
}

func TestReindexCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "reindex")

	require.NoError(t, err)
	assert.Equal(t, 1, ts.reindex)
	assert.Contains(t, out, "Reindexed 42 entries.")
}

func TestReindexCmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	reindexFunc = nil

	_, err := execute(t, "reindex")

	require.Error(t, err)
}

func TestConfigCmd_Show(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Segmenter.ExpectedHints = []string{"mbft", "resolução"}

	out, err := execute(t, "config")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "pattern set: ficha")
	assert.Contains(t, out, "engine: memory")
	assert.Contains(t, out, "2 keys")
	assert.Contains(t, out, "/tmp/babix/config.toml")
	assert.Contains(t, out, "expected hints: mbft, resolução")
}

func TestConfigCmd_Set(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "config", "set", "chunker.size", "120")

	require.NoError(t, err)
	assert.Equal(t, "120", ts.settings.values["chunker.size"])
	assert.Contains(t, out, "chunker.size = 120")

	_, err = execute(t, "config", "set", "nope", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigCmd_Keys(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "config", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "chunker.size\nindex.engine")
}

func TestWatchCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.watcher.results = []domain.IngestResult{
		{Origin: "inbox/novo.pdf", Outcome: domain.OutcomeIndexed, ChunksIndexed: 5},
	}

	out, err := execute(t, "watch", "inbox")

	require.NoError(t, err)
	assert.Equal(t, "inbox", ts.watcher.root)
	assert.Contains(t, out, "Watching inbox")
	assert.Contains(t, out, "inbox/novo.pdf: 5 chunks")
}

func TestWatchCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.watcher.err = errors.New("watch inbox: permission denied")

	_, err := execute(t, "watch", "inbox")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestWatchCmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	folderWatcher = nil

	_, err := execute(t, "watch", "inbox")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch service not configured")
}

func TestWatchCmd_HasMetricsFlag(t *testing.T) {
	assert.NotNil(t, watchCmd.Flags().Lookup("metrics-addr"))
}

func TestMCPServeCmd_Flags(t *testing.T) {
	for _, name := range []string{"http", "read-only", "metrics-addr"} {
		flag := mcpServeCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
	}
	assert.Equal(t, "false", mcpServeCmd.Flags().Lookup("read-only").DefValue)
}

func TestMCPServeCmd_MetricsNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	metricsHandler = nil

	_, err := execute(t, "mcp", "serve", "--metrics-addr", ":0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics not configured")
}

func TestForeground_StopsWithWork(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Scheduler.Enabled = true

	ran := false
	err := foreground(context.Background(), "", func(context.Context) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, ts.scheduler.started)
}

func TestForeground_PropagatesError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	err := foreground(context.Background(), "", func(context.Context) error {
		return errors.New("watcher died")
	})

	assert.EqualError(t, err, "watcher died")
}

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	recordService = nil

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
}

func TestTUICmd(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
	assert.Contains(t, tuiCmd.Long, "Tab")
	assert.Contains(t, tuiCmd.Long, "record lookup")
}

func TestTUICmd_RequiresServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	searchService = nil

	_, err := execute(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
}
