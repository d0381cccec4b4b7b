package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func TestScheduleCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Scheduler.Enabled = true

	started := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	ts.scheduler.status = []domain.TaskStatus{{
		Task: domain.ScheduledTask{
			ID: domain.TaskIDSourceRefresh, Interval: 6 * time.Hour, Enabled: true,
			LastRun: started, NextRun: started.Add(6 * time.Hour), LastError: "gdrive://abc: 403",
		},
		Runs: []domain.TaskRun{
			{StartedAt: started, EndedAt: started.Add(1500 * time.Millisecond), Indexed: 2, Skipped: 7, Failed: 1},
			{StartedAt: started.Add(-6 * time.Hour), EndedAt: started.Add(-6 * time.Hour), Error: "context canceled"},
		},
	}}

	out, err := execute(t, "schedule", "--runs", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, ts.scheduler.runs)
	assert.NotContains(t, out, "disabled")
	assert.Contains(t, out, "source-refresh")
	assert.Contains(t, out, "every 6h0m0s")
	assert.Contains(t, out, "gdrive://abc: 403")
	assert.Contains(t, out, "2 indexed, 7 unchanged, 1 failed (1.5s)")
	assert.Contains(t, out, "✗")
}

func TestScheduleCmd_EmptyAndDisabled(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduler is disabled")
	assert.Contains(t, out, "No scheduled tasks.")
}

func TestScheduleCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.scheduler.status = []domain.TaskStatus{{Task: domain.ScheduledTask{ID: domain.TaskIDSourceRefresh}}}

	out, err := execute(t, "schedule", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"ID": "source-refresh"`)
}

func TestScheduleCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.scheduler.err = assert.AnError

	_, err := execute(t, "schedule")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStamp(t *testing.T) {
	assert.Equal(t, "never", stamp(time.Time{}))
	assert.NotEqual(t, "never", stamp(time.Now()))
}
