package domain

import "time"

// TaskIDSourceRefresh re-ingests every registered origin.
const TaskIDSourceRefresh = "source-refresh"

// ScheduledTask is the persisted state of a recurring background task.
type ScheduledTask struct {
	ID       string
	Name     string
	Interval time.Duration
	Enabled  bool

	LastRun     time.Time
	NextRun     time.Time
	LastSuccess time.Time

	// LastError is cleared by the next successful run.
	LastError string
}

// Due reports whether the task should run at now.
func (t ScheduledTask) Due(now time.Time) bool {
	return t.Enabled && (t.NextRun.IsZero() || !t.NextRun.After(now))
}

// TaskRun records one execution of a task. For a source refresh the
// counters mirror the IngestOutcome of every origin visited.
type TaskRun struct {
	TaskID    string
	StartedAt time.Time
	EndedAt   time.Time
	Error     string

	Indexed int
	Skipped int
	Failed  int
}

// Succeeded reports whether the run completed without a task-level error.
// Per-source failures are counted in Failed and do not fail the run.
func (r TaskRun) Succeeded() bool { return r.Error == "" }

// Sources is the number of origins the run visited.
func (r TaskRun) Sources() int { return r.Indexed + r.Skipped + r.Failed }

// Tally adds one ingest result to the run counters.
func (r *TaskRun) Tally(res IngestResult) {
	switch res.Outcome {
	case OutcomeIndexed:
		r.Indexed++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}

// TaskStatus pairs a task with its most recent runs, newest first.
type TaskStatus struct {
	Task ScheduledTask
	Runs []TaskRun
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	// Enabled is the master switch for the scheduler.
	Enabled bool

	// TaskConfigs holds per-task configuration.
	TaskConfigs map[string]TaskConfig
}

// TaskConfig holds configuration for a single task.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// GetTaskConfig returns the configuration for a specific task.
// Returns a zero TaskConfig if the task is not configured.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	if c.TaskConfigs == nil {
		return TaskConfig{}
	}
	return c.TaskConfigs[taskID]
}

// DefaultSchedulerConfig returns the scheduler defaults.
// The scheduler is off unless enabled in the config file.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: false,
		TaskConfigs: map[string]TaskConfig{
			TaskIDSourceRefresh: {
				Enabled:  true,
				Interval: 6 * time.Hour,
			},
		},
	}
}
