package driven

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// SchedulerStore persists task state so refresh schedules survive restarts.
type SchedulerStore interface {
	// GetTask returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all tasks ordered by ID.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or updates a task by ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	DeleteTask(ctx context.Context, taskID string) error

	// AppendRun records one execution of a task.
	AppendRun(ctx context.Context, run *domain.TaskRun) error

	// Runs returns up to limit runs of a task, newest first.
	Runs(ctx context.Context, taskID string, limit int) ([]domain.TaskRun, error)

	// TrimRuns keeps the newest keep runs per task.
	TrimRuns(ctx context.Context, keep int) error
}
