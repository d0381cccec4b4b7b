package driving

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// Scheduler runs periodic source refresh in the background.
type Scheduler interface {
	// Start blocks until Stop is called or ctx is cancelled.
	Start(ctx context.Context) error

	// Stop waits for in-flight runs to finish.
	Stop() error

	// Status lists every persisted task with up to runs recent runs.
	Status(ctx context.Context, runs int) ([]domain.TaskStatus, error)
}
