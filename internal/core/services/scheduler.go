package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

var _ driving.Scheduler = (*Scheduler)(nil)

// runRetention is the number of runs kept per task.
const runRetention = 100

// job performs one execution of a scheduled task and tallies it on run.
type job struct {
	name string
	fn   func(ctx context.Context, run *domain.TaskRun) error
}

// Scheduler re-runs registered jobs at their configured interval. Task
// state lives in the SchedulerStore so intervals carry across restarts.
type Scheduler struct {
	config domain.SchedulerConfig
	store  driven.SchedulerStore
	ingest driving.IngestService
	tick   time.Duration
	jobs   map[string]job

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	inflight map[string]bool
	wg       sync.WaitGroup
}

func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	ingest driving.IngestService,
) *Scheduler {
	s := &Scheduler{
		config:   config,
		store:    store,
		ingest:   ingest,
		tick:     time.Minute,
		inflight: make(map[string]bool),
	}
	s.jobs = map[string]job{
		domain.TaskIDSourceRefresh: {name: "Source Refresh", fn: s.runSourceRefresh},
	}
	return s
}

// Start blocks until Stop is called or ctx is cancelled. A second call
// while running returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise tasks: %v", err)
	}

	return s.loop(ctx, stopCh)
}

// Stop ends the loop and waits for in-flight runs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// initialiseTasks brings the store in line with config. Jobs that are
// disabled or have no interval lose their task and run log.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	var errs []error
	for id, j := range s.jobs {
		cfg := s.config.GetTaskConfig(id)
		var err error
		if !cfg.Enabled || cfg.Interval <= 0 {
			err = s.store.DeleteTask(ctx, id)
		} else {
			err = s.ensureTask(ctx, id, j.name, cfg)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// ensureTask creates the task or applies a changed interval, which
// reschedules it from now.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	switch {
	case task == nil:
		task = &domain.ScheduledTask{ID: id, Name: name, NextRun: now.Add(cfg.Interval)}
	case task.Interval != cfg.Interval:
		task.NextRun = now.Add(cfg.Interval)
	}
	task.Interval = cfg.Interval
	task.Enabled = cfg.Enabled

	return s.store.SaveTask(ctx, task)
}

// Status returns every persisted task with its most recent runs.
func (s *Scheduler) Status(ctx context.Context, runs int) ([]domain.TaskStatus, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	out := make([]domain.TaskStatus, 0, len(tasks))
	for _, task := range tasks {
		recent, err := s.store.Runs(ctx, task.ID, runs)
		if err != nil {
			return nil, fmt.Errorf("loading runs of %s: %w", task.ID, err)
		}
		out = append(out, domain.TaskStatus{Task: task, Runs: recent})
	}
	return out, nil
}

func (s *Scheduler) loop(ctx context.Context, stopCh <-chan struct{}) error {
	s.dispatchDue(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.dispatchDue(ctx)
		}
	}
}

// dispatchDue starts every due task that is not already running.
func (s *Scheduler) dispatchDue(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		if tasks[i].Due(now) {
			s.dispatch(ctx, &tasks[i])
		}
	}
}

// dispatch runs task in the background. It reports false when the task
// has no registered job or a previous run has not finished yet.
func (s *Scheduler) dispatch(ctx context.Context, task *domain.ScheduledTask) bool {
	j, ok := s.jobs[task.ID]
	if !ok {
		logger.Warn("scheduler: no job registered for task %s", task.ID)
		return false
	}

	s.mu.Lock()
	if s.inflight[task.ID] {
		s.mu.Unlock()
		logger.Debug("scheduler: %s still running, not starting another", task.ID)
		return false
	}
	s.inflight[task.ID] = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.release(task.ID)
		s.execute(ctx, task, j)
	}()
	return true
}

func (s *Scheduler) release(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// execute runs one job and persists the task, the run and the trimmed log.
func (s *Scheduler) execute(ctx context.Context, task *domain.ScheduledTask, j job) {
	run := &domain.TaskRun{TaskID: task.ID, StartedAt: time.Now()}
	err := j.fn(ctx, run)
	run.EndedAt = time.Now()

	task.LastRun = run.StartedAt
	task.NextRun = run.EndedAt.Add(task.Interval)
	if err != nil {
		run.Error = err.Error()
		task.LastError = run.Error
		logger.Warn("scheduler: %s failed: %v", task.ID, err)
	} else {
		task.LastError = ""
		task.LastSuccess = run.EndedAt
	}

	if err := s.store.SaveTask(ctx, task); err != nil {
		logger.Warn("scheduler: failed to save task %s: %v", task.ID, err)
	}
	if err := s.store.AppendRun(ctx, run); err != nil {
		logger.Warn("scheduler: failed to record run of %s: %v", task.ID, err)
	}
	if err := s.store.TrimRuns(ctx, runRetention); err != nil {
		logger.Warn("scheduler: failed to trim runs: %v", err)
	}
}

// runSourceRefresh re-ingests every registered origin. A refresh already
// started by another caller counts as a successful, empty run.
func (s *Scheduler) runSourceRefresh(ctx context.Context, run *domain.TaskRun) error {
	if s.ingest == nil {
		return nil
	}

	results, err := s.ingest.RefreshAll(ctx)
	if errors.Is(err, domain.ErrIngestInProgress) {
		logger.Info("scheduler: refresh already running, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		run.Tally(r)
	}
	logger.Info("scheduler: refreshed %d sources (%d re-indexed, %d unchanged, %d failed)",
		run.Sources(), run.Indexed, run.Skipped, run.Failed)
	return nil
}
