package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driving"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler periodically invokes the sync jobs. It is a pure core service
// with no external control API. A per-task overlap guard supplies the
// mutual-exclusion convention the checkpoint read-modify-write depends on:
// a new invocation of a job never starts while a previous one is running.
type Scheduler struct {
	store  driven.SchedulerStore
	runner driving.SyncRunner

	mu      sync.Mutex
	config  domain.SchedulerConfig
	running bool
	active  map[string]bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	runner driving.SyncRunner,
) *Scheduler {
	return &Scheduler{
		config: config,
		store:  store,
		runner: runner,
		active: make(map[string]bool),
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Initialise tasks in store
	if err := s.initialiseTasks(ctx); err != nil {
		log.Printf("scheduler: failed to initialise tasks: %v", err)
	}

	// Run the main scheduler loop
	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for running tasks to complete
	s.wg.Wait()

	return nil
}

// Reload applies a new configuration, updating task intervals in the store.
// Called when the config file changes while the daemon is running.
func (s *Scheduler) Reload(ctx context.Context, config domain.SchedulerConfig) {
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		log.Printf("scheduler: failed to reload tasks: %v", err)
	}
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	s.mu.Lock()
	config := s.config
	s.mu.Unlock()

	if taskCfg := config.GetTaskConfig(domain.TaskIDPullSync); taskCfg.Enabled {
		if err := s.ensureTask(ctx, domain.TaskIDPullSync, "Pull Sync", taskCfg); err != nil {
			return err
		}
	}
	if taskCfg := config.GetTaskConfig(domain.TaskIDPushSync); taskCfg.Enabled {
		if err := s.ensureTask(ctx, domain.TaskIDPushSync, "Push Sync", taskCfg); err != nil {
			return err
		}
	}

	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		// Create new task
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  time.Now().Add(cfg.Interval),
		}
	} else {
		// Update interval if changed
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			// Recalculate next run from now
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	// Check for due tasks immediately on startup
	s.checkAndRunDueTasks(ctx)

	// Use a 30-second ticker to check for due tasks; the shortest task
	// interval is one minute.
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		log.Printf("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || task.NextRun.Before(now) || task.NextRun.Equal(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task, unless an invocation of the same task is
// still in flight.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.mu.Lock()
	if s.active[task.ID] {
		s.mu.Unlock()
		return
	}
	s.active[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.active, task.ID)
			s.mu.Unlock()
		}()

		started := time.Now()
		var report domain.RunReport
		switch task.ID {
		case domain.TaskIDPullSync:
			report = s.runner.RunPull(ctx)
		case domain.TaskIDPushSync:
			report = s.runner.RunPush(ctx)
		default:
			log.Printf("scheduler: unknown task ID: %s", task.ID)
			return
		}
		ended := time.Now()

		result := &domain.TaskResult{
			TaskID:         task.ID,
			RunID:          report.RunID,
			StartedAt:      started,
			EndedAt:        ended,
			Outcome:        report.Outcome.String(),
			ItemsProcessed: report.Processed,
		}
		if report.Err != nil {
			result.Error = report.Err.Error()
			task.LastError = report.Err.Error()
		} else {
			task.LastError = ""
			task.LastSuccess = ended
		}

		// Update task state
		task.LastRun = started
		task.NextRun = ended.Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			log.Printf("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}

		// Record result for history
		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			log.Printf("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}

		// Prune old history (keep last 100 results per task)
		if pruneErr := s.store.PruneHistory(ctx, 100); pruneErr != nil {
			log.Printf("scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}
