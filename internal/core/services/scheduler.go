package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driving"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

// taskHistoryKeep is how many results are retained per task.
const taskHistoryKeep = 100

// Scheduler manages background analysis runs.
// It is a pure core service with no external control API.
type Scheduler struct {
	config   domain.SchedulerConfig
	store    driven.SchedulerStore
	orch     driving.AnalysisOrchestrator
	notifier driven.Notifier

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. notifier may be nil, in which case
// attention reports are not sent.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	orch driving.AnalysisOrchestrator,
	notifier driven.Notifier,
) *Scheduler {
	return &Scheduler{
		config:   config,
		store:    store,
		orch:     orch,
		notifier: notifier,
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
		logger.Warn("scheduler: failed to initialise tasks: %v", err)
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

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	if taskCfg := s.config.GetTaskConfig(domain.TaskIDRecentAnalysis); taskCfg.Enabled {
		if err := s.ensureTask(ctx, domain.TaskIDRecentAnalysis, "Recent Analysis", taskCfg); err != nil {
			return err
		}
	}
	if taskCfg := s.config.GetTaskConfig(domain.TaskIDFullAnalysis); taskCfg.Enabled {
		if err := s.ensureTask(ctx, domain.TaskIDFullAnalysis, "Full Analysis", taskCfg); err != nil {
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

	// Use a 1-minute ticker to check for due tasks
	ticker := time.NewTicker(1 * time.Minute)
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
		logger.Warn("scheduler: failed to list tasks: %v", err)
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

// runTask executes a single task.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		var err error
		switch task.ID {
		case domain.TaskIDRecentAnalysis:
			result.ItemsProcessed, err = s.runRecentAnalysis(ctx)
		case domain.TaskIDFullAnalysis:
			result.ItemsProcessed, err = s.runFullAnalysis(ctx)
		default:
			logger.Warn("scheduler: unknown task ID: %s", task.ID)
			return
		}

		result.EndedAt = time.Now()
		if err != nil {
			result.Success = false
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		// Update task state
		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Warn("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}

		// Record result for history
		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			logger.Warn("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}

		if pruneErr := s.store.PruneHistory(ctx, taskHistoryKeep); pruneErr != nil {
			logger.Warn("scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// runRecentAnalysis analyses recently modified documents and sends the
// attention report when a notifier is configured.
func (s *Scheduler) runRecentAnalysis(ctx context.Context) (int, error) {
	stats, err := s.orch.RunRecent(ctx, 0)
	if err != nil {
		return 0, err
	}
	s.sendReport(ctx, stats)
	return stats.Processed, nil
}

// runFullAnalysis re-analyses all documents.
func (s *Scheduler) runFullAnalysis(ctx context.Context) (int, error) {
	stats, err := s.orch.RunAll(ctx, false)
	if err != nil {
		return 0, err
	}
	s.sendReport(ctx, stats)
	return stats.Processed, nil
}

func (s *Scheduler) sendReport(ctx context.Context, stats *domain.RunStats) {
	if s.notifier == nil || len(stats.AttentionRequired) == 0 {
		return
	}
	report := s.orch.BuildAttentionReport(stats)
	if err := s.notifier.SendAttentionReport(ctx, report); err != nil {
		logger.Warn("scheduler: failed to send attention report: %v", err)
	}
}
