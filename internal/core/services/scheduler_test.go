package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driving"
)

// --- Mock implementations for scheduler testing ---

// mockSchedulerStore implements driven.SchedulerStore for testing.
type mockSchedulerStore struct {
	mu      sync.RWMutex
	tasks   map[string]*domain.ScheduledTask
	results map[string][]domain.TaskResult
	saveErr error
	listErr error
	getErr  error
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{
		tasks:   make(map[string]*domain.ScheduledTask),
		results: make(map[string][]domain.TaskResult),
	}
}

func (m *mockSchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	task, exists := m.tasks[taskID]
	if !exists {
		return nil, nil
	}
	taskCopy := *task
	return &taskCopy, nil
}

func (m *mockSchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	tasks := make([]domain.ScheduledTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (m *mockSchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if task == nil {
		return domain.ErrInvalidInput
	}
	taskCopy := *task
	m.tasks[task.ID] = &taskCopy
	return nil
}

func (m *mockSchedulerStore) DeleteTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, taskID)
	return nil
}

func (m *mockSchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if result == nil {
		return domain.ErrInvalidInput
	}
	m.results[result.TaskID] = append(m.results[result.TaskID], *result)
	return nil
}

func (m *mockSchedulerStore) GetTaskHistory(_ context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := m.results[taskID]
	if len(results) > limit {
		results = results[len(results)-limit:]
	}
	return results, nil
}

func (m *mockSchedulerStore) PruneHistory(_ context.Context, _ int) error {
	return nil
}

func (m *mockSchedulerStore) resultsFor(taskID string) []domain.TaskResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.TaskResult, len(m.results[taskID]))
	copy(out, m.results[taskID])
	return out
}

// mockSyncRunner implements driving.SyncRunner for testing. An optional
// blockCh makes RunPull hang until the channel is closed, to exercise the
// overlap guard.
type mockSyncRunner struct {
	mu        sync.Mutex
	pullCalls int
	pushCalls int
	pullErr   error
	blockCh   chan struct{}
}

func (m *mockSyncRunner) RunPull(_ context.Context) domain.RunReport {
	m.mu.Lock()
	m.pullCalls++
	block := m.blockCh
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	report := domain.RunReport{Job: "pull", RunID: "run-pull", Outcome: domain.OutcomeCompleted, Processed: 7}
	if m.pullErr != nil {
		report.Outcome = domain.OutcomeFatal
		report.Err = m.pullErr
	}
	return report
}

func (m *mockSyncRunner) RunPush(_ context.Context) domain.RunReport {
	m.mu.Lock()
	m.pushCalls++
	m.mu.Unlock()
	return domain.RunReport{Job: "push", RunID: "run-push", Outcome: domain.OutcomeCompleted, Processed: 3}
}

func (m *mockSyncRunner) calls() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pullCalls, m.pushCalls
}

// Ensure mocks implement interfaces
var _ driven.SchedulerStore = (*mockSchedulerStore)(nil)
var _ driving.SyncRunner = (*mockSyncRunner)(nil)

// ==================== Scheduler Tests ====================

func TestNewScheduler(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{}

	scheduler := NewScheduler(config, store, runner)

	require.NotNil(t, scheduler)
	assert.Equal(t, config.Enabled, scheduler.config.Enabled)
}

func TestScheduler_StartStop(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{}

	scheduler := NewScheduler(config, store, runner)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = scheduler.Start(ctx)
	}()

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	cancel()
	err := scheduler.Stop()
	require.NoError(t, err)

	wg.Wait()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{}

	scheduler := NewScheduler(config, store, runner)

	// Stop without starting should be safe
	err := scheduler.Stop()
	require.NoError(t, err)
}

func TestScheduler_InitialiseTasks(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{}

	scheduler := NewScheduler(config, store, runner)

	ctx := context.Background()
	err := scheduler.initialiseTasks(ctx)
	require.NoError(t, err)

	pullTask, err := store.GetTask(ctx, domain.TaskIDPullSync)
	require.NoError(t, err)
	require.NotNil(t, pullTask)
	assert.Equal(t, "Pull Sync", pullTask.Name)
	assert.True(t, pullTask.Enabled)

	pushTask, err := store.GetTask(ctx, domain.TaskIDPushSync)
	require.NoError(t, err)
	require.NotNil(t, pushTask)
	assert.Equal(t, 5*time.Hour, pushTask.Interval)
}

func TestScheduler_EnsureTask_UpdateInterval(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{}

	scheduler := NewScheduler(config, store, runner)
	ctx := context.Background()

	taskCfg := domain.TaskConfig{
		Enabled:  true,
		Interval: 1 * time.Hour,
	}
	err := scheduler.ensureTask(ctx, "test-task", "Test Task", taskCfg)
	require.NoError(t, err)

	taskCfg.Interval = 2 * time.Hour
	err = scheduler.ensureTask(ctx, "test-task", "Test Task", taskCfg)
	require.NoError(t, err)

	task, err := store.GetTask(ctx, "test-task")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, task.Interval)
}

func TestScheduler_Reload_UpdatesInterval(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{}

	scheduler := NewScheduler(config, store, runner)
	ctx := context.Background()
	require.NoError(t, scheduler.initialiseTasks(ctx))

	config.TaskConfigs[domain.TaskIDPullSync] = domain.TaskConfig{
		Enabled:  true,
		Interval: 10 * time.Minute,
	}
	scheduler.Reload(ctx, config)

	task, err := store.GetTask(ctx, domain.TaskIDPullSync)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, task.Interval)
}

func TestScheduler_CheckAndRunDueTasks(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{}

	scheduler := NewScheduler(config, store, runner)
	ctx := context.Background()

	now := time.Now()
	dueTask := &domain.ScheduledTask{
		ID:       domain.TaskIDPullSync,
		Name:     "Pull Sync",
		Interval: 1 * time.Minute,
		NextRun:  now.Add(-1 * time.Minute), // Already past due
		Enabled:  true,
	}
	require.NoError(t, store.SaveTask(ctx, dueTask))

	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()

	pulls, pushes := runner.calls()
	assert.Equal(t, 1, pulls)
	assert.Equal(t, 0, pushes)

	// Task state moved forward and a result was recorded.
	task, err := store.GetTask(ctx, domain.TaskIDPullSync)
	require.NoError(t, err)
	assert.True(t, task.NextRun.After(now))
	assert.False(t, task.LastSuccess.IsZero())

	results := store.resultsFor(domain.TaskIDPullSync)
	require.Len(t, results, 1)
	assert.Equal(t, "run-pull", results[0].RunID)
	assert.Equal(t, domain.OutcomeCompleted.String(), results[0].Outcome)
	assert.Equal(t, 7, results[0].ItemsProcessed)
}

func TestScheduler_DisabledTaskNotRun(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{}

	scheduler := NewScheduler(config, store, runner)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID:      domain.TaskIDPushSync,
		Name:    "Push Sync",
		NextRun: time.Now().Add(-time.Minute),
		Enabled: false,
	}))

	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()

	_, pushes := runner.calls()
	assert.Equal(t, 0, pushes)
}

func TestScheduler_OverlapGuard(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{blockCh: make(chan struct{})}

	scheduler := NewScheduler(config, store, runner)
	ctx := context.Background()

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDPullSync,
		Name:     "Pull Sync",
		Interval: 1 * time.Minute,
		NextRun:  time.Now().Add(-time.Minute),
		Enabled:  true,
	}
	require.NoError(t, store.SaveTask(ctx, task))

	// First tick launches the run, which blocks; the second tick must not
	// start another invocation of the same task while it is in flight.
	scheduler.checkAndRunDueTasks(ctx)
	time.Sleep(50 * time.Millisecond)
	scheduler.checkAndRunDueTasks(ctx)
	time.Sleep(50 * time.Millisecond)

	close(runner.blockCh)
	scheduler.wg.Wait()

	pulls, _ := runner.calls()
	assert.Equal(t, 1, pulls)
}

func TestScheduler_FailedRunRecordsError(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	runner := &mockSyncRunner{pullErr: assert.AnError}

	scheduler := NewScheduler(config, store, runner)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID:       domain.TaskIDPullSync,
		Name:     "Pull Sync",
		Interval: 1 * time.Minute,
		NextRun:  time.Now().Add(-time.Minute),
		Enabled:  true,
	}))

	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()

	task, err := store.GetTask(ctx, domain.TaskIDPullSync)
	require.NoError(t, err)
	assert.NotEmpty(t, task.LastError)
	assert.True(t, task.LastSuccess.IsZero())

	results := store.resultsFor(domain.TaskIDPullSync)
	require.Len(t, results, 1)
	assert.Equal(t, domain.OutcomeFatal.String(), results[0].Outcome)
	assert.NotEmpty(t, results[0].Error)
}

func TestScheduler_RunTask_UnknownTaskID(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()

	scheduler := NewScheduler(config, store, nil)
	ctx := context.Background()

	task := &domain.ScheduledTask{
		ID:      "unknown-task",
		Name:    "Unknown",
		Enabled: true,
	}

	// This should just log and return, not panic
	scheduler.runTask(ctx, task)
	scheduler.wg.Wait()
}
