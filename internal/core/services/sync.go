package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/subsync-cli/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncRunner = (*SyncService)(nil)

// SyncService is the job-entry boundary for both sync jobs. Each run gets
// a fresh budget guard and a run ID; every failure is caught here and
// reported through the returned RunReport and the logs, so an invocation
// never crashes the host process.
type SyncService struct {
	checkpoints driven.CheckpointStore
	mirror      driven.MirrorStore
	api         driven.MembershipAPI
	budget      time.Duration
	joinDelay   time.Duration
}

// NewSyncService creates the sync entry points over the given stores.
func NewSyncService(
	checkpoints driven.CheckpointStore,
	mirror driven.MirrorStore,
	api driven.MembershipAPI,
	budget time.Duration,
	joinDelay time.Duration,
) *SyncService {
	return &SyncService{
		checkpoints: checkpoints,
		mirror:      mirror,
		api:         api,
		budget:      budget,
		joinDelay:   joinDelay,
	}
}

// RunPull copies the remote membership list into the mirror.
func (s *SyncService) RunPull(ctx context.Context) domain.RunReport {
	runID := uuid.NewString()
	report := domain.RunReport{Job: "pull", RunID: runID}
	guard := NewBudgetGuard(s.budget)
	job := NewPuller(s.checkpoints, s.mirror, s.api)

	logger.Info("pull %s: starting (budget %s)", runID, s.budget)
	if err := job.prepare(ctx); err != nil {
		report.Outcome = setupOutcome(err)
		report.Err = err
	} else {
		report.Outcome, report.Err = runLoop(ctx, guard, job)
	}
	report.Processed = job.appended
	report.Skipped = job.skipped

	s.logReport(report)
	return report
}

// RunPush subscribes to mirror candidates not yet present remotely.
func (s *SyncService) RunPush(ctx context.Context) domain.RunReport {
	runID := uuid.NewString()
	report := domain.RunReport{Job: "push", RunID: runID}
	guard := NewBudgetGuard(s.budget)
	job := NewPusher(s.checkpoints, s.mirror, s.api, s.joinDelay)

	logger.Info("push %s: starting (budget %s)", runID, s.budget)
	if err := job.prepare(ctx); err != nil {
		report.Outcome = setupOutcome(err)
		report.Err = err
	} else {
		report.Outcome, report.Err = runLoop(ctx, guard, job)
	}
	report.Processed = job.joined
	report.Skipped = job.skipped
	report.Failed = job.failed

	s.logReport(report)
	return report
}

// setupOutcome maps a prepare failure to a run outcome. Quota can exhaust
// during the pre-flight listing itself; everything else that fails before
// the loop starts is fatal for the run.
func setupOutcome(err error) domain.RunOutcome {
	if domain.ClassifyFailure(err) == domain.FailureQuota {
		return domain.OutcomeYieldedOnQuota
	}
	return domain.OutcomeFatal
}

// logReport writes the terminal log line operators use to reconstruct job
// health across consecutive scheduled ticks.
func (s *SyncService) logReport(r domain.RunReport) {
	if r.Err != nil {
		logger.Warn("%s %s: %s (%s failure): %d applied, %d skipped, %d failed: %v",
			r.Job, r.RunID, r.Outcome, domain.ClassifyFailure(r.Err),
			r.Processed, r.Skipped, r.Failed, r.Err)
		return
	}
	logger.Info("%s %s: %s: %d applied, %d skipped, %d failed",
		r.Job, r.RunID, r.Outcome, r.Processed, r.Skipped, r.Failed)
}
