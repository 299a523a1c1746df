package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/logger"
)

// batchJob is the capability set a sync job exposes to the shared run loop:
// perform one unit of work, persist the checkpoint for the first
// unprocessed unit, and clear the checkpoint after a complete pass.
// The pull and push jobs differ only in this capability set; the loop
// itself is identical for both.
type batchJob interface {
	// Name identifies the job in log lines.
	Name() string

	// Step performs one unit of work (one page fetch for the puller, one
	// candidate for the pusher). done reports that the job has exhausted
	// its input. A returned error stops the run; errors the job can
	// safely skip past are absorbed inside Step.
	Step(ctx context.Context) (done bool, err error)

	// Yield persists the checkpoint for the first unprocessed unit.
	Yield(ctx context.Context) error

	// Finish clears the checkpoint after a complete pass, so the next
	// invocation starts over and re-validates state.
	Finish(ctx context.Context) error
}

// runLoop drives a job until completion, budget expiry, quota exhaustion or
// a fatal failure. Checkpoints move only at the exit points below and at
// Step's own commit points; quota exhaustion freezes them where they are,
// because the whole remote account is blocked and further attempts cannot
// make progress.
func runLoop(ctx context.Context, guard *BudgetGuard, job batchJob) (domain.RunOutcome, error) {
	for {
		if ctx.Err() != nil {
			// External cancellation behaves like budget expiry: persist
			// the resume point and stop.
			if err := job.Yield(context.WithoutCancel(ctx)); err != nil {
				return domain.OutcomeFatal, fmt.Errorf("yield %s: %w", job.Name(), err)
			}
			logger.Info("%s: cancelled, yielding", job.Name())
			return domain.OutcomeYieldedOnBudget, ctx.Err()
		}

		if guard.Expired() {
			if err := job.Yield(ctx); err != nil {
				return domain.OutcomeFatal, fmt.Errorf("yield %s: %w", job.Name(), err)
			}
			logger.Info("%s: time budget expired, yielding", job.Name())
			return domain.OutcomeYieldedOnBudget, nil
		}

		done, err := job.Step(ctx)
		if err != nil {
			if domain.ClassifyFailure(err) == domain.FailureQuota {
				logger.Warn("%s: quota exhausted, freezing checkpoint", job.Name())
				return domain.OutcomeYieldedOnQuota, err
			}
			return domain.OutcomeFatal, err
		}

		if done {
			if err := job.Finish(ctx); err != nil {
				return domain.OutcomeFatal, fmt.Errorf("finish %s: %w", job.Name(), err)
			}
			return domain.OutcomeCompleted, nil
		}
	}
}
