package domain

// RunOutcome describes how a single job invocation ended. It drives whether
// the checkpoint was advanced, left alone, or whether an operator should be
// alerted via the logs.
type RunOutcome int

const (
	// OutcomeCompleted means the full candidate range was exhausted and
	// the checkpoint was reset; the job is caught up.
	OutcomeCompleted RunOutcome = iota

	// OutcomeYieldedOnBudget means the time budget expired; the checkpoint
	// was advanced to the first unprocessed unit.
	OutcomeYieldedOnBudget

	// OutcomeYieldedOnQuota means the remote quota is exhausted; the
	// checkpoint points at the last confirmed unit.
	OutcomeYieldedOnQuota

	// OutcomeFatal means a precondition or infrastructure failure aborted
	// the run; no checkpoint was touched.
	OutcomeFatal
)

// String returns the string representation.
func (o RunOutcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeYieldedOnBudget:
		return "yielded-on-budget"
	case OutcomeYieldedOnQuota:
		return "yielded-on-quota"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// RunReport summarises a single invocation for logging and task history.
type RunReport struct {
	// Job names the job that ran ("pull" or "push").
	Job string

	// RunID correlates the report with the invocation's log lines.
	RunID string

	// Outcome is the terminal state of the run.
	Outcome RunOutcome

	// Processed counts units whose side effect was confirmed this run
	// (rows appended for the puller, subscriptions created for the pusher).
	Processed int

	// Skipped counts units that needed no remote call (already present
	// remotely, or failed the identifier format check).
	Skipped int

	// Failed counts units that hit a transient failure and were passed
	// over without retry.
	Failed int

	// Err carries the error that terminated the run, if any.
	Err error
}
