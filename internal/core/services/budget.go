package services

import "time"

// DefaultBudget keeps a run comfortably under a six-minute host kill
// timeout, leaving a margin for the unit in flight when the guard trips.
const DefaultBudget = 5 * time.Minute

// BudgetGuard tracks elapsed wall-clock time against a fixed ceiling.
// It is polled before each unit of work that performs a remote call; work
// already started is never preempted, so the maximum overrun is bounded by
// one unit's latency.
type BudgetGuard struct {
	start   time.Time
	ceiling time.Duration
	now     func() time.Time
}

// NewBudgetGuard creates a guard starting now. A non-positive ceiling
// disables the guard (useful for one-shot CLI runs).
func NewBudgetGuard(ceiling time.Duration) *BudgetGuard {
	return &BudgetGuard{
		start:   time.Now(),
		ceiling: ceiling,
		now:     time.Now,
	}
}

// Expired reports whether the run must yield now.
func (g *BudgetGuard) Expired() bool {
	if g.ceiling <= 0 {
		return false
	}
	return g.now().Sub(g.start) >= g.ceiling
}

// Remaining returns the budget left, for logging. Never negative.
func (g *BudgetGuard) Remaining() time.Duration {
	if g.ceiling <= 0 {
		return 0
	}
	left := g.ceiling - g.now().Sub(g.start)
	if left < 0 {
		return 0
	}
	return left
}
