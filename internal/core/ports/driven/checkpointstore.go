package driven

import "context"

// CheckpointStore persists resume cursors and other small state strings.
// Values must be durable across process restarts and visible to the very
// next scheduled invocation. No concurrent-writer contention is assumed;
// the scheduler guarantees one invocation per job at a time.
type CheckpointStore interface {
	// Get retrieves a value by key.
	// Returns domain.ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores or updates a value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
