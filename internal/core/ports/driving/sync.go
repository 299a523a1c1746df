package driving

import (
	"context"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

// SyncRunner exposes the two job entry points invoked by the scheduler or
// the CLI. All failures are caught at this boundary: a run never panics the
// host process, and the returned report carries the terminal outcome and
// any error for logging.
type SyncRunner interface {
	// RunPull copies the remote membership list into the mirror, resuming
	// from the persisted page cursor.
	RunPull(ctx context.Context) domain.RunReport

	// RunPush subscribes to mirror candidates not yet present remotely,
	// resuming from the persisted linear index.
	RunPush(ctx context.Context) domain.RunReport
}
