package driven

import (
	"context"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

// MirrorStore is the durable tabular mirror of the remote membership list.
// Row order is insertion order and defines the pusher's linear index.
// Identifiers are unique within the mirror; the puller's dedup filter
// maintains that invariant.
type MirrorStore interface {
	// AppendChannels appends rows in one batch write.
	AppendChannels(ctx context.Context, channels []domain.Channel) error

	// Identifiers returns every channel identifier in insertion order.
	Identifiers(ctx context.Context) ([]string, error)

	// CandidatesFrom returns candidates at ordinal position >= start,
	// in insertion order. The mirror is small enough to read in full.
	CandidatesFrom(ctx context.Context, start int) ([]domain.Candidate, error)

	// LastRowIndex returns the number of data rows in the mirror.
	LastRowIndex(ctx context.Context) (int, error)
}
