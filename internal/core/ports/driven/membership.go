package driven

import (
	"context"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

// MembershipAPI is the remote subscription list, consumed through a
// paginated, quota-limited API. Implementations must wrap quota failures
// in domain.ErrQuotaExhausted so the core can classify them.
type MembershipAPI interface {
	// ListPage fetches one page of the account's subscriptions.
	// An empty pageToken starts at the beginning of the collection.
	// An empty nextToken signals there are no further pages.
	ListPage(ctx context.Context, pageToken string) (items []domain.Channel, nextToken string, err error)

	// Join subscribes the account to a channel. Subscribing to a channel
	// the account already follows is treated as success by the adapter.
	Join(ctx context.Context, channelID string) error
}
