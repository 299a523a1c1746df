// Package youtube adapts the YouTube Data API v3 to the membership port.
// Subscriptions of the authenticated account are the remote membership list:
// subscriptions.list pages through it, subscriptions.insert joins a channel.
package youtube

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/youtube/v3"

	"github.com/custodia-labs/subsync-cli/internal/connectors/google"
	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/subsync-cli/internal/logger"
)

// pageSize is the maximum the subscriptions.list endpoint allows.
const pageSize = 50

// MembershipAPI implements driven.MembershipAPI over the YouTube Data API.
type MembershipAPI struct {
	svc     *youtube.Service
	limiter *google.RateLimiter
}

var _ driven.MembershipAPI = (*MembershipAPI)(nil)

// NewMembershipAPI creates a membership adapter over an authenticated service.
func NewMembershipAPI(svc *youtube.Service) *MembershipAPI {
	return &MembershipAPI{
		svc:     svc,
		limiter: google.NewRateLimiter(google.ServiceYouTube),
	}
}

// ListPage fetches one page of the account's subscriptions. An empty
// pageToken fetches the first page; an empty returned token means the last
// page. Page identity for a given token is stable across calls, which is
// what makes the persisted cursor safe to resume from.
func (m *MembershipAPI) ListPage(ctx context.Context, pageToken string) ([]domain.Channel, string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	call := m.svc.Subscriptions.List([]string{"snippet"}).
		Mine(true).
		MaxResults(pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("subscriptions.list: %w", google.WrapError(err))
	}

	channels := make([]domain.Channel, 0, len(resp.Items))
	for _, item := range resp.Items {
		ch, ok := channelFromSubscription(item)
		if !ok {
			logger.Debug("youtube: skipping subscription with no channel ID (etag %s)", item.Etag)
			continue
		}
		channels = append(channels, ch)
	}

	return channels, resp.NextPageToken, nil
}

// Join subscribes the account to the given channel. A duplicate-subscription
// response is treated as success: the desired end state already holds, and
// charging a failed unit for it would stall the run on a non-problem.
func (m *MembershipAPI) Join(ctx context.Context, channelID string) error {
	if !domain.IsChannelID(channelID) {
		return fmt.Errorf("join %q: %w", channelID, domain.ErrInvalidInput)
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}

	sub := &youtube.Subscription{
		Snippet: &youtube.SubscriptionSnippet{
			ResourceId: &youtube.ResourceId{
				Kind:      "youtube#channel",
				ChannelId: channelID,
			},
		},
	}

	_, err := m.svc.Subscriptions.Insert([]string{"snippet"}, sub).Context(ctx).Do()
	if err != nil {
		wrapped := google.WrapError(err)
		if errors.Is(wrapped, google.ErrAlreadySubscribed) {
			logger.Debug("youtube: already subscribed to %s", channelID)
			return nil
		}
		return fmt.Errorf("subscriptions.insert %s: %w", channelID, wrapped)
	}
	return nil
}

// channelFromSubscription maps one subscriptions.list item to a channel.
// Items whose resource is not a channel (or lost their ID to a deletion)
// report ok=false.
func channelFromSubscription(item *youtube.Subscription) (domain.Channel, bool) {
	if item == nil || item.Snippet == nil || item.Snippet.ResourceId == nil {
		return domain.Channel{}, false
	}
	id := item.Snippet.ResourceId.ChannelId
	if !domain.IsChannelID(id) {
		return domain.Channel{}, false
	}
	return domain.Channel{
		ID:    id,
		Title: item.Snippet.Title,
		URL:   domain.ChannelURL(id),
	}, true
}
