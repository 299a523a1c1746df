package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
)

// BuildRemoteSet lists the full remote membership and returns the set of
// channel identifiers already subscribed. The listing is run-scoped: no
// cursor is persisted, and the set is recomputed on every invocation.
// A quota failure propagates unchanged so the caller can yield before
// attempting per-unit calls that are guaranteed to fail.
func BuildRemoteSet(ctx context.Context, api driven.MembershipAPI) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	token := ""
	for {
		items, next, err := api.ListPage(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("list remote memberships: %w", err)
		}
		for _, ch := range items {
			set[ch.ID] = struct{}{}
		}
		if next == "" {
			return set, nil
		}
		token = next
	}
}
