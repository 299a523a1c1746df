package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/subsync-cli/internal/logger"
)

// Puller copies the remote subscription list into the mirror, one page per
// Step. The persisted cursor always names the next page to fetch: it is
// advanced only after a page's rows have been durably appended, so a quota
// or transient fetch failure leaves it at the last fully committed page and
// the next run re-fetches rather than risking a gap.
type Puller struct {
	checkpoints driven.CheckpointStore
	mirror      driven.MirrorStore
	api         driven.MembershipAPI

	cursor   string
	seen     map[string]struct{}
	appended int
	skipped  int
}

// NewPuller creates a pull job over the given stores.
func NewPuller(checkpoints driven.CheckpointStore, mirror driven.MirrorStore, api driven.MembershipAPI) *Puller {
	return &Puller{
		checkpoints: checkpoints,
		mirror:      mirror,
		api:         api,
	}
}

// Name identifies the job in log lines.
func (p *Puller) Name() string { return "pull" }

// prepare loads the resume cursor and the mirror's identifier set.
// The set is loaded once per run and guards against duplicate rows both
// within this run and across truncated previous runs.
func (p *Puller) prepare(ctx context.Context) error {
	cursor, err := p.checkpoints.Get(ctx, domain.KeyPullCursor)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load pull cursor: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	p.cursor = cursor

	ids, err := p.mirror.Identifiers(ctx)
	if err != nil {
		return fmt.Errorf("read mirror identifiers: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	p.seen = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		p.seen[id] = struct{}{}
	}

	if p.cursor != "" {
		logger.Debug("pull: resuming from persisted cursor")
	}
	return nil
}

// Step fetches one page, appends its unseen rows in a single batch write,
// and commits the next page's token as the new cursor.
func (p *Puller) Step(ctx context.Context) (bool, error) {
	items, next, err := p.api.ListPage(ctx, p.cursor)
	if err != nil {
		// Cursor untouched: the persisted value still names the first
		// page not yet durably applied, so the next tick retries safely.
		return false, fmt.Errorf("fetch page: %w", err)
	}

	fresh := make([]domain.Channel, 0, len(items))
	for _, ch := range items {
		if !domain.IsChannelID(ch.ID) {
			logger.Debug("pull: skipping malformed identifier %q", ch.ID)
			p.skipped++
			continue
		}
		if _, ok := p.seen[ch.ID]; ok {
			p.skipped++
			continue
		}
		fresh = append(fresh, ch)
	}

	if len(fresh) > 0 {
		if err := p.mirror.AppendChannels(ctx, fresh); err != nil {
			return false, fmt.Errorf("append page: %w", errors.Join(domain.ErrStoreUnavailable, err))
		}
		for _, ch := range fresh {
			p.seen[ch.ID] = struct{}{}
		}
		p.appended += len(fresh)
		logger.Debug("pull: appended %d rows", len(fresh))
	}

	if next == "" {
		return true, nil
	}

	// Commit point: the page's rows are durable, so the following page's
	// token becomes the resume cursor before anything else can fail.
	if err := p.checkpoints.Set(ctx, domain.KeyPullCursor, next); err != nil {
		return false, fmt.Errorf("persist pull cursor: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	p.cursor = next
	return false, nil
}

// Yield persists the cursor for the page about to be fetched. The value is
// already durable thanks to Step's commit point; writing it again is a
// harmless idempotent confirmation.
func (p *Puller) Yield(ctx context.Context) error {
	if p.cursor == "" {
		return nil
	}
	if err := p.checkpoints.Set(ctx, domain.KeyPullCursor, p.cursor); err != nil {
		return fmt.Errorf("persist pull cursor: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	return nil
}

// Finish deletes the cursor: the collection is fully mirrored as of this
// run, and the next invocation starts over from the beginning.
func (p *Puller) Finish(ctx context.Context) error {
	if err := p.checkpoints.Delete(ctx, domain.KeyPullCursor); err != nil {
		return fmt.Errorf("clear pull cursor: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	return nil
}
