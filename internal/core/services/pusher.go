package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/subsync-cli/internal/logger"
)

// DefaultJoinDelay is the fixed pause after each successful join, to stay
// clear of secondary per-minute throttling on write calls.
const DefaultJoinDelay = 2 * time.Second

// Pusher reads candidates from the mirror and subscribes to any not yet
// present remotely, one candidate per Step. The persisted index names the
// first candidate whose outcome is unconfirmed; it is written only at the
// run's exit points, never per unit.
type Pusher struct {
	checkpoints driven.CheckpointStore
	mirror      driven.MirrorStore
	api         driven.MembershipAPI
	joinDelay   time.Duration

	pos        int
	candidates []domain.Candidate
	remote     map[string]struct{}
	joined     int
	skipped    int
	failed     int
}

// NewPusher creates a push job over the given stores. joinDelay is the
// politeness pause after each successful join; zero disables it.
func NewPusher(
	checkpoints driven.CheckpointStore,
	mirror driven.MirrorStore,
	api driven.MembershipAPI,
	joinDelay time.Duration,
) *Pusher {
	return &Pusher{
		checkpoints: checkpoints,
		mirror:      mirror,
		api:         api,
		joinDelay:   joinDelay,
	}
}

// Name identifies the job in log lines.
func (p *Pusher) Name() string { return "push" }

// prepare loads the resume index, reads the candidate list once, and builds
// the run-scoped remote-presence set. A quota failure during the pre-flight
// listing propagates so the run yields before any per-unit call is
// attempted; the checkpoint is neither re-read nor modified in that case.
func (p *Pusher) prepare(ctx context.Context) error {
	idx := 0
	val, err := p.checkpoints.Get(ctx, domain.KeyPushIndex)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// First run, or a completed pass cleared the index.
	case err != nil:
		return fmt.Errorf("load push index: %w", errors.Join(domain.ErrStoreUnavailable, err))
	default:
		idx, err = domain.ParsePushIndex(val)
		if err != nil {
			logger.Warn("push: resetting malformed checkpoint %q", val)
			idx = 0
		}
	}

	candidates, err := p.mirror.CandidatesFrom(ctx, 0)
	if err != nil {
		return fmt.Errorf("read candidates: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	if idx >= len(candidates) {
		// Caught up on a previous run: start over so newly appended
		// candidates are absorbed by a fresh pass.
		idx = 0
	}

	remote, err := BuildRemoteSet(ctx, p.api)
	if err != nil {
		return err
	}

	p.pos = idx
	p.candidates = candidates
	p.remote = remote
	logger.Debug("push: %d candidates, resuming at %d, %d already subscribed",
		len(candidates), idx, len(remote))
	return nil
}

// Step reconciles one candidate. Candidates already present remotely cost
// no remote call; quota exhaustion persists the index of the failed unit
// and stops the run; any other join failure is logged and passed over, an
// at-most-once-retry policy that keeps a permanently unsatisfiable unit
// (a deleted channel, typically) from stalling progress forever.
func (p *Pusher) Step(ctx context.Context) (bool, error) {
	if p.pos >= len(p.candidates) {
		return true, nil
	}
	c := p.candidates[p.pos]

	if !domain.IsChannelID(c.ID) {
		logger.Debug("push: skipping malformed identifier %q at row %d", c.ID, c.Position)
		p.skipped++
		p.pos++
		return false, nil
	}
	if _, ok := p.remote[c.ID]; ok {
		p.skipped++
		p.pos++
		return false, nil
	}

	if err := p.api.Join(ctx, c.ID); err != nil {
		if domain.ClassifyFailure(err) == domain.FailureQuota {
			// The failed unit was never confirmed; it is the first one
			// retried on the next run.
			if perr := p.persist(ctx, p.pos); perr != nil {
				return false, perr
			}
			return false, fmt.Errorf("join %s: %w", c.ID, err)
		}
		logger.Warn("push: join %s at row %d failed: %v", c.ID, c.Position, err)
		p.failed++
		p.pos++
		return false, nil
	}

	p.joined++
	p.remote[c.ID] = struct{}{}
	p.pos++
	p.pause(ctx)
	return false, nil
}

// Yield persists the index of the first unprocessed candidate.
func (p *Pusher) Yield(ctx context.Context) error {
	return p.persist(ctx, p.pos)
}

// Finish clears the index: the full candidate range has been exhausted and
// the next invocation starts over at zero.
func (p *Pusher) Finish(ctx context.Context) error {
	if err := p.checkpoints.Delete(ctx, domain.KeyPushIndex); err != nil {
		return fmt.Errorf("clear push index: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	return nil
}

func (p *Pusher) persist(ctx context.Context, idx int) error {
	if err := p.checkpoints.Set(ctx, domain.KeyPushIndex, domain.FormatPushIndex(idx)); err != nil {
		return fmt.Errorf("persist push index: %w", errors.Join(domain.ErrStoreUnavailable, err))
	}
	return nil
}

func (p *Pusher) pause(ctx context.Context) {
	if p.joinDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(p.joinDelay):
	}
}
