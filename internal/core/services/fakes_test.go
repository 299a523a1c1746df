package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

// --- Shared fakes for engine testing ---

// fakeMembershipAPI implements driven.MembershipAPI with a fixed set of
// pages and per-channel join behaviour.
type fakeMembershipAPI struct {
	mu        sync.Mutex
	pages     [][]domain.Channel
	listErrs  map[int]error  // keyed by page number
	joinErrs  map[string]error // keyed by channel ID
	joinCalls []string
	listCalls int
}

func newFakeMembershipAPI(pages ...[]domain.Channel) *fakeMembershipAPI {
	return &fakeMembershipAPI{
		pages:    pages,
		listErrs: make(map[int]error),
		joinErrs: make(map[string]error),
	}
}

func (f *fakeMembershipAPI) ListPage(_ context.Context, pageToken string) ([]domain.Channel, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	page := 0
	if pageToken != "" {
		if _, err := fmt.Sscanf(pageToken, "page-%d", &page); err != nil {
			return nil, "", fmt.Errorf("bad page token %q", pageToken)
		}
	}
	if err := f.listErrs[page]; err != nil {
		return nil, "", err
	}
	if page >= len(f.pages) {
		return nil, "", nil
	}
	next := ""
	if page+1 < len(f.pages) {
		next = fmt.Sprintf("page-%d", page+1)
	}
	return f.pages[page], next, nil
}

func (f *fakeMembershipAPI) Join(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joinCalls = append(f.joinCalls, channelID)
	if err := f.joinErrs[channelID]; err != nil {
		return err
	}
	return nil
}

func (f *fakeMembershipAPI) joined() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.joinCalls))
	copy(out, f.joinCalls)
	return out
}

// channels builds mirror rows / page items from identifiers.
func channels(ids ...string) []domain.Channel {
	out := make([]domain.Channel, len(ids))
	for i, id := range ids {
		out[i] = domain.Channel{ID: id, Title: "channel " + id, URL: domain.ChannelURL(id)}
	}
	return out
}

// stepGuard returns a guard whose clock advances a fixed amount on every
// poll, so tests can make the budget expire after an exact number of loop
// iterations.
func stepGuard(ceiling, step time.Duration) *BudgetGuard {
	start := time.Unix(0, 0)
	now := start
	return &BudgetGuard{
		start:   start,
		ceiling: ceiling,
		now: func() time.Time {
			now = now.Add(step)
			return now
		},
	}
}

// failingCheckpointStore returns a fixed error from every operation.
type failingCheckpointStore struct {
	err error
}

func (s *failingCheckpointStore) Get(context.Context, string) (string, error) { return "", s.err }
func (s *failingCheckpointStore) Set(context.Context, string, string) error   { return s.err }
func (s *failingCheckpointStore) Delete(context.Context, string) error        { return s.err }
