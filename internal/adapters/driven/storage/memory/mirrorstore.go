package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
)

// Ensure MirrorStore implements the interface.
var _ driven.MirrorStore = (*MirrorStore)(nil)

// MirrorStore is an in-memory implementation of driven.MirrorStore.
// Rows are kept in insertion order, matching the tabular mirror contract.
type MirrorStore struct {
	mu       sync.RWMutex
	channels []domain.Channel
}

// NewMirrorStore creates a new in-memory mirror store.
func NewMirrorStore() *MirrorStore {
	return &MirrorStore{}
}

// AppendChannels appends rows in one batch.
func (s *MirrorStore) AppendChannels(_ context.Context, channels []domain.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = append(s.channels, channels...)
	return nil
}

// Identifiers returns every channel identifier in insertion order.
func (s *MirrorStore) Identifiers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.channels))
	for i, ch := range s.channels {
		ids[i] = ch.ID
	}
	return ids, nil
}

// CandidatesFrom returns candidates at ordinal position >= start.
func (s *MirrorStore) CandidatesFrom(_ context.Context, start int) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if start < 0 {
		start = 0
	}
	if start >= len(s.channels) {
		return nil, nil
	}
	candidates := make([]domain.Candidate, 0, len(s.channels)-start)
	for i := start; i < len(s.channels); i++ {
		candidates = append(candidates, domain.Candidate{
			ID:       s.channels[i].ID,
			Position: i,
		})
	}
	return candidates, nil
}

// LastRowIndex returns the number of data rows.
func (s *MirrorStore) LastRowIndex(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels), nil
}

// Channels returns a copy of all rows, for test assertions.
func (s *MirrorStore) Channels() []domain.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Channel, len(s.channels))
	copy(out, s.channels)
	return out
}
