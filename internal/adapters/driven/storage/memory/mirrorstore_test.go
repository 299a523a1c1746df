package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

func testChannels(ids ...string) []domain.Channel {
	channels := make([]domain.Channel, len(ids))
	for i, id := range ids {
		channels[i] = domain.Channel{ID: id, Title: id, URL: domain.ChannelURL(id)}
	}
	return channels
}

func TestMirrorStore_AppendAndRead(t *testing.T) {
	store := NewMirrorStore()
	ctx := context.Background()

	require.NoError(t, store.AppendChannels(ctx, testChannels("UC1", "UC2")))
	require.NoError(t, store.AppendChannels(ctx, testChannels("UC3")))

	ids, err := store.Identifiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"UC1", "UC2", "UC3"}, ids)

	n, err := store.LastRowIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMirrorStore_CandidatesFrom(t *testing.T) {
	store := NewMirrorStore()
	ctx := context.Background()
	require.NoError(t, store.AppendChannels(ctx, testChannels("UC1", "UC2", "UC3")))

	candidates, err := store.CandidatesFrom(ctx, 1)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, domain.Candidate{ID: "UC2", Position: 1}, candidates[0])
	assert.Equal(t, domain.Candidate{ID: "UC3", Position: 2}, candidates[1])
}

func TestMirrorStore_CandidatesFrom_PastEnd(t *testing.T) {
	store := NewMirrorStore()
	ctx := context.Background()
	require.NoError(t, store.AppendChannels(ctx, testChannels("UC1")))

	candidates, err := store.CandidatesFrom(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestMirrorStore_Empty(t *testing.T) {
	store := NewMirrorStore()
	ctx := context.Background()

	ids, err := store.Identifiers(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	n, err := store.LastRowIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
