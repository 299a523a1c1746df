package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

func TestCheckpointStore_SetGet(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.KeyPullCursor, "token-123"))

	val, err := store.Get(ctx, domain.KeyPullCursor)
	require.NoError(t, err)
	assert.Equal(t, "token-123", val)
}

func TestCheckpointStore_Get_Missing(t *testing.T) {
	store := NewCheckpointStore()

	_, err := store.Get(context.Background(), domain.KeyPushIndex)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckpointStore_Overwrite(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.KeyPushIndex, "1"))
	require.NoError(t, store.Set(ctx, domain.KeyPushIndex, "2"))

	val, err := store.Get(ctx, domain.KeyPushIndex)
	require.NoError(t, err)
	assert.Equal(t, "2", val)
}

func TestCheckpointStore_Delete(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.KeyPullCursor, "token"))
	require.NoError(t, store.Delete(ctx, domain.KeyPullCursor))

	_, err := store.Get(ctx, domain.KeyPullCursor)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting an absent key is not an error
	require.NoError(t, store.Delete(ctx, domain.KeyPullCursor))
}
