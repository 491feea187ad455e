package subscriptions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Counts(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	require.NoError(t, r.Create(ctx, "a", "c"))
	require.NoError(t, r.Create(ctx, "b", "c"))
	require.NoError(t, r.Create(ctx, "b", "c"))
	require.NoError(t, r.Create(ctx, "c", "a"))

	n, err := r.CountSubscribers(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = r.CountSubscribedTo(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err := r.Exists(ctx, "a", "c")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Exists(ctx, "c", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	require.NoError(t, r.Create(ctx, "a", "c"))

	removed, err := r.Delete(ctx, "a", "c")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = r.Delete(ctx, "a", "c")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMemoryRepository_Lists(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	require.NoError(t, r.Create(ctx, "a", "c"))
	require.NoError(t, r.Create(ctx, "b", "c"))
	require.NoError(t, r.Create(ctx, "b", "a"))

	subs, err := r.ListSubscribers(ctx, "c")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	ids := []string{subs[0].SubscriberID, subs[1].SubscriberID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
	for _, s := range subs {
		assert.Equal(t, "c", s.ChannelID)
		assert.False(t, s.CreatedAt.IsZero())
	}

	following, err := r.ListSubscribedTo(ctx, "b")
	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.ElementsMatch(t, []string{"a", "c"}, []string{following[0].ChannelID, following[1].ChannelID})

	none, err := r.ListSubscribers(ctx, "b")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
