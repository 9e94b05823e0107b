package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waitlist/pkg/ratelimit"
)

func TestMemoryStore_RecordIfAllowed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimit.NewMemoryStore()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	state, err := store.RecordIfAllowed(ctx, "k", base, time.Second, 2)
	require.NoError(t, err)
	assert.True(t, state.Recorded)
	assert.Equal(t, 1, state.Count)
	assert.Equal(t, base, state.Oldest)

	state, err = store.RecordIfAllowed(ctx, "k", base.Add(100*time.Millisecond), time.Second, 2)
	require.NoError(t, err)
	assert.True(t, state.Recorded)
	assert.Equal(t, 2, state.Count)
	assert.Equal(t, base, state.Oldest)

	state, err = store.RecordIfAllowed(ctx, "k", base.Add(200*time.Millisecond), time.Second, 2)
	require.NoError(t, err)
	assert.False(t, state.Recorded)
	assert.Equal(t, 2, state.Count)

	// first timestamp has left the window
	state, err = store.RecordIfAllowed(ctx, "k", base.Add(time.Second), time.Second, 2)
	require.NoError(t, err)
	assert.True(t, state.Recorded)
	assert.Equal(t, 2, state.Count)
	assert.Equal(t, base.Add(100*time.Millisecond), state.Oldest)
}

func TestMemoryStore_LazyPruning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimit.NewMemoryStore()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.RecordIfAllowed(ctx, "idle", base, time.Second, 5)
	require.NoError(t, err)
	_, err = store.RecordIfAllowed(ctx, "active", base, time.Second, 5)
	require.NoError(t, err)

	// long after the window, only checks prune, and only the checked key
	_, err = store.RecordIfAllowed(ctx, "active", base.Add(time.Hour), time.Second, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len(), "stale keys are retained until deleted")

	state, err := store.Inspect(ctx, "idle", base.Add(time.Hour), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Count)
	assert.True(t, state.Oldest.IsZero())

	require.NoError(t, store.Delete(ctx, "idle"))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_InspectUnknownKey(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	state, err := store.Inspect(context.Background(), "missing", time.Now(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, ratelimit.WindowState{}, state)
	assert.Equal(t, 0, store.Len(), "inspect must not create keys")
}

func TestMemoryStore_Isolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()
	a := ratelimit.NewMemoryStore()
	b := ratelimit.NewMemoryStore()

	_, err := a.RecordIfAllowed(ctx, "k", now, time.Minute, 1)
	require.NoError(t, err)

	state, err := b.RecordIfAllowed(ctx, "k", now, time.Minute, 1)
	require.NoError(t, err)
	assert.True(t, state.Recorded, "separate stores share no state")
}
