package ratelimit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waitlist/pkg/ratelimit"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestNewSlidingWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		store       ratelimit.SlidingWindowStore
		limit       int
		window      time.Duration
		expectError error
	}{
		{name: "nil store", store: nil, limit: 5, window: time.Minute, expectError: ratelimit.ErrStoreRequired},
		{name: "zero limit", store: ratelimit.NewMemoryStore(), limit: 0, window: time.Minute, expectError: ratelimit.ErrInvalidLimit},
		{name: "negative limit", store: ratelimit.NewMemoryStore(), limit: -1, window: time.Minute, expectError: ratelimit.ErrInvalidLimit},
		{name: "zero window", store: ratelimit.NewMemoryStore(), limit: 5, window: 0, expectError: ratelimit.ErrInvalidInterval},
		{name: "negative window", store: ratelimit.NewMemoryStore(), limit: 5, window: -time.Second, expectError: ratelimit.ErrInvalidInterval},
		{name: "valid configuration", store: ratelimit.NewMemoryStore(), limit: 5, window: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sw, err := ratelimit.NewSlidingWindow(tt.store, tt.limit, tt.window)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, sw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.limit, sw.Limit())
			assert.Equal(t, tt.window, sw.Window())
		})
	}
}

func TestSlidingWindow_Allow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 5, time.Minute)
		require.NoError(t, err)

		result, err := sw.Allow(ctx, "")
		assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
		assert.Nil(t, result)
		assert.False(t, sw.IsAllowed(ctx, ""))
	})

	t.Run("five allowed then sixth rejected", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 5, time.Minute, ratelimit.WithClock(clock))
		require.NoError(t, err)

		for i := range 5 {
			result, err := sw.Allow(ctx, "a@x.com-guest")
			require.NoError(t, err)
			assert.True(t, result.Allowed, "attempt %d should be allowed", i+1)
			assert.Equal(t, 5, result.Limit)
			assert.Equal(t, 4-i, result.Remaining)
			assert.Zero(t, result.RetryAfter)
			clock.Advance(time.Second)
		}

		result, err := sw.Allow(ctx, "a@x.com-guest")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining)
		// oldest attempt was 5s ago, so a slot frees in 55s
		assert.Equal(t, 55*time.Second, result.RetryAfter)
	})

	t.Run("allowed again after window elapses", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 5, time.Minute, ratelimit.WithClock(clock))
		require.NoError(t, err)

		for range 5 {
			assert.True(t, sw.IsAllowed(ctx, "k"))
		}
		assert.False(t, sw.IsAllowed(ctx, "k"))

		clock.Advance(time.Minute + time.Millisecond)

		result, err := sw.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 4, result.Remaining)
	})

	t.Run("timestamp exactly at window start is expired", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 1, time.Minute, ratelimit.WithClock(clock))
		require.NoError(t, err)

		assert.True(t, sw.IsAllowed(ctx, "k"))
		clock.Advance(time.Minute - time.Nanosecond)
		assert.False(t, sw.IsAllowed(ctx, "k"))
		clock.Advance(time.Nanosecond)
		assert.True(t, sw.IsAllowed(ctx, "k"))
	})

	t.Run("rejected attempts are not recorded", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 2, 10*time.Second, ratelimit.WithClock(clock))
		require.NoError(t, err)

		assert.True(t, sw.IsAllowed(ctx, "k"))
		assert.True(t, sw.IsAllowed(ctx, "k"))
		clock.Advance(5 * time.Second)
		for range 10 {
			assert.False(t, sw.IsAllowed(ctx, "k"))
		}

		// only the two admitted attempts occupy the window
		clock.Advance(5*time.Second + time.Millisecond)
		assert.True(t, sw.IsAllowed(ctx, "k"))
		assert.True(t, sw.IsAllowed(ctx, "k"))
	})

	t.Run("distinct identifiers never interfere", func(t *testing.T) {
		t.Parallel()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 5, time.Minute)
		require.NoError(t, err)

		for range 5 {
			assert.True(t, sw.IsAllowed(ctx, "A"))
		}
		assert.True(t, sw.IsAllowed(ctx, "B"))
		assert.False(t, sw.IsAllowed(ctx, "A"))
	})
}

func TestSlidingWindow_StatusAndReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 3, time.Minute)
	require.NoError(t, err)

	status, err := sw.Status(ctx, "k")
	require.NoError(t, err)
	assert.True(t, status.Allowed)
	assert.Equal(t, 3, status.Remaining)

	for range 3 {
		assert.True(t, sw.IsAllowed(ctx, "k"))
	}

	status, err = sw.Status(ctx, "k")
	require.NoError(t, err)
	assert.False(t, status.Allowed)
	assert.Equal(t, 0, status.Remaining)

	// Status must not consume a slot
	status, err = sw.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)

	require.NoError(t, sw.Reset(ctx, "k"))
	assert.True(t, sw.IsAllowed(ctx, "k"))

	assert.ErrorIs(t, sw.Reset(ctx, ""), ratelimit.ErrKeyRequired)
	_, err = sw.Status(ctx, "")
	assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
}

type failingStore struct{}

var errBoom = errors.New("boom")

func (failingStore) RecordIfAllowed(context.Context, string, time.Time, time.Duration, int) (ratelimit.WindowState, error) {
	return ratelimit.WindowState{}, errBoom
}

func (failingStore) Inspect(context.Context, string, time.Time, time.Duration) (ratelimit.WindowState, error) {
	return ratelimit.WindowState{}, errBoom
}

func (failingStore) Delete(context.Context, string) error { return errBoom }

func TestSlidingWindow_StoreFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sw, err := ratelimit.NewSlidingWindow(failingStore{}, 1, time.Minute)
	require.NoError(t, err)

	_, err = sw.Allow(ctx, "k")
	assert.ErrorIs(t, err, ratelimit.ErrStoreUnavailable)
	assert.ErrorIs(t, err, errBoom)

	// the boolean form fails open
	assert.True(t, sw.IsAllowed(ctx, "k"))
}

func TestSlidingWindow_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 10, time.Minute)
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sw.IsAllowed(ctx, "shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@x.com-guest", ratelimit.Key("a@x.com", "guest"))
	assert.Equal(t, "guest", ratelimit.Key("", "guest"))
	assert.Equal(t, "", ratelimit.Key())
}
