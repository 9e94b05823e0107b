package ratelimit

import (
	"context"
	"errors"
	"time"
)

// SlidingWindow admits at most limit attempts per key within any trailing
// window. It is a best-effort deterrent, not a security boundary: a caller
// that changes its key, or a process restart that drops a MemoryStore,
// starts from an empty window.
type SlidingWindow struct {
	store  SlidingWindowStore
	limit  int
	window time.Duration
	clock  Clock
}

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(sw *SlidingWindow) {
		if c != nil {
			sw.clock = c
		}
	}
}

// NewSlidingWindow creates a new sliding window rate limiter.
func NewSlidingWindow(store SlidingWindowStore, limit int, window time.Duration, opts ...Option) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	sw := &SlidingWindow{
		store:  store,
		limit:  limit,
		window: window,
		clock:  wallClock{},
	}
	for _, opt := range opts {
		opt(sw)
	}

	return sw, nil
}

// Allow checks whether an attempt for key is admitted.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := sw.clock.Now()
	state, err := sw.store.RecordIfAllowed(ctx, key, now, sw.window, sw.limit)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return sw.result(state, state.Recorded, now), nil
}

// IsAllowed is the boolean form of Allow. Store failures admit the attempt:
// the limiter is advisory and must not take the form down with it.
func (sw *SlidingWindow) IsAllowed(ctx context.Context, key string) bool {
	res, err := sw.Allow(ctx, key)
	if err != nil {
		return !errors.Is(err, ErrKeyRequired)
	}
	return res.Allowed
}

// Status returns the current rate limit status without recording an attempt.
func (sw *SlidingWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := sw.clock.Now()
	state, err := sw.store.Inspect(ctx, key, now, sw.window)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return sw.result(state, state.Count < sw.limit, now), nil
}

// Reset resets the rate limit for the given key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	return sw.store.Delete(ctx, key)
}

// Limit returns the configured maximum attempts per window.
func (sw *SlidingWindow) Limit() int { return sw.limit }

// Window returns the configured window duration.
func (sw *SlidingWindow) Window() time.Duration { return sw.window }

func (sw *SlidingWindow) result(state WindowState, allowed bool, now time.Time) *Result {
	resetAt := now.Add(sw.window)
	if state.Count > 0 && !state.Oldest.IsZero() {
		resetAt = state.Oldest.Add(sw.window)
	}

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(0, resetAt.Sub(now))
	}

	return &Result{
		Allowed:    allowed,
		Limit:      sw.limit,
		Remaining:  max(0, sw.limit-state.Count),
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
	}
}
