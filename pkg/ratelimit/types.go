package ratelimit

import (
	"context"
	"time"
)

// Result contains the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the attempt was admitted and recorded.
	Allowed bool

	// Limit is the maximum number of attempts allowed in the window.
	Limit int

	// Remaining is the number of attempts left in the current window.
	Remaining int

	// ResetAt is when the oldest attempt in the window expires and frees a slot.
	ResetAt time.Time

	// RetryAfter is how long to wait before the next attempt can be admitted.
	// Zero when Allowed is true.
	RetryAfter time.Duration
}

// Limiter defines the interface for rate limiting implementations.
type Limiter interface {
	// Allow checks whether an attempt for key is admitted. Admitted attempts
	// are recorded; rejected ones are not.
	Allow(ctx context.Context, key string) (*Result, error)

	// Status returns the current state for key without recording an attempt.
	Status(ctx context.Context, key string) (*Result, error)

	// Reset forgets every attempt recorded for key.
	Reset(ctx context.Context, key string) error
}

// WindowState is a snapshot of one key's sliding window after a store operation.
type WindowState struct {
	// Recorded reports whether the attempt timestamp was stored.
	Recorded bool

	// Count is the number of timestamps inside the window after the operation.
	Count int

	// Oldest is the earliest timestamp inside the window, zero if Count is 0.
	Oldest time.Time
}

// SlidingWindowStore persists per-key attempt timestamps.
//
// Implementations discard timestamps at or before now-window before counting,
// so a timestamp is "recent" only while it is strictly newer than the window
// start.
type SlidingWindowStore interface {
	// RecordIfAllowed atomically prunes the window for key and, when fewer than
	// limit recent timestamps remain, records now.
	RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (WindowState, error)

	// Inspect prunes the window for key and reports its state without recording.
	Inspect(ctx context.Context, key string, now time.Time, window time.Duration) (WindowState, error)

	// Delete removes all timestamps for key.
	Delete(ctx context.Context, key string) error
}

// Clock supplies the current time. Tests substitute a controllable clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
