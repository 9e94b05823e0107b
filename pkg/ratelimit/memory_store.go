package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sliding windows in process memory.
//
// There is no background cleanup: a key's timestamps are pruned only when
// that key is checked again, so keys that stop appearing keep their last
// window until Delete is called or the store is dropped. Memory is bounded by
// the number of distinct keys seen during the store's lifetime.
//
// Each MemoryStore is independent; construct one per limiter you own.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string][]time.Time),
	}
}

// RecordIfAllowed prunes key's window and records now when under limit.
func (s *MemoryStore) RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (WindowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := prune(s.windows[key], now.Add(-window))
	if len(recent) >= limit {
		s.windows[key] = recent
		return stateOf(recent, false), nil
	}

	recent = append(recent, now)
	s.windows[key] = recent
	return stateOf(recent, true), nil
}

// Inspect prunes key's window and reports its state.
func (s *MemoryStore) Inspect(ctx context.Context, key string, now time.Time, window time.Duration) (WindowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps, ok := s.windows[key]
	if !ok {
		return WindowState{}, nil
	}

	recent := prune(timestamps, now.Add(-window))
	s.windows[key] = recent
	return stateOf(recent, false), nil
}

// Delete removes the given key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Len returns the number of keys currently held, stale ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.windows)
}

// prune keeps timestamps strictly after cutoff, reusing the backing array.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	recent := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	return recent
}

func stateOf(recent []time.Time, recorded bool) WindowState {
	state := WindowState{Recorded: recorded, Count: len(recent)}
	for _, ts := range recent {
		if state.Oldest.IsZero() || ts.Before(state.Oldest) {
			state.Oldest = ts
		}
	}
	return state
}
