package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "ratelimit:"

// Scores are microseconds since the epoch, computed in Go and passed as
// strings so no large number goes through Lua arithmetic. Members carry a
// random suffix so two attempts in the same microsecond are both kept.
//
// KEYS[1] window key
// ARGV[1] now score, ARGV[2] cutoff score, ARGV[3] limit, ARGV[4] member,
// ARGV[5] "1" to record, ARGV[6] key TTL in milliseconds
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]

redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[2])
local count = redis.call('ZCARD', key)
local recorded = 0

if ARGV[5] == '1' and count < tonumber(ARGV[3]) then
	redis.call('ZADD', key, ARGV[1], ARGV[4])
	redis.call('PEXPIRE', key, ARGV[6])
	count = count + 1
	recorded = 1
end

local oldest = -1
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if #first == 2 then
	oldest = tonumber(first[2])
end

return {recorded, count, oldest}
`)

// RedisStore keeps sliding windows in Redis sorted sets so several processes
// share one limiter. Keys expire one window after their last recorded attempt.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the prefix prepended to every Redis key.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}

	s := &RedisStore{
		client: client,
		prefix: defaultRedisKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// RecordIfAllowed prunes key's window and records now when under limit.
func (s *RedisStore) RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (WindowState, error) {
	member := fmt.Sprintf("%d-%s", now.UnixMicro(), uuid.NewString())
	return s.run(ctx, key, now, window, limit, member, true)
}

// Inspect prunes key's window and reports its state.
func (s *RedisStore) Inspect(ctx context.Context, key string, now time.Time, window time.Duration) (WindowState, error) {
	return s.run(ctx, key, now, window, 0, "", false)
}

// Delete removes the given key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete rate limit key: %w", err)
	}
	return nil
}

func (s *RedisStore) run(ctx context.Context, key string, now time.Time, window time.Duration, limit int, member string, record bool) (WindowState, error) {
	flag := "0"
	if record {
		flag = "1"
	}

	vals, err := slidingWindowScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		strconv.FormatInt(now.UnixMicro(), 10),
		strconv.FormatInt(now.Add(-window).UnixMicro(), 10),
		limit, member, flag,
		strconv.FormatInt(max(1, window.Milliseconds()), 10),
	).Int64Slice()
	if err != nil {
		return WindowState{}, fmt.Errorf("run sliding window script: %w", err)
	}
	if len(vals) != 3 {
		return WindowState{}, fmt.Errorf("sliding window script returned %d values", len(vals))
	}

	state := WindowState{
		Recorded: vals[0] == 1,
		Count:    int(vals[1]),
	}
	if vals[2] >= 0 {
		state.Oldest = time.UnixMicro(vals[2])
	}
	return state, nil
}
