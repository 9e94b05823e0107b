// Package ratelimit implements a per-key sliding window rate limiter.
//
// A SlidingWindow admits at most Limit attempts per key in any trailing
// Window. Admitted attempts are recorded; rejected ones are not, so hammering
// a full window does not extend it.
//
//	store := ratelimit.NewMemoryStore()
//	limiter, err := ratelimit.NewSlidingWindow(store, 5, time.Minute)
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, ratelimit.Key(email, "guest"))
//	if err == nil && !res.Allowed {
//		// too many attempts, retry after res.RetryAfter
//	}
//
// # Stores
//
// MemoryStore keeps windows in process memory and prunes them lazily when a
// key is checked. RedisStore keeps windows in sorted sets and lets several
// processes share one limiter.
//
// # Limitations
//
// The limiter counts keys, not people. Keys usually come from unverified
// input (an e-mail address plus a role), so a client can always pick a fresh
// key, and a MemoryStore forgets everything on restart. Treat it as an abuse
// deterrent, never as an authorization or anti-fraud control.
package ratelimit
