// Package redis connects to Redis with retries and exposes a readiness probe.
// The waitlist relay uses it for the shared rate-limit store.
package redis
