package ratelimit

import "errors"

var (
	// Common rate limiting errors.
	ErrInvalidLimit     = errors.New("invalid limit")
	ErrInvalidInterval  = errors.New("invalid interval")
	ErrKeyRequired      = errors.New("key is required")
	ErrStoreRequired    = errors.New("store is required")
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
