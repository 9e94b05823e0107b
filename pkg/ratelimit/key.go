package ratelimit

import "strings"

// Key joins the non-empty parts of an identifier with "-".
//
//	ratelimit.Key("a@x.com", "guest") // "a@x.com-guest"
//
// The limiter only distinguishes keys, not people: whoever controls the
// parts controls the bucket.
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}
