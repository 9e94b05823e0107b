package sanitizer

import "strings"

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// RemoveChars removes all occurrences of the specified characters from a string.
func RemoveChars(s string, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}

// MaxLength truncates s to at most maxLen characters (runes).
// A non-positive maxLen yields an empty string.
func MaxLength(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	// Fast path: byte length bounds rune count
	if len(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	return string(runes[:maxLen])
}

// Truncate returns a transform that applies MaxLength with the given limit.
func Truncate(maxLen int) func(string) string {
	return func(s string) string {
		return MaxLength(s, maxLen)
	}
}
