package sanitizer

import "strings"

// MaskEmail hides the local part of an address for logging, keeping its
// first character and the full domain. Input without exactly one '@' is
// masked entirely.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") || local == "" {
		return strings.Repeat("*", len([]rune(email)))
	}

	first := []rune(local)[0]
	rest := len([]rune(local)) - 1
	return string(first) + strings.Repeat("*", rest) + "@" + domain
}
