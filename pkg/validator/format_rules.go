package validator

import (
	"net/mail"
	"strings"
)

// ValidEmail validates a bare e-mail address (no display name) with at least
// one dot in the domain.
func ValidEmail(field, value string, message ...string) Rule {
	return Rule{
		Check: func() bool {
			value := strings.TrimSpace(value)
			if value == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}

			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}

			if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}

			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}

			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: messageOr(message, "must be a valid email address"),
		},
	}
}
