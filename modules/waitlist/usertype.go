package waitlist

import (
	"fmt"
	"strings"
)

// UserType selects which waitlist a record joins.
type UserType string

const (
	Guest UserType = "guest"
	Host  UserType = "host"
)

// ParseUserType accepts "guest" or "host" in any case.
func ParseUserType(s string) (UserType, error) {
	switch UserType(strings.ToLower(strings.TrimSpace(s))) {
	case Guest:
		return Guest, nil
	case Host:
		return Host, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUserType, s)
	}
}

func (u UserType) String() string { return string(u) }

// Welcome is the confirmation shown after a successful submission.
func (u UserType) Welcome() string {
	if u == Host {
		return "You've been added to our host waitlist. We'll contact you soon to discuss opportunities!"
	}
	return "You've been added to our guest waitlist. We'll be in touch soon!"
}
