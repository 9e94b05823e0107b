package validator

import (
	"fmt"
	"slices"
	"strings"
)

// OneOf validates that value is one of allowed.
func OneOf(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
		},
	}
}
