package sanitizer

// Apply runs value through transforms in order.
func Apply[T any](value T, transforms ...func(T) T) T {
	result := value

	for _, transform := range transforms {
		result = transform(result)
	}

	return result
}

// Compose returns a reusable pipeline of transforms.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T {
		return Apply(value, transforms...)
	}
}

// Fixpoint re-applies transform until its output equals its input.
// transform must only ever shorten a string it changes, otherwise the
// returned function may not terminate.
func Fixpoint(transform func(string) string) func(string) string {
	return func(s string) string {
		for {
			next := transform(s)
			if next == s {
				return next
			}
			s = next
		}
	}
}
