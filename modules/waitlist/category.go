package waitlist

import (
	"errors"

	"github.com/dmitrymomot/waitlist/pkg/validator"
)

// Category is the user-facing outcome of a submission.
type Category int

const (
	Success Category = iota
	ValidationError
	RateLimited
	Timeout
	NetworkError
	UnknownError
)

func (c Category) String() string {
	switch c {
	case Success:
		return "success"
	case ValidationError:
		return "validation_error"
	case RateLimited:
		return "rate_limited"
	case Timeout:
		return "timeout"
	case NetworkError:
		return "network_error"
	default:
		return "unknown_error"
	}
}

// Message is the human-readable text shown for the category.
func (c Category) Message() string {
	switch c {
	case Success:
		return "Thank you! Your submission has been received."
	case ValidationError:
		return "Please correct the highlighted fields and try again."
	case RateLimited:
		return "Too many requests. Please wait a moment before trying again."
	case Timeout:
		return "Request timeout - please try again."
	case NetworkError:
		return "Network error - please check your connection."
	default:
		return "There was a problem submitting your information. Please try again."
	}
}

// Classify maps an error returned by Validate, Guard.Submit or Form.Submit
// to its Category. A nil error is Success.
func Classify(err error) Category {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrValidation), validator.IsValidationError(err):
		return ValidationError
	case errors.Is(err, ErrRateLimited):
		return RateLimited
	case errors.Is(err, ErrTimeout):
		return Timeout
	case errors.Is(err, ErrNetwork):
		return NetworkError
	default:
		return UnknownError
	}
}
