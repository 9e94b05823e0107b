package waitlist

import "errors"

// Submission errors. Guard.Submit wraps the underlying cause with one of
// these, so Classify can map any returned error to a Category.
var (
	ErrValidation           = errors.New("waitlist: invalid submission")
	ErrRateLimited          = errors.New("waitlist: too many submissions")
	ErrTimeout              = errors.New("waitlist: submission timed out")
	ErrNetwork              = errors.New("waitlist: network failure")
	ErrUnknown              = errors.New("waitlist: submission failed")
	ErrSubmissionInProgress = errors.New("waitlist: submission already in progress")
	ErrUnknownUserType      = errors.New("waitlist: unknown user type")
	ErrEndpointRequired     = errors.New("waitlist: endpoint URL is required")
	ErrSenderRequired       = errors.New("waitlist: sender is required")
)
