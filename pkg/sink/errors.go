package sink

import "errors"

// Delivery errors. Send wraps the underlying transport error with exactly one
// of ErrTimeout, ErrNetwork, ErrCanceled, ErrUnexpectedStatus or ErrUnknown so
// callers can classify with errors.Is.
var (
	ErrInvalidURL       = errors.New("invalid sink URL")
	ErrInvalidPayload   = errors.New("invalid sink payload")
	ErrTimeout          = errors.New("sink request timeout")
	ErrNetwork          = errors.New("sink network failure")
	ErrCanceled         = errors.New("sink request canceled")
	ErrUnexpectedStatus = errors.New("sink returned unexpected status")
	ErrUnknown          = errors.New("sink request failed")
)
