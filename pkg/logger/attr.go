package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// SubmissionID records the per-submission identifier.
func SubmissionID(id string) slog.Attr {
	return slog.String("submission_id", id)
}

func UserType(t string) slog.Attr {
	return slog.String("user_type", t)
}

// Category records a submission outcome category.
func Category(c string) slog.Attr {
	return slog.String("category", c)
}

// Event records the name of a state machine event.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Email records an address that the caller has already masked.
func Email(masked string) slog.Attr {
	return slog.String("email", masked)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Service(name string) slog.Attr {
	return slog.String("service", name)
}
