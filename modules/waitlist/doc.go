// Package waitlist accepts guest and host waitlist submissions and forwards
// them to an external spreadsheet-script sink.
//
// A submission flows through three stages:
//
//  1. Validate checks field constraints and lengths.
//  2. Guard.Submit derives the rate-limit identifier (normalized e-mail plus
//     user type) and asks the limiter. A rejected attempt returns
//     ErrRateLimited with no sanitization and no network call.
//  3. The record is sanitized and posted to the sink with a hard timeout, and
//     the result is reduced to a Category.
//
// Form wraps the flow in an explicit state machine (Idle, Submitting,
// Succeeded, Failed) and Handler exposes it over HTTP. Each Category has a
// distinct Message, and no Category is fatal: the form can be resubmitted.
//
// Rate limiting is a best-effort deterrent and not a security boundary: a
// client can change its e-mail, and an in-memory store forgets everything on
// restart. Share a ratelimit.RedisStore between replicas to keep one window.
package waitlist
