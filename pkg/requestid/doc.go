// Package requestid propagates an X-Request-ID through HTTP handlers and log
// records.
package requestid
