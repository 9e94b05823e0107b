package sink

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request unless WithTimeout overrides it.
const DefaultTimeout = 10 * time.Second

// HTTPClient is the subset of *http.Client the sink needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Policy decides what a completed HTTP exchange means.
type Policy int

const (
	// PolicyOpaque treats any completed exchange as delivered. Status code
	// and body are never inspected, matching fire-and-forget endpoints whose
	// responses cannot be relied upon.
	PolicyOpaque Policy = iota
	// PolicyStrict requires a 2xx status; anything else is ErrUnexpectedStatus.
	PolicyStrict
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyOpaque:
		return "opaque"
	case PolicyStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a configuration value onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "opaque":
		return PolicyOpaque, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyOpaque, fmt.Errorf("unknown sink response policy %q", s)
	}
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the hard ceiling for a single Send.
// Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client, for custom transports or tests.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if key != "" && value != "" {
			c.headers[key] = value
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithPolicy sets the response policy. Default is PolicyOpaque.
func WithPolicy(p Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithAssumeDeliveredOnUnknown reports unclassified transport errors as an
// assumed delivery (Delivery.Assumed) instead of ErrUnknown. Timeouts and
// network failures are always reported. Off by default: enabling it trades
// false error messages for silently lost submissions.
func WithAssumeDeliveredOnUnknown(enabled bool) Option {
	return func(c *Client) {
		c.assumeDelivered = enabled
	}
}

// WithOnDelivery registers fn to observe every attempted exchange, including
// failed ones. It is not called when Send rejects its input before any
// request is made.
func WithOnDelivery(fn func(d *Delivery, err error)) Option {
	return func(c *Client) {
		if fn != nil {
			c.onDelivery = append(c.onDelivery, fn)
		}
	}
}
