package waitlist

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrymomot/waitlist/pkg/sink"
)

// Config is read once at startup, normally with the WAITLIST_ prefix.
type Config struct {
	EndpointURL              string        `env:"ENDPOINT_URL"`
	RequestTimeout           time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	RateLimitWindow          time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	MaxRequestsPerWindow     int           `env:"MAX_REQUESTS_PER_WINDOW" envDefault:"5"`
	RateLimitEnabled         bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	SanitizeEnabled          bool          `env:"SANITIZE_ENABLED" envDefault:"true"`
	ResponsePolicy           string        `env:"RESPONSE_POLICY" envDefault:"opaque"`
	AssumeDeliveredOnUnknown bool          `env:"ASSUME_DELIVERED_ON_UNKNOWN" envDefault:"false"`
	Limits                   Limits
}

// DefaultConfig mirrors the env defaults for callers that build Config in code.
func DefaultConfig(endpoint string) Config {
	return Config{
		EndpointURL:          endpoint,
		RequestTimeout:       sink.DefaultTimeout,
		RateLimitWindow:      time.Minute,
		MaxRequestsPerWindow: 5,
		RateLimitEnabled:     true,
		SanitizeEnabled:      true,
		ResponsePolicy:       sink.PolicyOpaque.String(),
		Limits:               DefaultLimits(),
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.EndpointURL == "" {
		errs = append(errs, ErrEndpointRequired)
	} else if u, err := url.Parse(c.EndpointURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("endpoint URL %q must be an absolute http(s) URL", c.EndpointURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.RateLimitEnabled {
		if c.RateLimitWindow <= 0 {
			errs = append(errs, errors.New("rate limit window must be positive"))
		}
		if c.MaxRequestsPerWindow <= 0 {
			errs = append(errs, errors.New("max requests per window must be positive"))
		}
	}
	if _, err := sink.ParsePolicy(c.ResponsePolicy); err != nil {
		errs = append(errs, err)
	}
	if err := c.Limits.validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SinkOptions translates the delivery settings into sink client options.
func (c Config) SinkOptions() []sink.Option {
	policy, _ := sink.ParsePolicy(c.ResponsePolicy)
	return []sink.Option{
		sink.WithTimeout(c.RequestTimeout),
		sink.WithPolicy(policy),
		sink.WithAssumeDeliveredOnUnknown(c.AssumeDeliveredOnUnknown),
	}
}
