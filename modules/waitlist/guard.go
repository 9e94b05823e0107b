package waitlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/waitlist/pkg/logger"
	"github.com/dmitrymomot/waitlist/pkg/ratelimit"
	"github.com/dmitrymomot/waitlist/pkg/sanitizer"
	"github.com/dmitrymomot/waitlist/pkg/sink"
)

// Limiter admits or rejects an attempt for an identifier.
type Limiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Result, error)
}

// Sender delivers a payload to the sink.
type Sender interface {
	Send(ctx context.Context, endpoint string, fields sink.Fields) (*sink.Delivery, error)
}

// Outcome describes one Guard.Submit call.
type Outcome struct {
	SubmissionID string
	Category     Category
	// RetryAfter is set for RateLimited outcomes.
	RetryAfter time.Duration
	// Assumed reports that an unclassified sink error was counted as delivered.
	Assumed bool
	// Duration of the sink exchange, zero when no request was made.
	Duration time.Duration
}

// Guard rate-limits, sanitizes and forwards waitlist records to the sink.
// It never retries and keeps no record after Submit returns.
type Guard struct {
	endpoint string
	sender   Sender
	limiter  Limiter
	sanitize bool
	logger   *slog.Logger
	metrics  *Metrics
	newID    func() string
}

// Option configures a Guard.
type Option func(*Guard)

// WithLimiter enables rate limiting. Without it every submission is admitted.
func WithLimiter(l Limiter) Option {
	return func(g *Guard) { g.limiter = l }
}

// WithSanitize turns input sanitization on or off. It is on by default.
func WithSanitize(enabled bool) Option {
	return func(g *Guard) { g.sanitize = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(g *Guard) { g.metrics = m }
}

// WithIDGenerator replaces the UUID submission ID source.
func WithIDGenerator(fn func() string) Option {
	return func(g *Guard) {
		if fn != nil {
			g.newID = fn
		}
	}
}

func NewGuard(endpoint string, sender Sender, opts ...Option) (*Guard, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if sender == nil {
		return nil, ErrSenderRequired
	}

	g := &Guard{
		endpoint: endpoint,
		sender:   sender,
		sanitize: true,
		logger:   logger.Nop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewFromConfig builds the sink client and, when enabled, a sliding window
// limiter over store. Extra opts are applied last.
func NewFromConfig(cfg Config, store ratelimit.SlidingWindowStore, opts ...Option) (*Guard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []Option{WithSanitize(cfg.SanitizeEnabled)}
	if cfg.RateLimitEnabled {
		limiter, err := ratelimit.NewSlidingWindow(store, cfg.MaxRequestsPerWindow, cfg.RateLimitWindow)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		base = append(base, WithLimiter(limiter))
	}

	return NewGuard(cfg.EndpointURL, sink.New(cfg.SinkOptions()...), append(base, opts...)...)
}

// Submit runs one record through the limiter, the sanitizer and the sink.
// A rejected record returns ErrRateLimited before any sanitization or
// network call. Other failures wrap ErrTimeout, ErrNetwork or ErrUnknown.
func (g *Guard) Submit(ctx context.Context, r Record) (Outcome, error) {
	out := Outcome{SubmissionID: g.newID()}
	log := g.logger.With(
		logger.SubmissionID(out.SubmissionID),
		logger.UserType(r.UserType.String()),
		logger.Email(sanitizer.MaskEmail(r.Email)),
	)

	if retryAfter, limited := g.checkLimit(ctx, log, r.Identifier()); limited {
		out.Category = RateLimited
		out.RetryAfter = retryAfter
		g.metrics.ObserveSubmission(r.UserType, RateLimited)
		log.WarnContext(ctx, "waitlist submission rate limited",
			logger.Category(RateLimited.String()),
			slog.Duration("retry_after", retryAfter))
		return out, fmt.Errorf("%w: retry after %s", ErrRateLimited, retryAfter.Round(time.Second))
	}

	if g.sanitize {
		r = r.Sanitized()
	}

	delivery, err := g.sender.Send(ctx, g.endpoint, r.Fields())
	err = deliveryError(err)
	out.Category = Classify(err)
	if delivery != nil {
		out.Duration = delivery.Duration
		out.Assumed = delivery.Assumed
		g.metrics.ObserveSinkRequest(out.Category, delivery.Duration)
	}
	g.metrics.ObserveSubmission(r.UserType, out.Category)

	attrs := []any{logger.Category(out.Category.String()), logger.Duration(out.Duration)}
	switch {
	case err != nil:
		log.WarnContext(ctx, "waitlist submission failed", append(attrs, logger.Error(err))...)
	case out.Assumed:
		g.metrics.IncrementAssumedDeliveries()
		log.WarnContext(ctx, "waitlist submission assumed delivered", append(attrs, logger.Error(delivery.Cause))...)
	default:
		log.InfoContext(ctx, "waitlist submission delivered", attrs...)
	}

	return out, err
}

// checkLimit fails open: a broken store admits the attempt.
func (g *Guard) checkLimit(ctx context.Context, log *slog.Logger, key string) (time.Duration, bool) {
	if g.limiter == nil {
		return 0, false
	}

	res, err := g.limiter.Allow(ctx, key)
	if err != nil {
		g.metrics.IncrementLimiterStoreFailures()
		log.WarnContext(ctx, "rate limit check skipped", logger.Error(err))
		return 0, false
	}
	if res.Allowed {
		return 0, false
	}
	return res.RetryAfter, true
}

// deliveryError rewraps a sink error with the matching waitlist sentinel.
func deliveryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sink.ErrTimeout):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, sink.ErrNetwork):
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnknown, err)
	}
}
