package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waitlist/modules/waitlist"
	"github.com/dmitrymomot/waitlist/pkg/clientip"
	"github.com/dmitrymomot/waitlist/pkg/httpserver"
	"github.com/dmitrymomot/waitlist/pkg/logger"
	"github.com/dmitrymomot/waitlist/pkg/ratelimit"
	"github.com/dmitrymomot/waitlist/pkg/redis"
	"github.com/dmitrymomot/waitlist/pkg/requestid"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the waitlist form relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides WAITLIST_HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg appConfig) error {
	log := logger.New(
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := waitlist.NewMetrics(reg)

	store, checks, closeStore, err := rateLimitStore(ctx, cfg.Redis, metrics, log)
	if err != nil {
		return err
	}
	defer closeStore()

	guard, err := waitlist.NewFromConfig(cfg.Waitlist, store,
		waitlist.WithLogger(log.With(logger.Component("guard"))),
		waitlist.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("waitlist: %w", err)
	}

	router := waitlist.Router(waitlist.RouterOptions{
		Waitlist: waitlist.NewHandler(guard, cfg.Waitlist.Limits, waitlist.WithHandlerLogger(log)),
		Health:   httpserver.HealthCheckHandler(log, checks...),
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),

		TrustedIPHeaders: cfg.HTTP.TrustedIPHeaders,
	})

	log.InfoContext(ctx, "waitlist relay configured",
		slog.Bool("rate_limit", cfg.Waitlist.RateLimitEnabled),
		slog.Bool("sanitize", cfg.Waitlist.SanitizeEnabled),
		slog.String("response_policy", cfg.Waitlist.ResponsePolicy),
		slog.Bool("shared_store", cfg.Redis.Enabled()),
	)

	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}

// rateLimitStore uses Redis when a URL is configured so replicas share one
// window, and an owned in-memory store otherwise.
func rateLimitStore(ctx context.Context, cfg redis.Config, metrics *waitlist.Metrics, log *slog.Logger) (ratelimit.SlidingWindowStore, []httpserver.Check, func(), error) {
	if !cfg.Enabled() {
		store := ratelimit.NewMemoryStore()
		metrics.WatchTrackedIdentifiers(store.Len)
		return store, nil, func() {}, nil
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := ratelimit.NewRedisStore(client, ratelimit.WithKeyPrefix("waitlist:ratelimit:"))
	if err != nil {
		_ = client.Close()
		return nil, nil, nil, err
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("redis close failed", logger.Error(err))
		}
	}
	return store, []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}}, closeFn, nil
}
