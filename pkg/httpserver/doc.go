// Package httpserver runs an http.Server until its context is cancelled and
// then shuts it down within a deadline.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server", logger.Error(err))
//	}
//
// Errors wrap ErrStart or ErrShutdown. HealthCheckHandler serves liveness
// and readiness probes.
package httpserver
