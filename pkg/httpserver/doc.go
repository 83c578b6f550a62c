// Package httpserver runs the demo service behind the sessionkit command.
//
// Server listens on the configured address and drains in-flight requests when
// its context is cancelled. Shutdown hooks run after draining, which is where
// the session manager and store connections are closed.
//
//	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	err := srv.Run(ctx, router)
//
// LivenessHandler and ReadinessHandler back the /live and /ready probes.
package httpserver
