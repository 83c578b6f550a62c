package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/environment"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/sessionmetrics"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the demo HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			b, err := openBackend(ctx, a.cfg.Store, a.log)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := sessionmetrics.New(a.cfg.MetricsNamespace)
			reg.MustRegister(metrics)

			cookies, err := cookie.NewFromConfig(a.cfg.Cookie)
			if err != nil {
				_ = b.Close()
				return err
			}

			transport, err := buildTransport(a.cfg.Wire, a.cfg.Session, cookies)
			if err != nil {
				_ = b.Close()
				return err
			}
			newID, err := idGenerator(a.cfg.Wire.IDFormat)
			if err != nil {
				_ = b.Close()
				return err
			}

			mgr, err := session.NewFromConfig(a.cfg.Session,
				session.WithStore(b.store),
				session.WithTransport(transport),
				session.WithIDGenerator(newID),
				session.WithObserver(metrics),
				session.WithLogger(a.log),
			)
			if err != nil {
				_ = b.Close()
				return err
			}

			router := newRouter(a.log, environment.Parse(a.cfg.Log.Environment), mgr, reg, b.checks)

			srv := httpserver.NewFromConfig(a.cfg.HTTP,
				httpserver.WithLogger(a.log),
				httpserver.WithShutdownHook(func() {
					if err := mgr.Close(); err != nil {
						a.log.Error("failed to close session manager", logger.Error(err))
					}
					if err := b.Close(); err != nil {
						a.log.Error("failed to close store connections", logger.Error(err))
					}
				}),
			)
			return srv.Run(ctx, router)
		},
	}
}

func newRouter(
	log *slog.Logger,
	env environment.Environment,
	mgr *session.Manager,
	gatherer prometheus.Gatherer,
	checks []httpserver.Check,
) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(environment.Middleware(env))

	r.Get("/live", httpserver.LivenessHandler())
	r.Get("/ready", httpserver.ReadinessHandler(log, 3*time.Second, checks...))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/session", func(r chi.Router) {
		r.Use(mgr.Middleware)
		r.Get("/", showSession)
		r.Put("/values/{key}", setValue)
		r.Delete("/values/{key}", deleteValue)
		r.Post("/visits", countVisit)
		r.Post("/flash", setFlash)
		r.Get("/flash", readFlash)
		r.Post("/regenerate", regenerate)
		r.Delete("/", destroySession)
	})
	return r
}
