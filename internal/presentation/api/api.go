package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hilthontt/trafficguard/internal/infrastructure/configs"
	"github.com/hilthontt/trafficguard/internal/infrastructure/logging"
	"github.com/hilthontt/trafficguard/internal/infrastructure/metrics"
	"github.com/hilthontt/trafficguard/internal/infrastructure/ratelimiter"
	auditHandler "github.com/hilthontt/trafficguard/internal/presentation/handler/audit"
	healthHandler "github.com/hilthontt/trafficguard/internal/presentation/handler/health"
	violationsHandler "github.com/hilthontt/trafficguard/internal/presentation/handler/violations"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Application struct {
	config            configs.Config
	violationsHandler *violationsHandler.Handler
	auditHandler      *auditHandler.Handler
	healthHandler     *healthHandler.Handler
	logger            logging.Logger
	ratelimiter       ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	violationsHandler *violationsHandler.Handler,
	auditHandler *auditHandler.Handler,
	healthHandler *healthHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:            config,
		violationsHandler: violationsHandler,
		auditHandler:      auditHandler,
		healthHandler:     healthHandler,
		logger:            logger,
		ratelimiter:       ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)
	r.Use(app.loggerMiddleware)
	r.Use(app.prometheusMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/violations", func(r chi.Router) {
			r.Get("/", app.violationsHandler.ListViolationsHandler)
			r.Post("/", app.violationsHandler.CreateViolationHandler)

			// Fixed paths before the {id} wildcard
			r.Get("/stats", app.violationsHandler.GetStatsHandler)
			r.Get("/reports", app.violationsHandler.GetReportsHandler)

			r.Get("/{id}", app.violationsHandler.GetViolationHandler)
			r.Put("/{id}/pay", app.violationsHandler.PayViolationHandler)
			r.Put("/{id}/dispute", app.violationsHandler.DisputeViolationHandler)
			r.Delete("/{id}", app.violationsHandler.DeleteViolationHandler)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", app.auditHandler.ListAuditHandler)
			r.Delete("/", app.auditHandler.ClearAuditHandler)
			r.Get("/stream", app.auditHandler.StreamAuditHandler)
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", metrics.Handler())

	return otelhttp.NewHandler(r, "trafficguard")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
