package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/benefits-api/internal/config"
	"github.com/pkordes/benefits-api/internal/handler"
	"github.com/pkordes/benefits-api/internal/middleware"
)

// newRouter assembles the middleware stack, the API routes, and /metrics.
// A nil pool leaves the connection pool gauges out of the registry.
//
// Order: RequestID → RealIP → SlogLogger → Metrics → Recoverer → CORS → MaxBodySize.
// Recoverer sits inside the logger and metrics so a panic is recorded as a 500.
func newRouter(cfg config.Config, logger *slog.Logger, srv *handler.Server, pool poolStater) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if pool != nil {
		reg.MustRegister(newPoolCollector(pool))
	}

	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srv.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return r, nil
}
