package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	clientdist "github.com/vango-dev/sortable/client/dist"
	"github.com/vango-dev/sortable/internal/config"
	"github.com/vango-dev/sortable/pkg/middleware"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != s.config.Metrics.Path
		}),
	))
	if s.config.Metrics.Enabled {
		r.Use(middleware.Prometheus(metricsOptions(s.config.Metrics)...))
		r.Method(http.MethodGet, s.config.Metrics.Path, middleware.Handler())
	}

	r.Get("/admin/{type}", s.handlePage)
	r.Method(http.MethodGet, "/ws/{type}", s.ws)
	r.Get("/static/sortable.js", handleClientJS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/admin/items/{type}", s.handleItems)
		r.Post("/admin/reorder/{type}", s.handleReorder)
	})

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleNotFound)
	return r
}

func handleClientJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(clientdist.SortableJS)
}

// metricsOptions maps the metrics section of the config file to
// middleware options. Empty fields keep the middleware defaults.
func metricsOptions(cfg config.MetricsConfig) []middleware.MetricsOption {
	opts := []middleware.MetricsOption{middleware.WithNamespace(cfg.Namespace)}
	if cfg.Subsystem != "" {
		opts = append(opts, middleware.WithSubsystem(cfg.Subsystem))
	}
	if len(cfg.Labels) > 0 {
		opts = append(opts, middleware.WithConstLabels(prometheus.Labels(cfg.Labels)))
	}
	if len(cfg.Buckets) > 0 {
		opts = append(opts, middleware.WithBuckets(cfg.Buckets))
	}
	return opts
}
