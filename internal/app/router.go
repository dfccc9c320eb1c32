package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sarabun-oss/sarabun/internal/jobs"
	"github.com/sarabun-oss/sarabun/internal/observability"
	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
	"github.com/sarabun-oss/sarabun/internal/travel"
	"github.com/sarabun-oss/sarabun/internal/users"
)

// RouterConfig aggregates everything the HTTP surface mounts.
type RouterConfig struct {
	Middleware  MiddlewareConfig
	Travel      *travel.Handler
	Users       *users.Handler
	QueueHealth *jobs.Health
	Metrics     *observability.Metrics
}

// NewRouter assembles the application router.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(cfg.Middleware) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	if cfg.QueueHealth != nil {
		r.Get("/jobs/health", cfg.QueueHealth.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Travel != nil {
			cfg.Travel.MountRoutes(r)
		}
		if cfg.Users != nil {
			cfg.Users.MountRoutes(r)
		}
	})
	return r
}
