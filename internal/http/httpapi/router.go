package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter assembles the HTTP surface: public catalog and health endpoints,
// the authenticated workflow API, Prometheus metrics, and an optional static
// mount for the filesystem blob store.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/styles", app.ListStyles)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.Metrics.Registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Post("/v1/uploads", app.SubmitUpload)
		r.Get("/v1/uploads", app.UploadStatus)
		r.Post("/v1/generate", app.Generate)
		r.Get("/v1/results", app.ListResults)
		r.Get("/v1/results/zip", app.DownloadAll)
		r.Get("/v1/results/{id}/download", app.DownloadResult)
		r.Post("/v1/reset", app.Reset)
	})

	if staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
