package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"louslist/internal/metrics"
	"louslist/internal/middleware"
)

// RouterConfig holds the outer-surface settings of the router.
type RouterConfig struct {
	Logger             *slog.Logger
	Metrics            *metrics.Metrics // nil disables /metrics
	RateLimit          middleware.RateLimitConfig
	CORSAllowedOrigins []string
	Dashboard          http.Handler // mounted at /dashboard when non-nil
}

// NewRouter wires every route and the middleware chain. Probes and metrics
// bypass rate limiting.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(cfg.Metrics.Middleware)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Healthz)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimiter(cfg.RateLimit))

		r.Get("/", h.Root)
		r.Get("/fetch", h.Fetch)
		r.Get("/fetch/history", h.FetchHistory)
		r.Get("/data", h.Data)
		r.Get("/getcsv", h.DownloadCSV)
		r.Get("/GetCSV", h.DownloadCSV)

		r.Get("/search", h.Search)
		r.Get("/search/{query}", h.Search)
		r.Get("/search/{query}/{format}", h.Search)

		r.Get("/advanced_search/{preset:ofs|enrollment}/{query}", h.AdvancedSearch)
		r.Get("/advanced_search/{preset:ofs|enrollment}/{query}/{format}", h.AdvancedSearch)

		if cfg.Dashboard != nil {
			r.Handle("/dashboard", cfg.Dashboard)
		}
	})

	return r
}
