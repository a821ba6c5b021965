// Package app wires configuration, storage and services into the HTTP
// application.
package app

import (
	"log/slog"
	"net/http"

	"louslist/internal/api"
	"louslist/internal/config"
	"louslist/internal/db"
	"louslist/internal/db/repository"
	"louslist/internal/domain"
	"louslist/internal/metrics"
	"louslist/internal/middleware"
	"louslist/internal/service/dataset"
	"louslist/internal/storage"
	"louslist/internal/ui"
	"louslist/internal/upstream"
)

// Deps holds the external dependencies main() must provide.
type Deps struct {
	Cfg     *config.Config
	Objects storage.ObjectStore
	History *db.Pool        // nil disables fetch history
	Source  domain.Upstream // nil uses the configured Lou's List endpoint
	Logger  *slog.Logger
}

// App is the fully wired application.
type App struct {
	Service   *dataset.Service
	Metrics   *metrics.Metrics   // nil when METRICS_ENABLED is off
	Scheduler *dataset.Scheduler // nil when FETCH_SCHEDULE is empty
	Router    http.Handler
}

// New wires every component from deps.
func New(deps Deps) *App {
	cfg := deps.Cfg

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	var history domain.FetchHistoryRepository
	if deps.History != nil {
		history = repository.NewFetchHistoryRepo(deps.History.Write, deps.History.Read)
	}

	source := deps.Source
	if source == nil {
		source = upstream.NewClient(cfg.Upstream)
	}

	svc := dataset.NewService(
		source,
		storage.NewDatasetStore(deps.Objects),
		history,
		m,
		cfg.Upstream.DefaultTerm,
		deps.Logger.With("component", "dataset"),
	)

	var sched *dataset.Scheduler
	if cfg.FetchSchedule != "" {
		sched = dataset.NewScheduler(svc, cfg.FetchSchedule, "", deps.Logger.With("component", "scheduler"))
	}

	router := api.NewRouter(
		api.NewHandler(svc, deps.Logger.With("component", "api")),
		api.RouterConfig{
			Logger:  deps.Logger.With("component", "http"),
			Metrics: m,
			RateLimit: middleware.RateLimitConfig{
				RequestsPerSecond: cfg.RateLimitRPS,
				Burst:             cfg.RateLimitBurst,
			},
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			Dashboard:          ui.NewHandler(svc, deps.Logger.With("component", "ui")),
		},
	)

	return &App{Service: svc, Metrics: m, Scheduler: sched, Router: router}
}
