// Command server runs the Lou's List course listing HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"louslist/internal/app"
	"louslist/internal/config"
	"louslist/internal/db"
	"louslist/internal/storage"
)

const (
	defaultListenAddr = ":6000"
	shutdownTimeout   = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	objects, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init %s storage: %w", cfg.StorageBackend, err)
	}
	if c, ok := objects.(io.Closer); ok {
		defer c.Close() //nolint:errcheck
	}

	history, err := openHistory(ctx, cfg.HistoryDBPath)
	if err != nil {
		return err
	}
	defer history.Close() //nolint:errcheck

	a := app.New(app.Deps{
		Cfg:     cfg,
		Objects: objects,
		History: history,
		Logger:  logger,
	})
	defer a.Service.Wait()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Upstream.Timeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.Scheduler != nil {
		if err := a.Scheduler.Start(gctx); err != nil {
			return err
		}
		defer a.Scheduler.Stop()
	}

	g.Go(func() error {
		logger.Info("HTTP API listening",
			"addr", cfg.ListenAddr,
			"storage", objects.Location(),
			"try", "curl http://"+curlHostForListenAddr(cfg.ListenAddr)+"/fetch",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func openHistory(ctx context.Context, path string) (*db.Pool, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	pool, err := db.OpenPool(path, 4)
	if err != nil {
		return nil, fmt.Errorf("open fetch history: %w", err)
	}
	if err := db.Migrate(ctx, pool.Write); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate fetch history: %w", err)
	}
	return pool, nil
}

// curlHostForListenAddr turns a listen address into a host:port a local
// curl can reach. Wildcard hosts become localhost.
func curlHostForListenAddr(listenAddr string) string {
	addr := strings.TrimSpace(listenAddr)
	if addr == "" {
		addr = defaultListenAddr
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
