package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gamestore/internal/config"
	"gamestore/internal/game"
	"gamestore/internal/httpx"
	"gamestore/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sourcegraph/conc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Format:      cfg.LogFormat,
		Environment: cfg.Env,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	repo, ping, closeRepo, err := openCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := newRouter(ctx, routerDeps{
		cfg:      cfg,
		logger:   log,
		service:  game.NewService(repo, cfg.PageSize),
		ping:     ping,
		registry: registry,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	var wg conc.WaitGroup
	wg.Go(func() {
		log.Info("starting server", "addr", cfg.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	wg.Wait()
	return err
}

type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	service  *game.Service
	ping     func(context.Context) error
	registry *prometheus.Registry
}

func newRouter(ctx context.Context, d routerDeps) http.Handler {
	gameHandler := game.NewHTTPHandler(d.service)
	metrics := httpx.NewMetrics(d.registry)
	rateLimiter := httpx.NewRateLimitMiddleware(ctx, d.cfg.RateLimitRPS, d.cfg.RateLimitBurst)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))

	router.Handle("GET /api/games", rateLimiter.Middleware(http.HandlerFunc(gameHandler.List)))
	router.Handle("GET /api/games/{id}", rateLimiter.Middleware(http.HandlerFunc(gameHandler.GetByID)))

	return httpx.Chain(
		router,
		httpx.RecoveryMiddleware,
		httpx.RequestIDMiddleware(d.logger),
		httpx.AccessLogMiddleware,
		httpx.SecurityHeadersMiddleware(d.cfg.Env == "production"),
		httpx.CORSMiddleware(d.cfg.AllowedOrigins),
		httpx.RequestSizeLimitMiddleware(1<<20),
		metrics.Middleware,
	)
}

// openCatalog uses Postgres when DB_DSN is set and the built-in catalog otherwise.
func openCatalog(ctx context.Context, cfg *config.Config, log *slog.Logger) (game.Repository, func(context.Context) error, func(), error) {
	if cfg.DBDSN == "" {
		log.Info("DB_DSN not set, serving built-in catalog")
		noop := func(context.Context) error { return nil }
		return game.NewMemoryRepo(game.Catalog()), noop, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(cfg.DBDSN), err)
	}
	log.Info("database connection OK", "dsn", redactDSN(cfg.DBDSN))
	return game.NewPostgresRepo(pool, cfg.DBTimeout), pool.Ping, pool.Close, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
