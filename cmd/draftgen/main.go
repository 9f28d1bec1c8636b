package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/af-corp/draftgen/internal/api"
	"github.com/af-corp/draftgen/internal/app"
	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/ratelimit"
	"github.com/af-corp/draftgen/internal/telemetry"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(*configDir, logger, level); err != nil {
		logger.Error("draftgen exited", "error", err)
		os.Exit(1)
	}
}

func run(configDir string, logger *slog.Logger, level *slog.LevelVar) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	loader := config.NewLoader(configDir, logger)
	if err := loader.Load(); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := loader.Watch(ctx); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	cfg := loader.Config()
	level.Set(cfg.Telemetry.SlogLevel())

	// Connect to Redis
	var rdb *redis.Client
	if len(cfg.Redis.Addresses) > 0 && cfg.Redis.Addresses[0] != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addresses[0],
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not reachable (rate limiting disabled)", "error", err)
			rdb.Close()
			rdb = nil
		} else {
			logger.Info("redis connected")
			defer rdb.Close()
		}
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	a, err := app.Build(ctx, loader, metrics, app.Options{})
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	loader.OnReload(func() {
		level.Set(loader.Config().Telemetry.SlogLevel())
		a.Reload(ctx)
	})

	handler := api.NewHandler(a.Pipeline, loader.Config, version)
	limiter := ratelimit.Middleware(ratelimit.NewLimiter(rdb), func() config.RateLimitConfig {
		return loader.Config().RateLimit
	}, metrics)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Telemetry.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("draftgen starting",
			"addr", addr,
			"version", version,
			"provider", cfg.Generation.Provider,
			"model", cfg.Generation.Model,
		)
		return serve(srv)
	})
	g.Go(func() error {
		logger.Info("metrics server starting", "addr", metricsSrv.Addr)
		return serve(metricsSrv)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("draftgen stopped")
	return nil
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", srv.Addr, err)
	}
	return nil
}
