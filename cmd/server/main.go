package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grillz/web/internal/api"
	"github.com/grillz/web/internal/config"
	"github.com/grillz/web/internal/metrics"
	"github.com/grillz/web/internal/probe"
	"github.com/grillz/web/internal/ratelimiter"
	"github.com/grillz/web/internal/session"
	"github.com/grillz/web/internal/view"
	"github.com/grillz/web/internal/worker"
)

func main() {
	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.APIBaseURL == "" {
		logger.Warn(config.BaseURLKey + " is not set; every ping will report a configuration error")
	}

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	limiter := ratelimiter.New(cfg.ProbeRateLimit)
	healthProbe := probe.NewHTTPProbe(cfg.APIBaseURL, cfg.ProbeTimeout,
		probe.WithLimiter(limiter),
		probe.WithHooks(m.ProbeHooks()),
	)

	sessions := session.NewRegistry(func() *view.View {
		return view.New(healthProbe, logger.Named("view"))
	})
	sessions.OnChange = m.SetViewsActive

	// ---- background workers ----
	// Context for all background goroutines; cancelled on shutdown signal.
	ctx := context.Background()
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	janitor := worker.NewJanitor(sessions, cfg.SessionTTL, cfg.SessionSweepInterval, logger.Named("janitor"))
	go janitor.Run(workerCtx)

	// ---- HTTP server ----
	router := api.NewRouter(sessions, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("api_base_url", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests. Open websockets are hijacked and
	// not tracked by Shutdown; closing the views below ends them.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop the janitor.
	cancelWorkers()

	// 3. Tear down every view, cancelling outstanding pings.
	sessions.CloseAll()

	logger.Info("server stopped cleanly")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
