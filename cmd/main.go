package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/paceline/internal/adapters/export"
	"github.com/okian/paceline/internal/adapters/http/api"
	"github.com/okian/paceline/internal/adapters/repository"
	"github.com/okian/paceline/internal/adapters/timecheck"
	app "github.com/okian/paceline/internal/app"
	"github.com/okian/paceline/internal/config"
	"github.com/okian/paceline/internal/domain/ranking"
	"github.com/okian/paceline/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the custom registry carries
	// only timing metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Open the race state store.
	store, err := repository.Open(cfg.DataPath)
	if err != nil {
		loggerInstance.Error(ctx, "failed to open data store", logger.String("path", cfg.DataPath), logger.Error(err))
		return
	}

	// Auto-backups land next to the store as timestamped JSON files.
	sink, err := export.NewFileSink(cfg.BackupDir, cfg.EventName)
	if err != nil {
		loggerInstance.Error(ctx, "failed to prepare backup directory", logger.String("dir", cfg.BackupDir), logger.Error(err))
		return
	}

	// Create and start the timing session with configuration options.
	session := app.New(
		app.WithLogger(loggerInstance),
		app.WithStore(store),
		app.WithBackupSink(sink),
		app.WithEventName(cfg.EventName),
		app.WithAutoBackupThreshold(cfg.AutoBackupThreshold),
		app.WithAgePolicy(ranking.Policy{
			JuniorAgeLimit: cfg.JuniorAgeLimit,
			MastersAgeMin:  cfg.MastersAgeMin,
		}),
		app.WithDefaultWaveTimes(cfg.WaveATime, cfg.WaveBTime, cfg.WaveCTime),
	)
	if err := session.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start timing session", logger.Error(err))
		return
	}
	defer session.Stop()

	checker := timecheck.New(
		timecheck.WithURL(cfg.ClockCheckURL),
		timecheck.WithTimeout(cfg.ClockCheckTimeout()),
		timecheck.WithTolerance(cfg.ClockSkewTolerance()),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	apiServer := api.NewServer(session, session, checker, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("event", cfg.EventName))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}
