package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/amqp"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/backend"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/backup"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/cache"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/config"
	apphttp "github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/http"
	applog "github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/log"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/middleware/ratelimit"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/services"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/session"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, applog.ComponentApp)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// The event publisher is optional: without a broker the API still works,
	// the mirror just lags until the worker's periodic scan.
	var publisher services.EventPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, transaction events disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	sessions := session.NewManager(cfg.SessionTTL)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		Store:          result.Store,
		Sessions:       sessions,
		Transactions:   services.NewTransactionService(result.Store, publisher),
		Backups:        backup.NewService(result.Store),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:      ratelimit.DefaultConfig(),
		Logger:         logger.WithComponent(applog.ComponentHTTP),
	})

	// One sweeper handles every expiring table: sessions plus the server's
	// report caches.
	cleanups := cache.NewManager()
	cleanups.Register(sessions)
	for _, c := range srv.Cleaners() {
		cleanups.Register(c)
	}
	cleanups.StartCleanup(5 * time.Minute)
	defer cleanups.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting tracker server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
