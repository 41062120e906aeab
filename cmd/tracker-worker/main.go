package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/amqp"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/config"
	applog "github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/log"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/sheets"
	gsheet "github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/sheets/google"
	memsheet "github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/sheets/memory"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store/sqlite"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting tracker-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker reads the sync queue columns, so it always runs against
	// the sqlite store regardless of what the API server was started with.
	st, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open sqlite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Without a spreadsheet the worker mirrors into memory: useless for
	// durability, handy for exercising the pipeline locally.
	var mirror sheets.TransactionWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		if err := client.EnsureHeader(ctx); err != nil {
			logger.Error("Failed to prepare mirror sheet", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		mirror = memsheet.New()
		logger.Warn("No GOOGLE_SPREADSHEET_ID configured, mirroring to memory")
	}

	w := worker.NewWorker(st, mirror, worker.Config{
		PollInterval: cfg.SyncInterval,
		BatchSize:    cfg.SyncBatchSize,
	})

	// Drain whatever accumulated while the worker was down before touching
	// the live queue.
	if err := w.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
	}

	if err := w.Start(ctx); err != nil {
		logger.Error("Failed to start worker", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, relying on periodic scans only", "error", err)
	} else {
		defer amqpClient.Close()
		go func() {
			handler := func(event *amqp.TransactionEvent) error {
				return w.HandleEvent(ctx, event)
			}
			if err := amqpClient.ConsumeTransactionEvents(ctx, handler); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error("Event consumption failed", "error", err)
				}
				cancel()
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := w.Stop(shutdownCtx); err != nil {
		logger.Error("Worker shutdown error", "error", err)
	} else {
		logger.Info("Worker stopped gracefully")
	}
}
