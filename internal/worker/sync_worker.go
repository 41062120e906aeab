// Package worker copies transactions into the spreadsheet mirror. It
// handles queue events as they arrive and periodically re-scans the
// database for rows the event path missed (broker down, worker restarted,
// mirror unavailable).
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/amqp"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/sheets"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store/sqlite"
)

// Config holds configuration for the mirror worker
type Config struct {
	// PollInterval is how often to scan for unmirrored rows (default: 30s)
	PollInterval time.Duration

	// BatchSize is the max number of rows to mirror per scan (default: 10)
	BatchSize int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		BatchSize:    10,
	}
}

// SyncStore is the slice of the transaction store the worker needs.
// *sqlite.Store satisfies it.
type SyncStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]sqlite.PendingTransaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64, cause string) error
}

// Worker mirrors transactions to the spreadsheet journal
type Worker struct {
	store  SyncStore
	mirror sheets.TransactionWriter
	config Config

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWorker creates a mirror worker
func NewWorker(store SyncStore, mirror sheets.TransactionWriter, config Config) *Worker {
	return &Worker{
		store:  store,
		mirror: mirror,
		config: config,
	}
}

// HandleEvent processes one transaction event from the queue. Only created
// events reach the mirror: the journal is append-only, so deleted events are
// acknowledged and dropped. A row that no longer exists is not an error — the
// transaction was deleted before the event was consumed.
func (w *Worker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	if event.Action != amqp.ActionCreated {
		slog.DebugContext(ctx, "Ignoring transaction event",
			"id", event.TransactionID,
			"action", event.Action)
		return nil
	}

	t, err := w.store.GetTransaction(ctx, event.TransactionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.InfoContext(ctx, "Transaction gone before mirror, skipping",
				"id", event.TransactionID)
			return nil
		}
		return fmt.Errorf("get transaction %d: %w", event.TransactionID, err)
	}

	return w.mirrorTransaction(ctx, t)
}

// ProcessPending mirrors one batch of rows still marked pending. Rows that
// cannot be rebuilt into a valid transaction are marked with a sync error and
// skipped; a broken row must not wedge the whole queue.
func (w *Worker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncTransactions(ctx, w.config.BatchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.DebugContext(ctx, "Mirroring pending transactions", "count", len(pending))

	for _, p := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t, err := pendingToTransaction(p)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping unmirrorable transaction",
				"id", p.ID, "error", err)
			if markErr := w.store.MarkSyncError(ctx, p.ID, err.Error()); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error",
					"id", p.ID, "error", markErr)
			}
			continue
		}

		if err := w.mirrorTransaction(ctx, t); err != nil {
			slog.WarnContext(ctx, "Failed to mirror pending transaction",
				"id", p.ID, "error", err)
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog accumulated while the worker
// was down. It scans a larger batch than the regular poll and reports a
// summary instead of failing on the first bad row.
func (w *Worker) StartupSyncCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "Checking for transactions missed while offline")

	pending, err := w.store.GetPendingSyncTransactions(ctx, w.config.BatchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions to mirror", "count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		t, err := pendingToTransaction(p)
		if err != nil {
			errorCount++
			if markErr := w.store.MarkSyncError(ctx, p.ID, err.Error()); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error",
					"id", p.ID, "error", markErr)
			}
			continue
		}

		if err := w.mirrorTransaction(ctx, t); err != nil {
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"success", successCount,
		"errors", errorCount)

	return nil
}

// Start begins the periodic scan loop. Returns an error if already running.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("mirror worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Mirror worker started",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize)

	return nil
}

// Stop gracefully stops the worker and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
		slog.InfoContext(ctx, "Mirror worker stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Mirror worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning returns whether the worker is currently running
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Worker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Scan immediately on startup
	if err := w.ProcessPending(ctx); err != nil {
		slog.ErrorContext(ctx, "Pending scan failed", "error", err)
	}

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending scan failed", "error", err)
			}
		}
	}
}

// mirrorTransaction appends one transaction to the journal and records the
// outcome on the row.
func (w *Worker) mirrorTransaction(ctx context.Context, t core.Transaction) error {
	ref, err := w.mirror.Append(ctx, t)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, t.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.store.MarkSynced(ctx, t.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", t.ID, "error", err)
		// Don't return error here - the mirror write actually worked
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"id", t.ID,
		"ref", ref,
		"description", t.Description,
		"amount", t.Amount)

	return nil
}

// pendingToTransaction rebuilds a full transaction from a pending sync row.
func pendingToTransaction(p sqlite.PendingTransaction) (core.Transaction, error) {
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", p.Date, err)
	}
	return core.Transaction{
		ID:          p.ID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Date:        date,
		Type:        core.TransactionType(p.Type),
	}, nil
}
