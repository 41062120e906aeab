package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/amqp"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/sheets/memory"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store/sqlite"
)

type fakeSyncStore struct {
	mu         sync.Mutex
	txs        map[int64]core.Transaction
	pending    []sqlite.PendingTransaction
	getErr     error
	synced     []int64
	syncErrors map[int64]string
}

func newFakeSyncStore() *fakeSyncStore {
	return &fakeSyncStore{
		txs:        map[int64]core.Transaction{},
		syncErrors: map[int64]string{},
	}
}

func (f *fakeSyncStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return core.Transaction{}, f.getErr
	}
	t, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (f *fakeSyncStore) GetPendingSyncTransactions(ctx context.Context, limit int) ([]sqlite.PendingTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	out := make([]sqlite.PendingTransaction, limit)
	copy(out, f.pending[:limit])
	return out, nil
}

func (f *fakeSyncStore) MarkSynced(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeSyncStore) MarkSyncError(ctx context.Context, id int64, cause string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncErrors[id] = cause
	return nil
}

type failingMirror struct {
	err error
}

func (m *failingMirror) Append(ctx context.Context, t core.Transaction) (string, error) {
	return "", m.err
}

func mirrorTx(id int64) core.Transaction {
	return core.Transaction{
		ID:          id,
		UserID:      1,
		Amount:      12.5,
		Category:    "food",
		Description: "groceries",
		Date:        core.NewDate(2025, 3, 14),
		Type:        core.TypeExpense,
	}
}

func pendingRow(id int64, date string) sqlite.PendingTransaction {
	return sqlite.PendingTransaction{
		ID:          id,
		UserID:      1,
		Amount:      9.99,
		Category:    "food",
		Description: "lunch",
		Date:        date,
		Type:        "expense",
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.PollInterval != 30*time.Second {
		t.Errorf("expected PollInterval 30s, got %v", config.PollInterval)
	}
	if config.BatchSize != 10 {
		t.Errorf("expected BatchSize 10, got %d", config.BatchSize)
	}
}

func TestHandleEventMirrorsCreatedTransaction(t *testing.T) {
	fs := newFakeSyncStore()
	fs.txs[7] = mirrorTx(7)
	mirror := memory.New()
	w := NewWorker(fs, mirror, DefaultConfig())

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(7, amqp.ActionCreated))
	if err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	rows := mirror.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 mirrored row, got %d", len(rows))
	}
	if rows[0].ID != 7 {
		t.Errorf("expected transaction 7 mirrored, got %d", rows[0].ID)
	}
	if len(fs.synced) != 1 || fs.synced[0] != 7 {
		t.Errorf("expected transaction 7 marked synced, got %v", fs.synced)
	}
}

func TestHandleEventIgnoresDeletedEvents(t *testing.T) {
	fs := newFakeSyncStore()
	fs.txs[7] = mirrorTx(7)
	mirror := memory.New()
	w := NewWorker(fs, mirror, DefaultConfig())

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(7, amqp.ActionDeleted))
	if err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if len(mirror.Rows()) != 0 {
		t.Errorf("deleted event must not touch the mirror, got %d rows", len(mirror.Rows()))
	}
	if len(fs.synced) != 0 {
		t.Errorf("deleted event must not mark anything synced, got %v", fs.synced)
	}
}

func TestHandleEventSkipsMissingTransaction(t *testing.T) {
	fs := newFakeSyncStore()
	mirror := memory.New()
	w := NewWorker(fs, mirror, DefaultConfig())

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(99, amqp.ActionCreated))
	if err != nil {
		t.Fatalf("missing transaction should be skipped, not failed: %v", err)
	}

	if len(mirror.Rows()) != 0 {
		t.Errorf("expected no mirrored rows, got %d", len(mirror.Rows()))
	}
	if len(fs.syncErrors) != 0 {
		t.Errorf("expected no sync errors, got %v", fs.syncErrors)
	}
}

func TestHandleEventMarksFailureAndReturnsError(t *testing.T) {
	fs := newFakeSyncStore()
	fs.txs[7] = mirrorTx(7)
	w := NewWorker(fs, &failingMirror{err: errors.New("quota exceeded")}, DefaultConfig())

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(7, amqp.ActionCreated))
	if err == nil {
		t.Fatal("expected error when the mirror write fails")
	}
	if !strings.Contains(err.Error(), "append to mirror") {
		t.Errorf("unexpected error: %v", err)
	}

	if fs.syncErrors[7] != "quota exceeded" {
		t.Errorf("expected sync error recorded on the row, got %v", fs.syncErrors)
	}
	if len(fs.synced) != 0 {
		t.Errorf("failed mirror must not mark synced, got %v", fs.synced)
	}
}

func TestHandleEventPropagatesStoreError(t *testing.T) {
	fs := newFakeSyncStore()
	fs.getErr = errors.New("database is locked")
	w := NewWorker(fs, memory.New(), DefaultConfig())

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(7, amqp.ActionCreated))
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if !strings.Contains(err.Error(), "get transaction 7") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProcessPendingMirrorsBatch(t *testing.T) {
	fs := newFakeSyncStore()
	fs.pending = []sqlite.PendingTransaction{
		pendingRow(1, "2025-03-14"),
		pendingRow(2, "2025-03-15"),
		pendingRow(3, "14/03/2025"),
	}
	mirror := memory.New()
	w := NewWorker(fs, mirror, DefaultConfig())

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending failed: %v", err)
	}

	if len(mirror.Rows()) != 2 {
		t.Errorf("expected 2 mirrored rows, got %d", len(mirror.Rows()))
	}
	if len(fs.synced) != 2 {
		t.Errorf("expected 2 rows marked synced, got %v", fs.synced)
	}
	if _, ok := fs.syncErrors[3]; !ok {
		t.Error("expected the unparsable row to be marked with a sync error")
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	fs := newFakeSyncStore()
	for i := int64(1); i <= 5; i++ {
		fs.pending = append(fs.pending, pendingRow(i, "2025-03-14"))
	}
	mirror := memory.New()

	config := DefaultConfig()
	config.BatchSize = 2
	w := NewWorker(fs, mirror, config)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending failed: %v", err)
	}

	if len(mirror.Rows()) != 2 {
		t.Errorf("expected batch of 2 mirrored rows, got %d", len(mirror.Rows()))
	}
}

func TestStartupSyncCheckDrainsBacklog(t *testing.T) {
	fs := newFakeSyncStore()
	fs.pending = []sqlite.PendingTransaction{
		pendingRow(1, "2025-03-14"),
		pendingRow(2, "2025-03-15"),
		pendingRow(3, "2025-03-16"),
		pendingRow(4, "not-a-date"),
	}
	mirror := memory.New()

	config := DefaultConfig()
	config.BatchSize = 2 // startup check scans five times the poll batch
	w := NewWorker(fs, mirror, config)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck failed: %v", err)
	}

	if len(mirror.Rows()) != 3 {
		t.Errorf("expected 3 mirrored rows, got %d", len(mirror.Rows()))
	}
	if _, ok := fs.syncErrors[4]; !ok {
		t.Error("expected the bad row to be marked with a sync error")
	}
}

func TestStartupSyncCheckEmptyBacklog(t *testing.T) {
	w := NewWorker(newFakeSyncStore(), memory.New(), DefaultConfig())

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck failed: %v", err)
	}
}

func TestWorker_IsRunning(t *testing.T) {
	w := NewWorker(newFakeSyncStore(), memory.New(), DefaultConfig())

	if w.IsRunning() {
		t.Error("worker should not be running initially")
	}
}

func TestWorker_StartTwice(t *testing.T) {
	fs := newFakeSyncStore()
	w := NewWorker(fs, memory.New(), DefaultConfig())

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	defer w.Stop(ctx)

	if err := w.Start(ctx); err == nil {
		t.Error("expected error when starting already running worker")
	}
}

func TestWorker_StopNotRunning(t *testing.T) {
	w := NewWorker(newFakeSyncStore(), memory.New(), DefaultConfig())

	if err := w.Stop(context.Background()); err != nil {
		t.Errorf("Stop should not error when not running: %v", err)
	}
}

func TestWorker_StartStop(t *testing.T) {
	fs := newFakeSyncStore()
	fs.pending = []sqlite.PendingTransaction{pendingRow(1, "2025-03-14")}
	mirror := memory.New()
	w := NewWorker(fs, mirror, DefaultConfig())

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !w.IsRunning() {
		t.Error("worker should report running after Start")
	}

	// Stop waits for the loop, and the loop scans once before its first
	// tick, so the seeded row is mirrored by the time Stop returns.
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if w.IsRunning() {
		t.Error("worker should not report running after Stop")
	}

	if len(mirror.Rows()) != 1 {
		t.Errorf("expected the startup scan to mirror 1 row, got %d", len(mirror.Rows()))
	}
}
