package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PendingTransaction is a transaction row waiting to be mirrored to the
// spreadsheet, carrying just what the worker needs to build the sheet row.
type PendingTransaction struct {
	ID          int64
	UserID      int64
	Amount      float64
	Category    string
	Description string
	Date        string
	Type        string
}

// GetPendingSyncTransactions returns up to limit transactions that have not
// been mirrored yet, oldest first.
func (s *Store) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, amount, category, description, tx_date, tx_type
		 FROM transactions WHERE sync_status = 'pending' ORDER BY id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	out := []PendingTransaction{}
	for rows.Next() {
		var p PendingTransaction
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Category, &p.Description, &p.Date, &p.Type); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced marks a transaction as successfully mirrored.
func (s *Store) MarkSynced(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced', sync_error = '', synced_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError records a mirror failure; the row stays out of the pending
// queue until an operator resets it.
func (s *Store) MarkSyncError(ctx context.Context, id int64, cause string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error', sync_error = ? WHERE id = ?`,
		cause, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id, "cause", cause)
	return nil
}
