// Package memory is an in-process TransactionWriter for tests and for
// running the worker without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/sheets"
)

type Mirror struct {
	mu   sync.Mutex
	rows []core.Transaction
}

var _ sheets.TransactionWriter = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

// Append stores the transaction and returns a synthetic row reference.
func (m *Mirror) Append(_ context.Context, t core.Transaction) (string, error) {
	if errs := t.Validate(); len(errs) > 0 {
		return "", fmt.Errorf("refusing to mirror invalid transaction %d: %s", t.ID, errs[0].Message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, t)
	return fmt.Sprintf("mem:%d", len(m.rows)), nil
}

// Rows returns a copy of everything appended so far, in order.
func (m *Mirror) Rows() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Transaction(nil), m.rows...)
}
