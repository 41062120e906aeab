// Package sheets defines the outbound port for mirroring transactions to a
// spreadsheet, plus the row layout shared by its implementations. The
// mirror is an append-only journal with the same columns as the CSV export.
package sheets

import (
	"context"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

// Header is the first row of the mirror sheet.
var Header = []string{"Date", "Description", "Category", "Amount", "Type"}

// TransactionWriter appends one transaction row and returns a reference to
// where it landed (an A1 range for a real spreadsheet).
type TransactionWriter interface {
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
}

// Row renders one transaction as a sheet row in Header order.
func Row(t core.Transaction) []any {
	return []any{t.Date.String(), t.Description, t.Category, t.Amount, string(t.Type)}
}
