package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

// CSVHeader is the column layout the dashboard's download expects.
var CSVHeader = []string{"Date", "Description", "Category", "Amount", "Type"}

// WriteCSV streams the user's transactions as CSV, header first, rows in
// the order given.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txs {
		record := []string{
			t.Date.String(),
			t.Description,
			t.Category,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			string(t.Type),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
