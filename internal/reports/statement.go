package reports

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

// BuildStatementPDF renders a monthly statement: the month's transactions
// followed by the expense category breakdown with percentage shares.
func BuildStatementPDF(user core.User, year, month int, txs []core.Transaction) ([]byte, error) {
	monthTxs := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Date.Year() == year && t.Date.Month() == month {
			monthTxs = append(monthTxs, t)
		}
	}
	breakdown := SpendingByCategory(monthTxs)
	report := BuildSpendingReport(monthTxs)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Finance Tracker Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Finance Tracker")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Statement: %04d-%02d", year, month))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Account: %s", user.Username))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Total Spend: %.2f", report.Total))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Transactions")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(30, 7, "Date")
	pdf.Cell(70, 7, "Description")
	pdf.Cell(40, 7, "Category")
	pdf.Cell(30, 7, "Amount")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, t := range monthTxs {
		amount := t.Amount
		if t.Type == core.TypeExpense {
			amount = -amount
		}
		pdf.Cell(30, 7, t.Date.String())
		pdf.Cell(70, 7, t.Description)
		pdf.Cell(40, 7, t.Category)
		pdf.Cell(30, 7, fmt.Sprintf("%.2f", amount))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Category Breakdown")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(70, 7, "Category")
	pdf.Cell(50, 7, "Amount")
	pdf.Cell(30, 7, "%")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, b := range breakdown {
		pdf.Cell(70, 7, b.Category)
		pdf.Cell(50, 7, fmt.Sprintf("%.2f", b.Value))
		pdf.Cell(30, 7, fmt.Sprintf("%d%%", b.Percentage))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render statement pdf: %w", err)
	}
	return buf.Bytes(), nil
}
