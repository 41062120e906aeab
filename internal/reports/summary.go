package reports

import "github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"

// Summary is the dashboard's top-line card: everything earned, everything
// spent, and the difference.
type Summary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Net          float64 `json:"net"`
}

// BuildSummary sums income-type transactions together with income rows on
// the earning side and expense-type transactions on the spending side.
func BuildSummary(txs []core.Transaction, incomes []core.Income) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case core.TypeIncome:
			s.TotalIncome += t.Amount
		case core.TypeExpense:
			s.TotalExpense += t.Amount
		}
	}
	for _, in := range incomes {
		s.TotalIncome += in.Amount
	}
	s.Net = s.TotalIncome - s.TotalExpense
	return s
}
