// Package reports computes spending aggregates over a user's transactions
// and renders the export formats the dashboard offers (CSV, PDF statement).
package reports

import (
	"math"
	"sort"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

// CategorySummary is one row of the spending insights panel.
type CategorySummary struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
}

// SpendingReport is the flat total/byCategory aggregate, no percentages.
type SpendingReport struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
}

// SpendingByCategory folds expense transactions into per-category sums with
// a share of the overall total. Percentages are rounded independently, so
// they can add up to 99 or 101. Output is sorted by value descending; equal
// values keep first-seen category order.
func SpendingByCategory(txs []core.Transaction) []CategorySummary {
	sums := make(map[string]float64)
	order := []string{}
	var total float64

	for _, t := range txs {
		if t.Type != core.TypeExpense {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] += t.Amount
		total += t.Amount
	}

	out := make([]CategorySummary, 0, len(order))
	for _, category := range order {
		value := sums[category]
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(value / total * 100))
		}
		out = append(out, CategorySummary{
			Category:   category,
			Value:      value,
			Percentage: percentage,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// BuildSpendingReport folds expense transactions into the total and the
// per-category map.
func BuildSpendingReport(txs []core.Transaction) SpendingReport {
	r := SpendingReport{ByCategory: make(map[string]float64)}
	for _, t := range txs {
		if t.Type != core.TypeExpense {
			continue
		}
		r.ByCategory[t.Category] += t.Amount
		r.Total += t.Amount
	}
	return r
}
