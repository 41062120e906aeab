package reports

import (
	"testing"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

func TestBuildSummary(t *testing.T) {
	txs := []core.Transaction{
		expense("food", 80),
		expense("transport", 20),
		income("bonus", 150),
	}
	incomes := []core.Income{
		{Source: "salary", Amount: 2000, Date: core.NewDate(2025, 3, 1)},
	}

	got := BuildSummary(txs, incomes)

	if got.TotalIncome != 2150 {
		t.Errorf("totalIncome: got %v, want 2150", got.TotalIncome)
	}
	if got.TotalExpense != 100 {
		t.Errorf("totalExpense: got %v, want 100", got.TotalExpense)
	}
	if got.Net != 2050 {
		t.Errorf("net: got %v, want 2050", got.Net)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	got := BuildSummary(nil, nil)
	if got.TotalIncome != 0 || got.TotalExpense != 0 || got.Net != 0 {
		t.Errorf("got %+v, want zeros", got)
	}
}
