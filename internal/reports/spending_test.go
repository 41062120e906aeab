package reports

import (
	"testing"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

func expense(category string, amount float64) core.Transaction {
	return core.Transaction{
		Amount:      amount,
		Category:    category,
		Description: category + " purchase",
		Date:        core.NewDate(2025, 3, 14),
		Type:        core.TypeExpense,
	}
}

func income(category string, amount float64) core.Transaction {
	t := expense(category, amount)
	t.Type = core.TypeIncome
	return t
}

func TestSpendingByCategory(t *testing.T) {
	txs := []core.Transaction{
		expense("food", 50),
		expense("transport", 20),
		expense("food", 30),
	}

	got := SpendingByCategory(txs)

	want := []CategorySummary{
		{Category: "food", Value: 80, Percentage: 80},
		{Category: "transport", Value: 20, Percentage: 20},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSpendingByCategoryIgnoresIncome(t *testing.T) {
	txs := []core.Transaction{
		expense("food", 40),
		income("salary", 2000),
		income("food", 60),
	}

	got := SpendingByCategory(txs)

	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1: %+v", len(got), got)
	}
	if got[0].Category != "food" || got[0].Value != 40 || got[0].Percentage != 100 {
		t.Errorf("got %+v, want food/40/100", got[0])
	}
}

func TestSpendingByCategorySortsByValueDescending(t *testing.T) {
	txs := []core.Transaction{
		expense("coffee", 5),
		expense("rent", 900),
		expense("food", 120),
	}

	got := SpendingByCategory(txs)

	wantOrder := []string{"rent", "food", "coffee"}
	for i, category := range wantOrder {
		if got[i].Category != category {
			t.Fatalf("position %d: got %q, want %q (%+v)", i, got[i].Category, category, got)
		}
	}
}

func TestSpendingByCategoryTiesKeepFirstSeenOrder(t *testing.T) {
	txs := []core.Transaction{
		expense("books", 25),
		expense("games", 25),
		expense("music", 25),
	}

	got := SpendingByCategory(txs)

	wantOrder := []string{"books", "games", "music"}
	for i, category := range wantOrder {
		if got[i].Category != category {
			t.Fatalf("position %d: got %q, want %q (%+v)", i, got[i].Category, category, got)
		}
	}
}

func TestSpendingByCategoryRoundsEachShare(t *testing.T) {
	// 2/3 and 1/3 of the total round to 67 and 33.
	txs := []core.Transaction{
		expense("food", 200),
		expense("transport", 100),
	}

	got := SpendingByCategory(txs)

	if got[0].Percentage != 67 {
		t.Errorf("food: got %d%%, want 67%%", got[0].Percentage)
	}
	if got[1].Percentage != 33 {
		t.Errorf("transport: got %d%%, want 33%%", got[1].Percentage)
	}
}

func TestSpendingByCategorySharesNeedNotSumTo100(t *testing.T) {
	// Three equal thirds each round to 33. The shares are rounded
	// independently, never rebalanced to close the gap.
	txs := []core.Transaction{
		expense("books", 100),
		expense("games", 100),
		expense("music", 100),
	}

	got := SpendingByCategory(txs)

	sum := 0
	for _, row := range got {
		if row.Percentage != 33 {
			t.Errorf("%s: got %d%%, want 33%%", row.Category, row.Percentage)
		}
		sum += row.Percentage
	}
	if sum != 99 {
		t.Errorf("got percentage sum %d, want 99", sum)
	}
}

func TestSpendingByCategoryZeroTotal(t *testing.T) {
	txs := []core.Transaction{expense("food", 0)}

	got := SpendingByCategory(txs)

	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Percentage != 0 {
		t.Errorf("got %d%%, want 0%% when total is zero", got[0].Percentage)
	}
}

func TestSpendingByCategoryEmpty(t *testing.T) {
	got := SpendingByCategory(nil)
	if len(got) != 0 {
		t.Fatalf("got %d rows, want 0", len(got))
	}
}

func TestBuildSpendingReport(t *testing.T) {
	txs := []core.Transaction{
		expense("food", 50),
		expense("transport", 20),
		expense("food", 30),
		income("salary", 1000),
	}

	got := BuildSpendingReport(txs)

	if got.Total != 100 {
		t.Errorf("total: got %v, want 100", got.Total)
	}
	if got.ByCategory["food"] != 80 || got.ByCategory["transport"] != 20 {
		t.Errorf("byCategory: got %v", got.ByCategory)
	}

	var sum float64
	for _, v := range got.ByCategory {
		sum += v
	}
	if sum != got.Total {
		t.Errorf("byCategory sums to %v, total is %v", sum, got.Total)
	}
}

func TestBuildSpendingReportEmpty(t *testing.T) {
	got := BuildSpendingReport(nil)
	if got.Total != 0 {
		t.Errorf("total: got %v, want 0", got.Total)
	}
	if got.ByCategory == nil || len(got.ByCategory) != 0 {
		t.Errorf("byCategory: got %v, want empty map", got.ByCategory)
	}
}
