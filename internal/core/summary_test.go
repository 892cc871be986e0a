package core

import (
	"testing"
	"time"
)

func expense(category string, cents int64) Entry {
	return Entry{
		UserID:   1,
		Category: category,
		Amount:   Money{Cents: cents},
		IsIncome: false,
		Date:     time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC),
	}
}

func income(category string, cents int64) Entry {
	e := expense(category, cents)
	e.IsIncome = true
	return e
}

func budget(category string, limitCents int64) Budget {
	return Budget{UserID: 1, Category: category, Limit: Money{Cents: limitCents}, Month: 4, Year: 2025}
}

func TestComputeSummaryEmpty(t *testing.T) {
	s := ComputeSummary(nil, nil, 4, 2025)
	if s.Income.Cents != 0 || s.Expenses.Cents != 0 {
		t.Fatalf("totals: %+v", s)
	}
	if s.SavingsRate != 0 {
		t.Fatalf("savings rate must be exactly 0 with no income, got %v", s.SavingsRate)
	}
	if len(s.ExpensesByCategory) != 0 || len(s.BudgetStatus) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", s)
	}
	if s.Month != 4 || s.Year != 2025 {
		t.Fatalf("period: %d/%d", s.Month, s.Year)
	}
}

func TestComputeSummaryTotalsAndRate(t *testing.T) {
	entries := []Entry{
		income("Salary", 500000),  // 5000.00
		expense("Food", 5000),     // 50.00
		expense("Food", 3000),     // 30.00
		expense("Housing", 92000), // 920.00
	}
	s := ComputeSummary(entries, nil, 4, 2025)

	if s.Income.Cents != 500000 {
		t.Fatalf("income = %d", s.Income.Cents)
	}
	if s.Expenses.Cents != 100000 {
		t.Fatalf("expenses = %d", s.Expenses.Cents)
	}
	if s.SavingsRate != 80.0 {
		t.Fatalf("savings rate = %v, want 80", s.SavingsRate)
	}
	if got := s.ExpensesByCategory["Food"].Cents; got != 8000 {
		t.Fatalf("food = %d, want 8000", got)
	}
	// Income categories never leak into the expense breakdown.
	if _, ok := s.ExpensesByCategory["Salary"]; ok {
		t.Fatal("income category present in expense breakdown")
	}
}

func TestComputeSummaryBudgetStatus(t *testing.T) {
	entries := []Entry{expense("Food", 5000), expense("Food", 3000)}
	budgets := []Budget{budget("Food", 10000)}

	s := ComputeSummary(entries, budgets, 4, 2025)
	if len(s.BudgetStatus) != 1 {
		t.Fatalf("rows = %d", len(s.BudgetStatus))
	}
	row := s.BudgetStatus[0]
	if row.Category != "Food" || row.Amount.Cents != 8000 || row.Limit.Cents != 10000 {
		t.Fatalf("row = %+v", row)
	}
	if row.Percentage == nil || *row.Percentage != 80.0 {
		t.Fatalf("percentage = %v, want 80", row.Percentage)
	}
	if row.Status != OnTrack {
		t.Fatalf("status = %q, want on-track", row.Status)
	}
}

func TestComputeSummaryBoundaries(t *testing.T) {
	// Both cutoffs are strict. 90% exactly is on-track; 100% exactly is
	// past the 90% cutoff but not past 100%, so it is near-limit rather
	// than over-budget.
	cases := []struct {
		spentCents int64
		want       BudgetStanding
	}{
		{8999, OnTrack},
		{9000, OnTrack},     // 90% exactly
		{9100, NearLimit},   // 91%
		{10000, NearLimit},  // 100% exactly: not over-budget
		{10100, OverBudget}, // 101%
	}

	for _, tc := range cases {
		s := ComputeSummary(
			[]Entry{expense("Food", tc.spentCents)},
			[]Budget{budget("Food", 10000)},
			4, 2025,
		)
		if got := s.BudgetStatus[0].Status; got != tc.want {
			t.Fatalf("spent=%d: status %q, want %q", tc.spentCents, got, tc.want)
		}
	}
}

func TestComputeSummaryUnbudgeted(t *testing.T) {
	s := ComputeSummary([]Entry{expense("Entertainment", 2500)}, nil, 4, 2025)
	if len(s.BudgetStatus) != 1 {
		t.Fatalf("rows = %d", len(s.BudgetStatus))
	}
	row := s.BudgetStatus[0]
	if row.Status != Unbudgeted {
		t.Fatalf("status = %q", row.Status)
	}
	if row.Limit.Cents != 0 {
		t.Fatalf("limit = %d, want 0", row.Limit.Cents)
	}
	if row.Percentage != nil {
		t.Fatalf("percentage must be absent for unbudgeted rows, got %v", *row.Percentage)
	}
}

func TestComputeSummaryBudgetsWithoutExpensesExcluded(t *testing.T) {
	// A budget with no matching expense this period contributes no row.
	s := ComputeSummary(
		[]Entry{expense("Food", 100)},
		[]Budget{budget("Food", 10000), budget("Housing", 50000)},
		4, 2025,
	)
	if len(s.BudgetStatus) != 1 || s.BudgetStatus[0].Category != "Food" {
		t.Fatalf("rows = %+v", s.BudgetStatus)
	}
}

func TestComputeSummaryDeterministic(t *testing.T) {
	entries := []Entry{
		income("Salary", 300000),
		expense("Food", 5000),
		expense("Housing", 90000),
		expense("Transportation", 1200),
	}
	budgets := []Budget{budget("Food", 10000), budget("Housing", 100000)}

	first := ComputeSummary(entries, budgets, 4, 2025)
	for i := 0; i < 10; i++ {
		again := ComputeSummary(entries, budgets, 4, 2025)
		if len(again.BudgetStatus) != len(first.BudgetStatus) {
			t.Fatal("row count changed")
		}
		for j := range again.BudgetStatus {
			if again.BudgetStatus[j].Category != first.BudgetStatus[j].Category {
				t.Fatal("row order not deterministic")
			}
		}
	}
}
