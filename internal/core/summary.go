package core

import "sort"

// BudgetStanding classifies spending in a category against its budget limit.
//
// The cutoffs are strict: exactly 90% of the limit is still on-track, and
// exactly 100% is near-limit rather than over-budget. Dashboard color-coding
// depends on these exact boundaries.
type BudgetStanding string

const (
	OnTrack    BudgetStanding = "on-track"
	NearLimit  BudgetStanding = "near-limit"
	OverBudget BudgetStanding = "over-budget"
	Unbudgeted BudgetStanding = "unbudgeted"
)

// CategoryStatus is one row of the budget-vs-actual comparison. Percentage
// is omitted for unbudgeted categories (there is nothing to divide by).
type CategoryStatus struct {
	Category   string         `json:"category"`
	Amount     Money          `json:"amount"`
	Limit      Money          `json:"limit"`
	Percentage *float64       `json:"percentage,omitempty"`
	Status     BudgetStanding `json:"status"`
}

// Summary is the derived, read-only aggregation of one user's entries and
// budgets for a single calendar month.
type Summary struct {
	Income             Money            `json:"income"`
	Expenses           Money            `json:"expenses"`
	SavingsRate        float64          `json:"savingsRate"`
	ExpensesByCategory map[string]Money `json:"expensesByCategory"`
	BudgetStatus       []CategoryStatus `json:"budgetStatus"`
	Month              int              `json:"month"`
	Year               int              `json:"year"`
}

// ComputeSummary derives the monthly summary from the given entries and
// budgets. It is pure: no I/O, no mutation of its inputs, and deterministic
// for fixed inputs. The caller is responsible for having fetched entries and
// budgets for the same (user, month, year) period.
//
// Rules:
//   - income and expense totals are integer-cent sums, never floats;
//   - savings rate is (income-expenses)/income*100, or exactly 0 when
//     income is zero;
//   - expensesByCategory has no zero-valued keys: a category appears only
//     if an expense entry for it exists in the period;
//   - budget status rows exist only for categories with expenses. The first
//     budget matching the category wins; under duplicate budgets for the
//     same category/period the choice is undefined.
func ComputeSummary(entries []Entry, budgets []Budget, month, year int) Summary {
	var incomeCents, expenseCents int64
	byCategory := make(map[string]Money)

	for _, e := range entries {
		if e.IsIncome {
			incomeCents += e.Amount.Cents
			continue
		}
		expenseCents += e.Amount.Cents
		byCategory[e.Category] = Money{Cents: byCategory[e.Category].Cents + e.Amount.Cents}
	}

	savingsRate := 0.0
	if incomeCents > 0 {
		savingsRate = float64(incomeCents-expenseCents) / float64(incomeCents) * 100
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	status := make([]CategoryStatus, 0, len(categories))
	for _, cat := range categories {
		spent := byCategory[cat]
		budget, ok := findBudget(budgets, cat)
		if !ok {
			status = append(status, CategoryStatus{
				Category: cat,
				Amount:   spent,
				Status:   Unbudgeted,
			})
			continue
		}
		pct := spent.Float64() / budget.Limit.Float64() * 100
		status = append(status, CategoryStatus{
			Category:   cat,
			Amount:     spent,
			Limit:      budget.Limit,
			Percentage: &pct,
			Status:     standing(spent.Cents, budget.Limit.Cents),
		})
	}

	return Summary{
		Income:             Money{Cents: incomeCents},
		Expenses:           Money{Cents: expenseCents},
		SavingsRate:        savingsRate,
		ExpensesByCategory: byCategory,
		BudgetStatus:       status,
		Month:              month,
		Year:               year,
	}
}

func findBudget(budgets []Budget, category string) (Budget, bool) {
	for _, b := range budgets {
		if b.Category == category {
			return b, true
		}
	}
	return Budget{}, false
}

// standing evaluates the strict >100% / >90% cutoffs in integer cents so
// that the exact boundaries never depend on float rounding:
//
//	spent > limit        <=> percentage > 100
//	10*spent > 9*limit   <=> percentage > 90
func standing(spentCents, limitCents int64) BudgetStanding {
	switch {
	case spentCents > limitCents:
		return OverBudget
	case 10*spentCents > 9*limitCents:
		return NearLimit
	default:
		return OnTrack
	}
}
