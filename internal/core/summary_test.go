package core

import (
	"testing"
	"time"
)

func TestAnalyzeBudget(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	p := NewProfile("u1", "a@b.c", "A")
	p.MonthlyIncome = Some(Money{Cents: 10000000})

	expenses := []Expense{
		{Category: "Food & Dining", Amount: Money{Cents: 1500000}, Date: NewDate(2025, 6, 2), Type: ExpenseNeed},
		{Category: "Bills & Utilities", Amount: Money{Cents: 2000000}, Date: NewDate(2025, 6, 5), Type: ExpenseNeed},
		{Category: "Entertainment", Amount: Money{Cents: 500000}, Date: NewDate(2025, 6, 9), Type: ExpenseWant},
		{Category: "PPF", Amount: Money{Cents: 1000000}, Date: NewDate(2025, 6, 10), Type: ExpenseSavings},
		{Category: "Travel", Amount: Money{Cents: 3000000}, Date: NewDate(2025, 5, 20), Type: ExpenseWant},
	}
	investments := []Investment{
		{Amount: Money{Cents: 1000000}, CurrentValue: Money{Cents: 1100000}},
	}
	goals := []Goal{
		{Name: "Car", TargetAmount: Money{Cents: 400000}, CurrentAmount: Money{Cents: 100000}},
	}

	a := AnalyzeBudget(p, expenses, investments, goals, now)

	if a.Month != "2025-06" {
		t.Fatalf("month = %s", a.Month)
	}
	if a.NeedsTarget.Cents != 5000000 || a.WantsTarget.Cents != 3000000 || a.SavingsTarget.Cents != 2000000 {
		t.Fatalf("unexpected targets %+v", a)
	}
	if a.Needs.Cents != 3500000 || a.Wants.Cents != 500000 || a.Savings.Cents != 1000000 {
		t.Fatalf("unexpected split needs=%d wants=%d savings=%d", a.Needs.Cents, a.Wants.Cents, a.Savings.Cents)
	}
	if a.TotalSpent.Cents != 5000000 || a.Remaining.Cents != 5000000 {
		t.Fatalf("spent=%d remaining=%d", a.TotalSpent.Cents, a.Remaining.Cents)
	}
	if a.Transactions != 4 || a.AllTimeSpent.Cents != 8000000 {
		t.Fatalf("transactions=%d all time=%d", a.Transactions, a.AllTimeSpent.Cents)
	}
	if a.UtilizationPct != 50 || a.SavingsRatePct != 50 {
		t.Fatalf("utilization=%v savings rate=%v", a.UtilizationPct, a.SavingsRatePct)
	}
	if len(a.ByCategory) != 4 || a.ByCategory[0].Name != "Bills & Utilities" {
		t.Fatalf("unexpected categories %+v", a.ByCategory)
	}
	if a.PortfolioReturns.Cents != 100000 {
		t.Fatalf("returns = %d", a.PortfolioReturns.Cents)
	}
	if len(a.Goals) != 1 || a.Goals[0].Percent != 25 {
		t.Fatalf("goals = %+v", a.Goals)
	}

	if len(a.Trend) != TrendMonths {
		t.Fatalf("trend has %d points", len(a.Trend))
	}
	if a.Trend[0].Month != "2025-01" || a.Trend[5].Month != "2025-06" {
		t.Fatalf("trend must run oldest first: %+v", a.Trend)
	}
	may := a.Trend[4]
	if may.Expenses.Cents != 3000000 || may.Savings.Cents != 7000000 {
		t.Fatalf("may = %+v", may)
	}
	if a.Trend[0].Expenses.Cents != 0 || a.Trend[0].Savings.Cents != 10000000 {
		t.Fatalf("empty month = %+v", a.Trend[0])
	}
}

func TestAnalyzeBudgetWithoutIncome(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	a := AnalyzeBudget(Profile{}, []Expense{
		{Category: "Food & Dining", Amount: Money{Cents: 100}, Date: NewDate(2025, 1, 1), Type: ExpenseNeed},
	}, nil, nil, now)

	if a.UtilizationPct != 0 || a.SavingsRatePct != 0 {
		t.Fatalf("percentages must be zero without income: %+v", a)
	}
	if a.Remaining.Cents != -100 {
		t.Fatalf("remaining = %d", a.Remaining.Cents)
	}
	if a.Trend[0].Month != "2024-08" {
		t.Fatalf("trend should cross the year boundary, got %s", a.Trend[0].Month)
	}
}
