package core

import (
	"sort"
	"time"
)

// Budget split targets as percentages of monthly income.
const (
	NeedsPercent   = 50
	WantsPercent   = 30
	SavingsPercent = 20

	TrendMonths = 6
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// MonthTrend is one point of the spending trend.
type MonthTrend struct {
	Month    string `json:"month"` // YYYY-MM
	Expenses Money  `json:"expenses"`
	Savings  Money  `json:"savings"`
}

type GoalProgress struct {
	Goal    Goal    `json:"goal"`
	Percent float64 `json:"percent"`
}

// BudgetAnalysis is the 50/30/20 view of a month.
type BudgetAnalysis struct {
	Month            string           `json:"month"`
	Income           Money            `json:"income"`
	NeedsTarget      Money            `json:"needs_target"`
	WantsTarget      Money            `json:"wants_target"`
	SavingsTarget    Money            `json:"savings_target"`
	Needs            Money            `json:"needs"`
	Wants            Money            `json:"wants"`
	Savings          Money            `json:"savings"`
	TotalSpent       Money            `json:"total_spent"`
	Transactions     int              `json:"transactions"`
	AllTimeSpent     Money            `json:"all_time_spent"`
	Remaining        Money            `json:"remaining"`
	UtilizationPct   float64          `json:"utilization_pct"`
	SavingsRatePct   float64          `json:"savings_rate_pct"`
	ByCategory       []CategoryAmount `json:"by_category"`
	Trend            []MonthTrend     `json:"trend"`
	Goals            []GoalProgress   `json:"goals"`
	InvestedTotal    Money            `json:"invested_total"`
	PortfolioValue   Money            `json:"portfolio_value"`
	PortfolioReturns Money            `json:"portfolio_returns"`
}

// AnalyzeBudget builds the budget view for the month containing now.
// Income is zero when the profile has none; percentages are then zero.
func AnalyzeBudget(p Profile, expenses []Expense, investments []Investment, goals []Goal, now time.Time) BudgetAnalysis {
	income := p.MonthlyIncome.OrElse(Money{})
	month := now.UTC().Format("2006-01")

	a := BudgetAnalysis{
		Month:         month,
		Income:        income,
		NeedsTarget:   income.Percent(NeedsPercent),
		WantsTarget:   income.Percent(WantsPercent),
		SavingsTarget: income.Percent(SavingsPercent),
	}

	byCat := map[string]int64{}
	for _, e := range expenses {
		a.AllTimeSpent = a.AllTimeSpent.Add(e.Amount)
		if e.Date.MonthKey() != month {
			continue
		}
		a.Transactions++
		a.TotalSpent = a.TotalSpent.Add(e.Amount)
		byCat[e.Category] += e.Amount.Cents
		switch e.Type {
		case ExpenseNeed:
			a.Needs = a.Needs.Add(e.Amount)
		case ExpenseWant:
			a.Wants = a.Wants.Add(e.Amount)
		case ExpenseSavings:
			a.Savings = a.Savings.Add(e.Amount)
		}
	}
	a.Remaining = income.Sub(a.TotalSpent)
	if income.Cents > 0 {
		a.UtilizationPct = float64(a.TotalSpent.Cents) / float64(income.Cents) * 100
		a.SavingsRatePct = float64(income.Cents-a.TotalSpent.Cents) / float64(income.Cents) * 100
	}

	a.ByCategory = make([]CategoryAmount, 0, len(byCat))
	for name, cents := range byCat {
		a.ByCategory = append(a.ByCategory, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(a.ByCategory, func(i, j int) bool {
		if a.ByCategory[i].Amount.Cents != a.ByCategory[j].Amount.Cents {
			return a.ByCategory[i].Amount.Cents > a.ByCategory[j].Amount.Cents
		}
		return a.ByCategory[i].Name < a.ByCategory[j].Name
	})

	a.Trend = Trend(income, expenses, now, TrendMonths)

	for _, inv := range investments {
		a.InvestedTotal = a.InvestedTotal.Add(inv.Amount)
		a.PortfolioValue = a.PortfolioValue.Add(inv.CurrentValue)
		// Savings expenses are stored as investments.
		if inv.Date.MonthKey() == month {
			a.Savings = a.Savings.Add(inv.Amount)
		}
	}
	a.PortfolioReturns = a.PortfolioValue.Sub(a.InvestedTotal)

	a.Goals = make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		a.Goals = append(a.Goals, GoalProgress{Goal: g, Percent: g.Progress()})
	}
	return a
}

// Trend returns the last n months ending with the month of now, oldest first.
func Trend(income Money, expenses []Expense, now time.Time, n int) []MonthTrend {
	totals := map[string]int64{}
	for _, e := range expenses {
		totals[e.Date.MonthKey()] += e.Amount.Cents
	}
	first := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthTrend, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := first.AddDate(0, -i, 0).Format("2006-01")
		spent := Money{Cents: totals[key]}
		out = append(out, MonthTrend{Month: key, Expenses: spent, Savings: income.Sub(spent)})
	}
	return out
}
