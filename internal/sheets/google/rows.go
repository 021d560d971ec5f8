package google

import "finovo/internal/core"

// Ledger sheet layout, one row per synced entry.
var Header = []string{"Date", "Kind", "Category", "Description", "Type", "Amount", "Current Value", "Returns", "Entry ID", "User ID"}

const lastColumn = "J"

func expenseRow(e core.Expense) []any {
	return []any{
		e.Date.String(),
		string(core.KindExpense),
		e.Category,
		e.Description,
		string(e.Type),
		e.Amount.Float(),
		"",
		"",
		e.ID,
		e.UserID,
	}
}

// investmentRow puts the platform in the description column.
func investmentRow(i core.Investment) []any {
	return []any{
		i.Date.String(),
		string(core.KindInvestment),
		i.Type,
		i.Platform,
		"",
		i.Amount.Float(),
		i.CurrentValue.Float(),
		i.Returns.Float(),
		i.ID,
		i.UserID,
	}
}
