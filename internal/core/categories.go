package core

// ExpenseCategories are offered when recording an expense.
var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Others",
}

// InvestmentCategories are offered when recording an investment or a
// savings expense.
var InvestmentCategories = []string{
	"Mutual Funds",
	"Stocks",
	"Fixed Deposits",
	"PPF",
	"ELSS",
	"Gold",
	"Real Estate",
	"Others",
}
