// Package sheets defines the spreadsheet mirror the worker writes synced
// ledger rows to.
package sheets

import (
	"context"

	"finovo/internal/core"
)

// LedgerWriter appends ledger rows to a spreadsheet and returns a
// reference to the written range.
type LedgerWriter interface {
	AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
	AppendInvestment(ctx context.Context, i core.Investment) (rowRef string, err error)
}
