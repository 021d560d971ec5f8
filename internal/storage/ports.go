package storage

import (
	"context"

	"finovo/internal/core"
)

// Ports implemented by every storage backend. Rows are always scoped by
// user id; a row owned by someone else reads as core.ErrNotFound.
type (
	ProfileStore interface {
		GetProfile(ctx context.Context, userID string) (core.Profile, error)
		// SaveProfile upserts the profile and replaces its goal list.
		SaveProfile(ctx context.Context, p core.Profile) error
	}

	CredentialStore interface {
		CreateCredentials(ctx context.Context, c core.Credentials) error
		GetCredentialsByEmail(ctx context.Context, email string) (core.Credentials, error)
		DeleteCredentials(ctx context.Context, userID string) error
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) error
		UpdateExpense(ctx context.Context, e core.Expense) error
		GetExpense(ctx context.Context, userID, id string) (core.Expense, error)
		DeleteExpense(ctx context.Context, userID, id string) error
		ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	}

	InvestmentStore interface {
		CreateInvestment(ctx context.Context, i core.Investment) error
		UpdateInvestment(ctx context.Context, i core.Investment) error
		GetInvestment(ctx context.Context, userID, id string) (core.Investment, error)
		DeleteInvestment(ctx context.Context, userID, id string) error
		ListInvestments(ctx context.Context, userID string) ([]core.Investment, error)
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.Goal) error
		UpdateGoal(ctx context.Context, g core.Goal) error
		GetGoal(ctx context.Context, userID, id string) (core.Goal, error)
		DeleteGoal(ctx context.Context, userID, id string) error
		ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	}

	// SyncStore tracks which ledger rows still need mirroring.
	SyncStore interface {
		PendingSync(ctx context.Context, limit int) ([]core.SyncRef, error)
		MarkSynced(ctx context.Context, kind core.EntryKind, id string) error
		MarkSyncError(ctx context.Context, kind core.EntryKind, id string) error
	}

	Repository interface {
		ProfileStore
		CredentialStore
		ExpenseStore
		InvestmentStore
		GoalStore
		SyncStore

		// DeleteUserData removes the profile and every row the user owns.
		DeleteUserData(ctx context.Context, userID string) error
		Ping(ctx context.Context) error
		Close() error
	}
)

// Sync states stored in the sync_status column.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)
