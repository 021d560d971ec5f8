package memory

import (
	"context"
	"testing"
	"time"

	"finovo/internal/core"
	"finovo/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileGoalsReplacedOnSave(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, core.ErrNotFound)

	p := core.NewProfile("u1", "a@b.c", "A")
	p.Goals = []core.Goal{
		core.NewGoal("u1", "Trip", core.Money{Cents: 100}, core.NewDate(2026, 1, 1), core.PriorityLow, core.GoalTravel),
	}
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Goals, 1)

	got.Goals = nil
	require.NoError(t, s.SaveProfile(ctx, got))
	goals, _ := s.ListGoals(ctx, "u1")
	assert.Empty(t, goals)

	other := core.NewProfile("u2", "A@B.C", "B")
	assert.ErrorIs(t, s.SaveProfile(ctx, other), core.ErrEmailTaken)
}

func TestLedgerRowsAreUserScoped(t *testing.T) {
	ctx := context.Background()
	s := New()

	e := core.Expense{ID: "e1", UserID: "u1", Category: "Travel", Amount: core.Money{Cents: 10}, Date: core.NewDate(2025, 1, 2), Type: core.ExpenseWant}
	require.NoError(t, s.CreateExpense(ctx, e))
	require.NoError(t, s.CreateExpense(ctx, core.Expense{ID: "e2", UserID: "u1", Date: core.NewDate(2025, 3, 1)}))

	_, err := s.GetExpense(ctx, "u2", "e1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.UpdateExpense(ctx, core.Expense{ID: "e1", UserID: "u2"}), core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteExpense(ctx, "u2", "e1"), core.ErrNotFound)

	list, err := s.ListExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e2", list[0].ID, "newest first")

	require.NoError(t, s.DeleteUserData(ctx, "u1"))
	list, _ = s.ListExpenses(ctx, "u1")
	assert.Empty(t, list)
}

func TestPendingSync(t *testing.T) {
	ctx := context.Background()
	s := New()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateInvestment(ctx, core.Investment{ID: "i1", UserID: "u1", CreatedAt: t0.Add(time.Second)}))
	require.NoError(t, s.CreateExpense(ctx, core.Expense{ID: "e1", UserID: "u1", CreatedAt: t0}))

	pending, err := s.PendingSync(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, core.SyncRef{Kind: core.KindExpense, ID: "e1", UserID: "u1", CreatedAt: t0}, pending[0])

	require.NoError(t, s.MarkSynced(ctx, core.KindExpense, "e1"))
	require.NoError(t, s.MarkSyncError(ctx, core.KindInvestment, "i1"))
	assert.Equal(t, storage.SyncSynced, s.SyncStatus(core.KindExpense, "e1"))
	assert.Equal(t, storage.SyncError, s.SyncStatus(core.KindInvestment, "i1"))

	pending, _ = s.PendingSync(ctx, 10)
	assert.Empty(t, pending)
}

func TestSaveProfileRefusesAnotherUsersGoal(t *testing.T) {
	ctx := context.Background()
	s := New()
	g := core.NewGoal("u1", "Trip", core.Money{Cents: 100}, core.NewDate(2026, 1, 1), core.PriorityLow, core.GoalTravel)
	require.NoError(t, s.CreateGoal(ctx, g))

	intruder := core.NewProfile("u2", "b@b.c", "B")
	intruder.Goals = []core.Goal{{ID: g.ID, Name: "Mine now", TargetAmount: core.Money{Cents: 1}}}
	assert.ErrorIs(t, s.SaveProfile(ctx, intruder), core.ErrNotFound)

	got, err := s.GetGoal(ctx, "u1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip", got.Name)
	_, err = s.GetProfile(ctx, "u2")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
