package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finovo/internal/amqp"
	"finovo/internal/core"
	"finovo/internal/log"
	"finovo/internal/storage"
)

// LedgerStore is the storage the ledger needs.
type LedgerStore interface {
	storage.ExpenseStore
	storage.InvestmentStore
	storage.GoalStore
}

type (
	ExpenseInput struct {
		Category    string
		Amount      core.Money
		Description string
		Date        core.Date
		Type        core.ExpenseType
	}

	InvestmentInput struct {
		Type     string
		Amount   core.Money
		Date     core.Date
		Platform string
		// CurrentValue defaults to Amount.
		CurrentValue core.Optional[core.Money]
	}

	GoalInput struct {
		Name          string
		TargetAmount  core.Money
		CurrentAmount core.Money
		TargetDate    core.Date
		Priority      core.GoalPriority
		Category      core.GoalCategory
	}

	// AddedEntry is what AddExpense stored: an expense, or an investment
	// when the expense was of the savings type.
	AddedEntry struct {
		Kind       core.EntryKind   `json:"kind"`
		Expense    *core.Expense    `json:"expense,omitempty"`
		Investment *core.Investment `json:"investment,omitempty"`
	}
)

// LedgerService records expenses, investments and goals, announces each
// change on the message bus and drops the cached dashboard.
type LedgerService struct {
	store     LedgerStore
	publisher amqp.Publisher
	cache     Invalidator
	logger    *log.Logger
	now       func() time.Time
}

// NewLedgerService accepts a nil publisher and a nil cache.
func NewLedgerService(store LedgerStore, publisher amqp.Publisher, cache Invalidator, logger *log.Logger) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
		cache:     cache,
		logger:    componentLogger(logger, log.ComponentLedger),
		now:       time.Now,
	}
}

// AddExpense stores a need or want expense. A savings expense is stored as
// an investment on the Savings platform instead.
func (s *LedgerService) AddExpense(ctx context.Context, userID string, in ExpenseInput) (AddedEntry, error) {
	e := core.Expense{
		ID:          core.NewID(),
		UserID:      userID,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Type:        in.Type,
		CreatedAt:   s.now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return AddedEntry{}, err
	}

	if e.Type == core.ExpenseSavings {
		inv := e.AsInvestment()
		if err := s.store.CreateInvestment(ctx, inv); err != nil {
			return AddedEntry{}, fmt.Errorf("save savings investment: %w", err)
		}
		s.changed(ctx, core.KindInvestment, amqp.ActionCreated, userID, inv.ID)
		s.logger.InfoContext(ctx, "Savings expense stored as investment",
			log.NewFields().WithUser(userID).WithLedgerEntry(string(core.KindInvestment), inv.ID, inv.Amount.Cents, inv.Type).ToSlice()...)
		return AddedEntry{Kind: core.KindInvestment, Investment: &inv}, nil
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return AddedEntry{}, fmt.Errorf("save expense: %w", err)
	}
	s.changed(ctx, core.KindExpense, amqp.ActionCreated, userID, e.ID)
	s.logger.InfoContext(ctx, "Expense created",
		log.NewFields().WithUser(userID).WithLedgerEntry(string(core.KindExpense), e.ID, e.Amount.Cents, e.Category).ToSlice()...)
	return AddedEntry{Kind: core.KindExpense, Expense: &e}, nil
}

// UpdateExpenseType moves an expense between need and want. Savings is not
// accepted here since the row would have to become an investment.
func (s *LedgerService) UpdateExpenseType(ctx context.Context, userID, id string, t core.ExpenseType) (core.Expense, error) {
	if t != core.ExpenseNeed && t != core.ExpenseWant {
		return core.Expense{}, core.ErrInvalidExpenseType
	}
	e, err := s.store.GetExpense(ctx, userID, id)
	if err != nil {
		return core.Expense{}, err
	}
	e.Type = t
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	s.changed(ctx, core.KindExpense, amqp.ActionUpdated, userID, id)
	return e, nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	s.changed(ctx, core.KindExpense, amqp.ActionDeleted, userID, id)
	return nil
}

// ListExpenses returns the user's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID)
}

func (s *LedgerService) AddInvestment(ctx context.Context, userID string, in InvestmentInput) (core.Investment, error) {
	inv := core.Investment{
		ID:        core.NewID(),
		UserID:    userID,
		Type:      strings.TrimSpace(in.Type),
		Amount:    in.Amount,
		Date:      in.Date,
		Platform:  strings.TrimSpace(in.Platform),
		CreatedAt: s.now().UTC(),
	}
	inv.Revalue(in.CurrentValue.OrElse(in.Amount))
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	if err := s.store.CreateInvestment(ctx, inv); err != nil {
		return core.Investment{}, fmt.Errorf("save investment: %w", err)
	}
	s.changed(ctx, core.KindInvestment, amqp.ActionCreated, userID, inv.ID)
	s.logger.InfoContext(ctx, "Investment created",
		log.NewFields().WithUser(userID).WithLedgerEntry(string(core.KindInvestment), inv.ID, inv.Amount.Cents, inv.Type).ToSlice()...)
	return inv, nil
}

// UpdateInvestmentValue sets the current value; returns follow from it.
func (s *LedgerService) UpdateInvestmentValue(ctx context.Context, userID, id string, current core.Money) (core.Investment, error) {
	if current.Cents < 0 {
		return core.Investment{}, core.ErrInvalidAmount
	}
	inv, err := s.store.GetInvestment(ctx, userID, id)
	if err != nil {
		return core.Investment{}, err
	}
	inv.Revalue(current)
	if err := s.store.UpdateInvestment(ctx, inv); err != nil {
		return core.Investment{}, fmt.Errorf("update investment: %w", err)
	}
	s.changed(ctx, core.KindInvestment, amqp.ActionUpdated, userID, id)
	return inv, nil
}

func (s *LedgerService) DeleteInvestment(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteInvestment(ctx, userID, id); err != nil {
		return err
	}
	s.changed(ctx, core.KindInvestment, amqp.ActionDeleted, userID, id)
	return nil
}

func (s *LedgerService) ListInvestments(ctx context.Context, userID string) ([]core.Investment, error) {
	return s.store.ListInvestments(ctx, userID)
}

func (s *LedgerService) AddGoal(ctx context.Context, userID string, in GoalInput) (core.Goal, error) {
	g := core.NewGoal(userID, in.Name, in.TargetAmount, in.TargetDate, in.Priority, in.Category)
	g.CurrentAmount = in.CurrentAmount
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := s.store.CreateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	s.changed(ctx, core.KindGoal, amqp.ActionCreated, userID, g.ID)
	return g, nil
}

// UpdateGoalProgress sets how much has been put aside for a goal.
func (s *LedgerService) UpdateGoalProgress(ctx context.Context, userID, id string, current core.Money) (core.Goal, error) {
	if current.Cents < 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}
	g, err := s.store.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	g.CurrentAmount = current
	g.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	s.changed(ctx, core.KindGoal, amqp.ActionUpdated, userID, id)
	return g, nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteGoal(ctx, userID, id); err != nil {
		return err
	}
	s.changed(ctx, core.KindGoal, amqp.ActionDeleted, userID, id)
	return nil
}

func (s *LedgerService) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *LedgerService) changed(ctx context.Context, kind core.EntryKind, action, userID, id string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.WarnContext(ctx, "Failed to invalidate dashboard cache", log.FieldUserID, userID, log.FieldError, err)
		}
	}
	publish(ctx, s.publisher, s.logger, amqp.NewLedgerEvent(kind, action, userID, id))
}
