package services

import (
	"context"
	"fmt"
	"time"

	"finovo/internal/cache"
	"finovo/internal/core"
	"finovo/internal/log"
	"finovo/internal/storage"

	"golang.org/x/sync/errgroup"
)

// DashboardStore is the storage the dashboard reads.
type DashboardStore interface {
	storage.ProfileStore
	storage.ExpenseStore
	storage.InvestmentStore
	storage.GoalStore
}

// DashboardService builds the monthly budget analysis, served from cache
// when possible.
type DashboardService struct {
	store  DashboardStore
	cache  *cache.Tiered[core.BudgetAnalysis]
	logger *log.Logger
}

// NewDashboardService accepts a nil cache.
func NewDashboardService(store DashboardStore, c *cache.Tiered[core.BudgetAnalysis], logger *log.Logger) *DashboardService {
	return &DashboardService{
		store:  store,
		cache:  c,
		logger: componentLogger(logger, log.ComponentDashboard),
	}
}

// DashboardKey is the cache key for a user's analysis of a month.
func DashboardKey(userID string, now time.Time) string {
	return userID + ":" + now.UTC().Format("2006-01")
}

func (s *DashboardService) Analysis(ctx context.Context, userID string, now time.Time) (core.BudgetAnalysis, error) {
	key := DashboardKey(userID, now)
	if s.cache != nil {
		if a, ok := s.cache.Get(ctx, key); ok {
			return a, nil
		}
	}

	var (
		profile     core.Profile
		expenses    []core.Expense
		investments []core.Investment
		goals       []core.Goal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.store.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpenses(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		investments, err = s.store.ListInvestments(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.store.ListGoals(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.BudgetAnalysis{}, fmt.Errorf("load dashboard data: %w", err)
	}

	a := core.AnalyzeBudget(profile, expenses, investments, goals, now)
	if s.cache != nil {
		s.cache.Set(ctx, key, a)
	}
	s.logger.DebugContext(ctx, "Dashboard computed",
		log.FieldUserID, userID,
		"transactions", a.Transactions)
	return a, nil
}

// Invalidate drops every cached month for the user.
func (s *DashboardService) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, userID+":")
}
