package services

import (
	"context"
	"fmt"
	"time"

	"finovo/internal/amqp"
	"finovo/internal/core"
	"finovo/internal/log"
	"finovo/internal/storage"

	"golang.org/x/sync/errgroup"
)

const (
	DeleteConfirmation = "DELETE MY ACCOUNT"
	ExportedBy         = "Finovo Financial Platform"
)

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	SignOutEverywhere(ctx context.Context, userID string) error
}

// Export is the downloadable copy of everything stored for a user.
type Export struct {
	ExportDate  time.Time         `json:"export_date"`
	User        core.Profile      `json:"user"`
	Expenses    []core.Expense    `json:"expenses"`
	Investments []core.Investment `json:"investments"`
	Goals       []core.Goal       `json:"goals"`
	ExportedBy  string            `json:"exported_by"`
}

// ExportFilename names the download for the given day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("finovo-data-%s.json", now.UTC().Format("2006-01-02"))
}

type AccountService struct {
	repo      storage.Repository
	sessions  SessionRevoker
	publisher amqp.Publisher
	cache     Invalidator
	logger    *log.Logger
	now       func() time.Time
}

func NewAccountService(repo storage.Repository, sessions SessionRevoker, publisher amqp.Publisher, cache Invalidator, logger *log.Logger) *AccountService {
	return &AccountService{
		repo:      repo,
		sessions:  sessions,
		publisher: publisher,
		cache:     cache,
		logger:    componentLogger(logger, log.ComponentAccount),
		now:       time.Now,
	}
}

func (s *AccountService) Export(ctx context.Context, userID string) (Export, error) {
	out := Export{ExportDate: s.now().UTC(), ExportedBy: ExportedBy}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.User, err = s.repo.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.Expenses, err = s.repo.ListExpenses(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.Investments, err = s.repo.ListInvestments(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.Goals, err = s.repo.ListGoals(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Export{}, fmt.Errorf("export: %w", err)
	}
	if out.Expenses == nil {
		out.Expenses = []core.Expense{}
	}
	if out.Investments == nil {
		out.Investments = []core.Investment{}
	}
	if out.Goals == nil {
		out.Goals = []core.Goal{}
	}

	s.logger.InfoContext(ctx, "Account data exported",
		log.NewFields().WithUser(userID).WithOperation(log.OpExport).ToSlice()...)
	return out, nil
}

// DeleteAccount removes the user's data and credentials and ends their
// sessions. confirmation must be exactly DeleteConfirmation.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, confirmation string) error {
	if confirmation != DeleteConfirmation {
		return ErrConfirmationMismatch
	}
	if err := s.repo.DeleteUserData(ctx, userID); err != nil {
		return fmt.Errorf("delete user data: %w", err)
	}
	if err := s.repo.DeleteCredentials(ctx, userID); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	if s.sessions != nil {
		if err := s.sessions.SignOutEverywhere(ctx, userID); err != nil {
			s.logger.WarnContext(ctx, "Failed to end sessions", log.FieldUserID, userID, log.FieldError, err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.WarnContext(ctx, "Failed to invalidate dashboard cache", log.FieldUserID, userID, log.FieldError, err)
		}
	}
	publish(ctx, s.publisher, s.logger, amqp.NewLedgerEvent(core.KindAccount, amqp.ActionDeleted, userID, userID))

	s.logger.InfoContext(ctx, "Account deleted",
		log.NewFields().WithUser(userID).WithOperation(log.OpDelete).ToSlice()...)
	return nil
}
