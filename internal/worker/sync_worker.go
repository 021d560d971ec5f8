// Package worker consumes ledger events and keeps the spreadsheet mirror
// and the dashboard cache in step with the database.
package worker

import (
	"context"
	"errors"
	"fmt"

	"finovo/internal/amqp"
	"finovo/internal/core"
	"finovo/internal/log"
	"finovo/internal/services"
)

// EventSource delivers ledger events until ctx is done.
type EventSource interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEvent) error) error
}

type SyncWorker struct {
	processor *services.SyncProcessor
	cache     services.Invalidator
	logger    *log.Logger
}

// NewSyncWorker accepts a nil cache.
func NewSyncWorker(processor *services.SyncProcessor, cache services.Invalidator, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SyncWorker{
		processor: processor,
		cache:     cache,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent drops the user's cached dashboard and mirrors created
// or updated rows. Mirror failures are left to the periodic sweep, so the
// event is always acknowledged.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	w.logger.DebugContext(ctx, "Processing ledger event",
		log.FieldEntryKind, ev.Kind,
		"action", ev.Action,
		log.FieldEntityID, ev.EntityID,
		log.FieldUserID, ev.UserID)

	if w.cache != nil {
		if err := w.cache.Invalidate(ctx, ev.UserID); err != nil {
			w.logger.WarnContext(ctx, "Failed to invalidate dashboard cache",
				log.FieldUserID, ev.UserID, log.FieldError, err)
		}
	}

	if ev.Action == amqp.ActionDeleted {
		return nil
	}
	if ev.Kind != core.KindExpense && ev.Kind != core.KindInvestment {
		return nil
	}

	ref := core.SyncRef{Kind: ev.Kind, ID: ev.EntityID, UserID: ev.UserID, CreatedAt: ev.Timestamp}
	if err := w.processor.Sync(ctx, ref); err != nil {
		w.logger.WarnContext(ctx, "Ledger row not mirrored, leaving it to the sweep",
			log.FieldEntityID, ev.EntityID, log.FieldError, err)
	}
	return nil
}

// Run starts the periodic sweep and consumes events until ctx is done.
// A nil source runs the sweep alone.
func (w *SyncWorker) Run(ctx context.Context, source EventSource) error {
	if err := w.processor.Start(ctx); err != nil {
		return fmt.Errorf("start sync processor: %w", err)
	}
	defer func() {
		if err := w.processor.Stop(context.WithoutCancel(ctx)); err != nil {
			w.logger.ErrorContext(ctx, "Failed to stop sync processor", log.FieldError, err)
		}
	}()

	if source == nil {
		w.logger.InfoContext(ctx, "No event source configured, running sweep only")
		<-ctx.Done()
		return nil
	}

	err := source.ConsumeLedgerEvents(ctx, w.HandleLedgerEvent)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
