// Package services holds the use cases behind the HTTP API: profile
// loading, the ledger, the dashboard and account management.
package services

import (
	"context"
	"errors"

	"finovo/internal/amqp"
	"finovo/internal/log"
)

// ErrConfirmationMismatch is returned when an account deletion is not
// confirmed with the exact phrase.
var ErrConfirmationMismatch = errors.New("confirmation text does not match")

// Invalidator drops cached views derived from a user's ledger.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

func componentLogger(l *log.Logger, component string) *log.Logger {
	if l == nil {
		l = log.New(log.DefaultConfig())
	}
	return l.WithComponent(component)
}

// publish announces a ledger change. A nil publisher or a failed publish
// never fails the request; the row stays pending and the sweep picks it up.
func publish(ctx context.Context, p amqp.Publisher, logger *log.Logger, ev *amqp.LedgerEvent) {
	if p == nil {
		logger.DebugContext(ctx, "AMQP publisher not available, skipping ledger event",
			log.FieldEntryKind, ev.Kind, log.FieldEntityID, ev.EntityID)
		return
	}
	if err := p.PublishLedgerEvent(ctx, ev); err != nil {
		logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldEntryKind, ev.Kind,
			log.FieldEntityID, ev.EntityID,
			log.FieldError, err)
	}
}
