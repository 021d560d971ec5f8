package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"finovo/internal/core"
	"finovo/internal/log"
	"finovo/internal/metrics"
	"finovo/internal/sheets"
	"finovo/internal/storage"
)

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// PollInterval is how often to sweep for pending rows (default: 1m)
	PollInterval time.Duration

	// BatchSize is the max number of rows per sweep (default: 50)
	BatchSize int

	// MaxRetries is how many failed mirrors a row gets before it is marked
	// as a sync error (default: 3)
	MaxRetries int
}

func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval: time.Minute,
		BatchSize:    50,
		MaxRetries:   3,
	}
}

// SyncSource is the storage the processor reads rows and sync state from.
type SyncSource interface {
	storage.SyncStore
	GetExpense(ctx context.Context, userID, id string) (core.Expense, error)
	GetInvestment(ctx context.Context, userID, id string) (core.Investment, error)
}

// SyncProcessor mirrors pending ledger rows to the spreadsheet and records
// the outcome in the row's sync status. Without a writer rows are only
// marked as synced.
type SyncProcessor struct {
	store  SyncSource
	sheets sheets.LedgerWriter
	config SyncProcessorConfig
	logger *log.Logger

	failMu   sync.Mutex
	failures map[string]int

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSyncProcessor(store SyncSource, writer sheets.LedgerWriter, config SyncProcessorConfig, logger *log.Logger) *SyncProcessor {
	return &SyncProcessor{
		store:    store,
		sheets:   writer,
		config:   config,
		logger:   componentLogger(logger, log.ComponentWorker),
		failures: map[string]int{},
	}
}

// Start begins the sweep loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return errors.New("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	p.logger.InfoContext(ctx, "Sync processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		p.logger.InfoContext(ctx, "Sync processor stopped gracefully")
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.ProcessBatch(ctx)
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch sweeps one batch of pending rows and returns how many were
// mirrored.
func (p *SyncProcessor) ProcessBatch(ctx context.Context) int {
	refs, err := p.store.PendingSync(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to list pending rows", log.FieldError, err)
		return 0
	}
	if len(refs) == 0 {
		return 0
	}
	p.logger.DebugContext(ctx, "Processing sync batch", "count", len(refs))

	synced := 0
	for _, ref := range refs {
		if ctx.Err() != nil {
			return synced
		}
		if err := p.Sync(ctx, ref); err != nil {
			continue
		}
		synced++
	}
	return synced
}

// Sync mirrors ref and counts a failure against the row's retry budget.
func (p *SyncProcessor) Sync(ctx context.Context, ref core.SyncRef) error {
	if err := p.SyncOne(ctx, ref); err != nil {
		p.handleFailure(ctx, ref, err)
		return err
	}
	return nil
}

// SyncOne mirrors a single row. A row deleted in the meantime is skipped.
func (p *SyncProcessor) SyncOne(ctx context.Context, ref core.SyncRef) error {
	var (
		rowRef string
		err    error
	)
	switch ref.Kind {
	case core.KindExpense:
		var e core.Expense
		e, err = p.store.GetExpense(ctx, ref.UserID, ref.ID)
		if err == nil && p.sheets != nil {
			rowRef, err = p.sheets.AppendExpense(ctx, e)
		}
	case core.KindInvestment:
		var i core.Investment
		i, err = p.store.GetInvestment(ctx, ref.UserID, ref.ID)
		if err == nil && p.sheets != nil {
			rowRef, err = p.sheets.AppendInvestment(ctx, i)
		}
	default:
		return fmt.Errorf("unknown sync kind: %s", ref.Kind)
	}
	if errors.Is(err, core.ErrNotFound) {
		p.logger.DebugContext(ctx, "Row gone before sync", log.FieldEntryKind, ref.Kind, log.FieldEntityID, ref.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("mirror %s %s: %w", ref.Kind, ref.ID, err)
	}

	if err := p.store.MarkSynced(ctx, ref.Kind, ref.ID); err != nil {
		// The mirror already has the row; a later sweep would append it twice.
		p.logger.WarnContext(ctx, "Failed to mark row as synced",
			log.FieldEntryKind, ref.Kind, log.FieldEntityID, ref.ID, log.FieldError, err)
	}
	p.clearFailures(ref.ID)
	metrics.SyncedRows.WithLabelValues(string(ref.Kind), "synced").Inc()
	p.logger.InfoContext(ctx, "Synced ledger row",
		log.FieldEntryKind, ref.Kind,
		log.FieldEntityID, ref.ID,
		log.FieldSheetsRef, rowRef)
	return nil
}

func (p *SyncProcessor) handleFailure(ctx context.Context, ref core.SyncRef, syncErr error) {
	p.failMu.Lock()
	p.failures[ref.ID]++
	attempts := p.failures[ref.ID]
	p.failMu.Unlock()

	p.logger.WarnContext(ctx, "Sync failed",
		log.FieldEntryKind, ref.Kind,
		log.FieldEntityID, ref.ID,
		log.FieldAttempt, attempts,
		log.FieldError, syncErr)

	if attempts < p.config.MaxRetries {
		return
	}
	if err := p.store.MarkSyncError(ctx, ref.Kind, ref.ID); err != nil {
		p.logger.ErrorContext(ctx, "Failed to mark sync error",
			log.FieldEntityID, ref.ID, log.FieldError, err)
		return
	}
	p.clearFailures(ref.ID)
	metrics.SyncedRows.WithLabelValues(string(ref.Kind), "error").Inc()
	p.logger.ErrorContext(ctx, "Sync failed permanently after max retries",
		log.FieldEntityID, ref.ID, "attempts", attempts)
}

func (p *SyncProcessor) clearFailures(id string) {
	p.failMu.Lock()
	delete(p.failures, id)
	p.failMu.Unlock()
}
