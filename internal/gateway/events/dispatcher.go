// Package events moves ledger events off the request path. Each event is written to
// its store by a pooled worker: entries to the archive, alerts and statement requests
// to the notification outbox.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/akb-account-ledger/internal/config"
	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/akb-account-ledger/internal/domain/notification"
	"github.com/panjf2000/ants/v2"
)

// Dispatcher implements ledger.Observer on top of an ants worker pool
type Dispatcher struct {
	pool         *ants.Pool
	entryRepo    ledger.Repository // nil when archiving is disabled
	outboxRepo   notification.Repository
	storeTimeout time.Duration
	logger       *slog.Logger

	mu       sync.Mutex // guards closed and orders inflight.Add before Shutdown's Wait
	closed   bool
	inflight sync.WaitGroup
}

var _ ledger.Observer = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher. Pass a nil entryRepo to skip archiving.
func NewDispatcher(
	logger *slog.Logger,
	cfg *config.Config,
	entryRepo ledger.Repository,
	outboxRepo notification.Repository,
) (*Dispatcher, error) {
	d := &Dispatcher{
		outboxRepo:   outboxRepo,
		storeTimeout: cfg.Events.StoreTimeout,
		logger:       logger,
	}
	if cfg.Events.ArchiveEntries {
		d.entryRepo = entryRepo
	}

	pool, err := ants.NewPool(cfg.WorkerPool.Size, ants.WithPanicHandler(func(r any) {
		logger.Error("Panic in event worker", "error", r)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create event worker pool: %w", err)
	}
	d.pool = pool
	return d, nil
}

// EntryRecorded archives the entry
func (d *Dispatcher) EntryRecorded(acc ledger.Snapshot, entry ledger.Entry) {
	if d.entryRepo == nil {
		return
	}
	archived := ledger.NewArchivedEntry(acc, entry)
	d.submit("archive_entry", func(ctx context.Context) error {
		err := d.entryRepo.Create(ctx, archived)
		if errors.Is(err, ledger.ErrDuplicateEntry{}) {
			d.logger.Debug("Entry already archived", "account_id", acc.AccountID, "seq", entry.Seq)
			return nil
		}
		return err
	})
}

// AlertRaised queues an SMS notification
func (d *Dispatcher) AlertRaised(acc ledger.Snapshot, alert ledger.Alert) {
	d.enqueue(notification.NewAlert(acc, alert))
}

// StatementRequested queues an email notification
func (d *Dispatcher) StatementRequested(acc ledger.Snapshot, email string) {
	d.enqueue(notification.NewStatementRequest(acc, email))
}

func (d *Dispatcher) enqueue(n *notification.Notification) {
	msg, err := notification.NewMessage(n)
	if err != nil {
		d.logger.Error("Failed to serialize notification", "notification_id", n.ID, "error", err)
		return
	}
	d.submit("enqueue_notification", func(ctx context.Context) error {
		err := d.outboxRepo.Create(ctx, msg)
		if errors.Is(err, notification.ErrDuplicateMessage{}) {
			return nil
		}
		if err == nil {
			d.logger.Info("Notification queued",
				"notification_id", n.ID,
				"account_id", n.AccountID,
				"kind", string(n.Kind),
			)
		}
		return err
	})
}

// submit runs fn on the pool with a per-event deadline. Submit blocks while every
// worker is busy; after Shutdown events are dropped with an error log.
func (d *Dispatcher) submit(op string, fn func(ctx context.Context) error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Error("Failed to submit event to worker pool", "op", op, "error", ants.ErrPoolClosed)
		return
	}
	d.inflight.Add(1)
	d.mu.Unlock()

	err := d.pool.Submit(func() {
		defer d.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.storeTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			d.logger.Error("Event store write failed", "op", op, "error", err)
		}
	})
	if err != nil {
		d.inflight.Done()
		d.logger.Error("Failed to submit event to worker pool", "op", op, "error", err)
	}
}

// Running returns the number of running workers in the pool
func (d *Dispatcher) Running() int {
	return d.pool.Running()
}

// Shutdown waits for in-flight events until ctx expires, then releases the pool
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("event dispatcher shutdown: %w", ctx.Err())
	}

	d.logger.Info("Shutting down event worker pool", "running_workers", d.pool.Running())
	d.pool.Release()
	return err
}
