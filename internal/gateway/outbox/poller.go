// Package outbox relays queued notifications from the Postgres outbox to Kafka.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/akb-account-ledger/internal/config"
	"github.com/akb-account-ledger/internal/domain/notification"
	"github.com/akb-account-ledger/internal/platform/messaging/producers"
	"github.com/google/uuid"
)

// Poller processes pending outbox messages
type Poller struct {
	outboxRepo       notification.Repository
	publisher        producers.NotificationPublisher
	dlq              producers.DeadLetterPublisher // optional
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

// NewPoller creates a poller. dlq may be nil, in which case exhausted messages are
// only marked FAILED_TO_PUBLISH.
func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo notification.Repository,
	publisher producers.NotificationPublisher,
	dlq producers.DeadLetterPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		dlq:              dlq,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping due to context cancellation")
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	p.logger.Debug("Fetched pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.relay(ctx, msg)
	}
	return nil
}

// relay publishes one message. Failures count an attempt; once the attempt budget is
// spent the message is marked FAILED_TO_PUBLISH and copied to the DLQ.
func (p *Poller) relay(ctx context.Context, msg *notification.Message) {
	logger := p.logger.With("outbox_id", msg.ID, "notification_id", msg.NotificationID)

	n, err := msg.Notification()
	if err != nil {
		logger.Error("Undecodable outbox payload", "error", err)
		p.fail(ctx, logger, msg, "undecodable payload: "+err.Error())
		return
	}
	if n.CorrelationID != "" {
		logger = logger.With("correlation_id", n.CorrelationID)
	}

	if err := p.publisher.Publish(ctx, n); err != nil {
		logger.Error("Failed to publish outbox message", "current_attempts", msg.Attempts, "error", err)

		if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
			logger.Error("Failed to increment attempts for outbox message", "error", errInc)
			return
		}
		if msg.Attempts+1 >= p.maxRetryAttempts {
			logger.Warn("Max retry attempts reached for outbox message", "attempts_made", msg.Attempts+1)
			p.fail(ctx, logger, msg, "max publish attempts reached: "+err.Error())
		}
		return
	}

	if err := p.outboxRepo.UpdateStatus(ctx, msg.ID, notification.OutboxStatusProcessed); err != nil {
		// the message stays PENDING and will be published again on the next tick
		logger.Error("Published, but failed to mark outbox message as PROCESSED", "error", err)
		return
	}
	logger.Info("Outbox message published", "kind", string(msg.Kind))
}

func (p *Poller) fail(ctx context.Context, logger *slog.Logger, msg *notification.Message, reason string) {
	if err := p.outboxRepo.UpdateStatus(ctx, msg.ID, notification.OutboxStatusFailedToPublish); err != nil {
		logger.Error("Failed to update outbox status to FAILED_TO_PUBLISH", "error", err)
	}
	if p.dlq == nil {
		return
	}
	key := strconv.FormatInt(msg.ID, 10)
	if msg.AccountID != uuid.Nil {
		key = msg.AccountID.String()
	}
	if err := p.dlq.PublishToDLQ(ctx, key, msg.Payload, reason); err != nil {
		logger.Error("Failed to forward outbox message to DLQ", "error", err)
	}
}
