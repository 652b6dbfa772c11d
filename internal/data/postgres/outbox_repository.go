package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/akb-account-ledger/internal/domain/notification"
	"github.com/akb-account-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

var _ notification.Repository = (*OutboxRepository)(nil)

// OutboxRepository implements notification.Repository for PostgreSQL
type OutboxRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOutboxRepository creates a new PostgreSQL notification outbox repository
func NewOutboxRepository(logger *slog.Logger, db *persistence.PostgresDB) notification.Repository {
	return &OutboxRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new outbox message in pending status and fills in its ID
func (r *OutboxRepository) Create(ctx context.Context, message *notification.Message) error {
	query := `
		INSERT INTO notification_outbox (notification_id, account_id, kind, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		message.NotificationID,
		message.AccountID,
		message.Kind,
		message.Payload,
		message.Status,
		message.Attempts,
		message.CreatedAt,
	).Scan(&message.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return notification.ErrDuplicateMessage{NotificationID: message.NotificationID}
		}
		r.logger.Error("Failed to create outbox message",
			"notification_id", message.NotificationID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message: %w", err)
	}

	return nil
}

// GetPending returns up to limit pending messages, oldest first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*notification.Message, error) {
	query := `
		SELECT id, notification_id, account_id, kind, payload, status, attempts, created_at, last_attempt_at
		FROM notification_outbox
		WHERE status = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, notification.OutboxStatusPending, limit)
	if err != nil {
		r.logger.Error("Failed to get pending outbox messages", "error", err)
		return nil, fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []*notification.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			r.logger.Error("Failed to scan outbox message", "error", err)
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over outbox messages: %w", err)
	}

	return messages, nil
}

// UpdateStatus sets the message status and stamps the attempt time
func (r *OutboxRepository) UpdateStatus(ctx context.Context, id int64, status notification.OutboxStatus) error {
	query := `
		UPDATE notification_outbox
		SET status = $1, last_attempt_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update outbox message status",
			"id", id,
			"status", string(status),
			"error", err,
		)
		return fmt.Errorf("failed to update outbox message status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return notification.ErrMessageNotFound{ID: id}
	}
	return nil
}

// IncrementAttempts bumps the retry counter of a message
func (r *OutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	query := `
		UPDATE notification_outbox
		SET attempts = attempts + 1, last_attempt_at = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to increment outbox message attempts", "id", id, "error", err)
		return fmt.Errorf("failed to increment outbox message attempts: %w", err)
	}

	if result.RowsAffected() == 0 {
		return notification.ErrMessageNotFound{ID: id}
	}
	return nil
}

// GetByNotificationID looks a message up by the notification it carries
func (r *OutboxRepository) GetByNotificationID(ctx context.Context, notificationID uuid.UUID) (*notification.Message, error) {
	query := `
		SELECT id, notification_id, account_id, kind, payload, status, attempts, created_at, last_attempt_at
		FROM notification_outbox
		WHERE notification_id = $1
	`

	message, err := scanMessage(r.querier.QueryRow(ctx, query, notificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrMessageNotFound{}
		}
		r.logger.Error("Failed to get outbox message by notification ID",
			"notification_id", notificationID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get outbox message by notification ID: %w", err)
	}

	return message, nil
}

func scanMessage(row pgx.Row) (*notification.Message, error) {
	var message notification.Message
	err := row.Scan(
		&message.ID,
		&message.NotificationID,
		&message.AccountID,
		&message.Kind,
		&message.Payload,
		&message.Status,
		&message.Attempts,
		&message.CreatedAt,
		&message.LastAttemptAt,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}
