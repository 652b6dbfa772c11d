package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/akb-account-ledger/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var outboxColumns = []string{"id", "notification_id", "account_id", "kind", "payload", "status", "attempts", "created_at", "last_attempt_at"}

func newTestMessage() *notification.Message {
	return &notification.Message{
		NotificationID: uuid.New(),
		AccountID:      uuid.New(),
		Kind:           notification.KindAlert,
		Payload:        json.RawMessage(`{"kind":"ALERT"}`),
		Status:         notification.OutboxStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := `INSERT INTO notification_outbox`

	t.Run("success", func(t *testing.T) {
		msg := newTestMessage()
		mock.ExpectQuery(query).
			WithArgs(msg.NotificationID, msg.AccountID, msg.Kind, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		err := repo.Create(ctx, msg)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), msg.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate", func(t *testing.T) {
		msg := newTestMessage()
		mock.ExpectQuery(query).
			WithArgs(msg.NotificationID, msg.AccountID, msg.Kind, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, msg)
		var dupErr notification.ErrDuplicateMessage
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, msg.NotificationID, dupErr.NotificationID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		msg := newTestMessage()
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(msg.NotificationID, msg.AccountID, msg.Kind, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, msg)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to create outbox message")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := `SELECT (.+) FROM notification_outbox WHERE status = \$1`

	t.Run("success", func(t *testing.T) {
		first, second := newTestMessage(), newTestMessage()
		first.ID, second.ID = 1, 2
		attemptedAt := time.Now().UTC()
		second.Attempts = 2
		second.LastAttemptAt = &attemptedAt

		rows := pgxmock.NewRows(outboxColumns).
			AddRow(first.ID, first.NotificationID, first.AccountID, first.Kind, first.Payload, first.Status, first.Attempts, first.CreatedAt, (*time.Time)(nil)).
			AddRow(second.ID, second.NotificationID, second.AccountID, second.Kind, second.Payload, second.Status, second.Attempts, second.CreatedAt, second.LastAttemptAt)
		mock.ExpectQuery(query).WithArgs(notification.OutboxStatusPending, 10).WillReturnRows(rows)

		messages, err := repo.GetPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, first.NotificationID, messages[0].NotificationID)
		assert.Nil(t, messages[0].LastAttemptAt)
		assert.Equal(t, 2, messages[1].Attempts)
		require.NotNil(t, messages[1].LastAttemptAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(notification.OutboxStatusPending, 10).WillReturnRows(pgxmock.NewRows(outboxColumns))

		messages, err := repo.GetPending(ctx, 10)
		assert.NoError(t, err)
		assert.Empty(t, messages)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(query).WithArgs(notification.OutboxStatusPending, 10).WillReturnError(dbErr)

		messages, err := repo.GetPending(ctx, 10)
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, messages)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := `UPDATE notification_outbox SET status = \$1`

	testCases := []struct {
		name        string
		result      pgconn.CommandTag
		dbErr       error
		expectedErr error
	}{
		{"success", pgxmock.NewResult("UPDATE", 1), nil, nil},
		{"not found", pgxmock.NewResult("UPDATE", 0), nil, notification.ErrMessageNotFound{ID: 5}},
		{"db error", pgconn.CommandTag{}, errors.New("db down"), nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exp := mock.ExpectExec(query).WithArgs(notification.OutboxStatusProcessed, pgxmock.AnyArg(), int64(5))
			if tc.dbErr != nil {
				exp.WillReturnError(tc.dbErr)
			} else {
				exp.WillReturnResult(tc.result)
			}

			err := repo.UpdateStatus(ctx, 5, notification.OutboxStatusProcessed)

			switch {
			case tc.dbErr != nil:
				assert.ErrorIs(t, err, tc.dbErr)
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOutboxRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := `UPDATE notification_outbox SET attempts = attempts \+ 1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(pgxmock.AnyArg(), int64(3)).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.IncrementAttempts(ctx, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(pgxmock.AnyArg(), int64(3)).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.IncrementAttempts(ctx, 3), notification.ErrMessageNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetByNotificationID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := `SELECT (.+) FROM notification_outbox WHERE notification_id = \$1`

	t.Run("success", func(t *testing.T) {
		msg := newTestMessage()
		msg.ID = 9
		rows := pgxmock.NewRows(outboxColumns).
			AddRow(msg.ID, msg.NotificationID, msg.AccountID, msg.Kind, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt, (*time.Time)(nil))
		mock.ExpectQuery(query).WithArgs(msg.NotificationID).WillReturnRows(rows)

		found, err := repo.GetByNotificationID(ctx, msg.NotificationID)
		require.NoError(t, err)
		assert.Equal(t, msg, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(query).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		found, err := repo.GetByNotificationID(ctx, id)
		assert.Nil(t, found)
		assert.ErrorIs(t, err, notification.ErrMessageNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
