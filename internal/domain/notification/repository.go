package notification

import (
	"context"
	"strconv"

	"github.com/google/uuid"
)

// Repository manages outbox message persistence
type Repository interface {
	Create(ctx context.Context, message *Message) error
	GetPending(ctx context.Context, limit int) ([]*Message, error)
	UpdateStatus(ctx context.Context, id int64, status OutboxStatus) error
	IncrementAttempts(ctx context.Context, id int64) error
	GetByNotificationID(ctx context.Context, notificationID uuid.UUID) (*Message, error)
}

// ErrMessageNotFound indicates a missing outbox message
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return "outbox message not found: " + strconv.FormatInt(e.ID, 10)
}

// Is implements the errors.Is interface for ErrMessageNotFound
func (e ErrMessageNotFound) Is(target error) bool {
	t, ok := target.(ErrMessageNotFound)
	if !ok {
		return false
	}
	return t.ID == 0 || e.ID == t.ID
}

// ErrDuplicateMessage indicates the notification is already in the outbox
type ErrDuplicateMessage struct {
	NotificationID uuid.UUID
}

func (e ErrDuplicateMessage) Error() string {
	return "duplicate outbox message: " + e.NotificationID.String()
}

// Is implements the errors.Is interface for ErrDuplicateMessage
func (e ErrDuplicateMessage) Is(target error) bool {
	t, ok := target.(ErrDuplicateMessage)
	if !ok {
		return false
	}
	return t.NotificationID == uuid.Nil || e.NotificationID == t.NotificationID
}
