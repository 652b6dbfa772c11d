// Package dispatcher consumes the notification topic and hands each notification to a Sender.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/akb-account-ledger/internal/domain/notification"
	"github.com/akb-account-ledger/internal/platform/messaging/producers"
	"github.com/segmentio/kafka-go"
)

// NotificationHandler handles notification messages from Kafka
type NotificationHandler struct {
	sender Sender
	dlq    producers.DeadLetterPublisher // optional
	logger *slog.Logger
}

// NewNotificationHandler creates a new handler. dlq may be nil.
func NewNotificationHandler(logger *slog.Logger, sender Sender, dlq producers.DeadLetterPublisher) *NotificationHandler {
	return &NotificationHandler{
		sender: sender,
		dlq:    dlq,
		logger: logger,
	}
}

// HandleMessage decodes and delivers one message. A nil return commits the offset.
func (h *NotificationHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var n notification.Notification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		return h.deadLetter(ctx, msg, "Failed to unmarshal notification from Kafka message", err)
	}

	logger := h.logger.With("notification_id", n.ID.String(), "account_id", n.AccountID.String(), "kind", string(n.Kind))
	if n.CorrelationID != "" {
		logger = logger.With("correlation_id", n.CorrelationID)
	}

	if !n.Deliverable() {
		logger.Info("Skipping notification, holder has not opted in", "channel", string(n.Channel))
		return nil
	}

	var err error
	switch n.Channel {
	case notification.ChannelEmail:
		err = h.sender.SendEmail(ctx, &n)
	case notification.ChannelSMS:
		err = h.sender.SendSMS(ctx, &n)
	default:
		return h.deadLetter(ctx, msg, "Unknown notification channel", fmt.Errorf("channel %q", n.Channel))
	}
	if err != nil {
		logger.Error("Failed to deliver notification", "channel", string(n.Channel), "error", err)
		return fmt.Errorf("delivering notification %s failed: %w", n.ID, err)
	}

	logger.Debug("Notification delivered", "channel", string(n.Channel))
	return nil
}

// deadLetter forwards an unprocessable message. When the DLQ is unavailable the
// error is returned so the offset stays uncommitted.
func (h *NotificationHandler) deadLetter(ctx context.Context, msg kafka.Message, what string, cause error) error {
	key := string(msg.Key)
	h.logger.Error(what, "error", cause, "message_key", key)

	if h.dlq != nil {
		reason := fmt.Sprintf("%s: %s", what, cause.Error())
		if dlqErr := h.dlq.PublishToDLQ(ctx, key, msg.Value, reason); dlqErr != nil {
			h.logger.Error("Failed to publish message to DLQ",
				"dlq_error", dlqErr,
				"original_error", cause,
				"message_key", key,
			)
		} else {
			h.logger.Info("Published unprocessable message to DLQ", "message_key", key, "reason", reason)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", what, cause)
}
