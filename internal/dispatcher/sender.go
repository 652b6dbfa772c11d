package dispatcher

import (
	"context"
	"log/slog"

	"github.com/akb-account-ledger/internal/domain/notification"
)

// Sender delivers a notification over one channel
type Sender interface {
	SendEmail(ctx context.Context, n *notification.Notification) error
	SendSMS(ctx context.Context, n *notification.Notification) error
}

// LogSender records deliveries in the log instead of contacting a mail or SMS gateway
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(ctx context.Context, n *notification.Notification) error {
	s.logger.InfoContext(ctx, "Email delivered",
		"notification_id", n.ID.String(),
		"account_id", n.AccountID.String(),
		"to", n.Recipient,
		"subject", n.Message,
	)
	return nil
}

func (s *LogSender) SendSMS(ctx context.Context, n *notification.Notification) error {
	s.logger.InfoContext(ctx, "SMS delivered",
		"notification_id", n.ID.String(),
		"account_id", n.AccountID.String(),
		"to", n.Recipient,
		"text", n.Message,
	)
	return nil
}

var _ Sender = (*LogSender)(nil)
