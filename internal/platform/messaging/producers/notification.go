package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/akb-account-ledger/internal/config"
	"github.com/akb-account-ledger/internal/domain/notification"
	"github.com/segmentio/kafka-go"
)

// NotificationProducer writes notifications keyed by account ID, so one account's
// notifications stay ordered within a partition
type NotificationProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewNotificationProducer ensures the notification topic exists and opens a synchronous writer.
// Writes are acknowledged before Publish returns so the outbox can trust the result.
func NewNotificationProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*NotificationProducer, error) {
	if cfg.NotificationTopic == "" {
		return nil, fmt.Errorf("kafka notification topic is not configured")
	}

	if err := ensureTopic(cfg, cfg.NotificationTopic, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure notification topic %s exists: %w", cfg.NotificationTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.NotificationTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &NotificationProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.NotificationTopic,
	}, nil
}

func (p *NotificationProducer) Publish(ctx context.Context, n *notification.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification %s: %w", n.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(n.AccountID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderKind, Value: []byte(n.Kind)},
		},
	}
	if n.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: HeaderCorrelationID, Value: []byte(n.CorrelationID)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish notification",
			"topic", p.topic,
			"notification_id", n.ID,
			"error", err,
		)
		return fmt.Errorf("failed to publish notification %s to %s: %w", n.ID, p.topic, err)
	}

	p.logger.Debug("Published notification",
		"topic", p.topic,
		"notification_id", n.ID,
		"kind", n.Kind,
	)
	return nil
}

func (p *NotificationProducer) Close() error {
	p.logger.Info("Closing notification producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
