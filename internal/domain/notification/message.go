package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// Message is an outbox row holding one serialized Notification until it reaches Kafka
type Message struct {
	ID             int64           `json:"id"`
	NotificationID uuid.UUID       `json:"notification_id"`
	AccountID      uuid.UUID       `json:"account_id"`
	Kind           Kind            `json:"kind"`
	Payload        json.RawMessage `json:"payload"`
	Status         OutboxStatus    `json:"status"`
	Attempts       int             `json:"attempts"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAttemptAt  *time.Time      `json:"last_attempt_at,omitempty"`
}

// NewMessage serializes n into a pending outbox message
func NewMessage(n *Notification) (*Message, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}

	return &Message{
		NotificationID: n.ID,
		AccountID:      n.AccountID,
		Kind:           n.Kind,
		Payload:        payload,
		Status:         OutboxStatusPending,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// Notification decodes the payload
func (m *Message) Notification() (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(m.Payload, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
