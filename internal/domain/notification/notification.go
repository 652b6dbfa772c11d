// Package notification describes the alerts and statement requests that leave the ledger
// through the Postgres outbox and Kafka.
package notification

import (
	"time"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// Kind defines what triggered a notification
type Kind string

const (
	KindAlert            Kind = "ALERT"
	KindStatementRequest Kind = "STATEMENT_REQUEST"
)

// Channel defines how a notification reaches the account holder
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "EMAIL"
)

// Notification is the payload relayed to the notification topic
type Notification struct {
	ID               uuid.UUID     `json:"id"`
	Kind             Kind          `json:"kind"`
	Channel          Channel       `json:"channel"`
	AccountID        uuid.UUID     `json:"account_id"`
	AccountName      string        `json:"account_name"`
	Recipient        string        `json:"recipient"`
	SMSAlertsEnabled bool          `json:"sms_alerts_enabled"`
	Alert            *ledger.Alert `json:"alert,omitempty"`
	Message          string        `json:"message"`
	CorrelationID    string        `json:"correlation_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// NewAlert builds an SMS notification for an alert. Recipient is the holder's contact info.
func NewAlert(acc ledger.Snapshot, alert ledger.Alert) *Notification {
	return &Notification{
		ID:               uuid.New(),
		Kind:             KindAlert,
		Channel:          ChannelSMS,
		AccountID:        acc.AccountID,
		AccountName:      acc.Name,
		Recipient:        acc.ContactInfo,
		SMSAlertsEnabled: acc.SMSAlertsEnabled,
		Alert:            &alert,
		Message:          alert.Message(),
		CreatedAt:        time.Now().UTC(),
	}
}

// NewStatementRequest builds an email notification carrying the statement request
func NewStatementRequest(acc ledger.Snapshot, email string) *Notification {
	return &Notification{
		ID:               uuid.New(),
		Kind:             KindStatementRequest,
		Channel:          ChannelEmail,
		AccountID:        acc.AccountID,
		AccountName:      acc.Name,
		Recipient:        email,
		SMSAlertsEnabled: acc.SMSAlertsEnabled,
		Message:          "Account statement for " + acc.Name,
		CreatedAt:        time.Now().UTC(),
	}
}

// Deliverable reports whether the holder has opted in to this notification's channel
func (n *Notification) Deliverable() bool {
	if n.Channel == ChannelSMS {
		return n.SMSAlertsEnabled
	}
	return n.Recipient != ""
}
