package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertKind classifies alert notifications raised by balance-affecting operations
type AlertKind string

const (
	AlertKindSpending   AlertKind = "SPENDING"
	AlertKindLowBalance AlertKind = "LOW_BALANCE"
)

// Alert is an observable notification. Raising one never changes account state.
type Alert struct {
	Kind      AlertKind       `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`    // operation amount for spending alerts
	Threshold decimal.Decimal `json:"threshold"` // configured limit or threshold
	Balance   decimal.Decimal `json:"balance"`   // balance after the operation
}

// Message renders the alert text shown to the account holder
func (a Alert) Message() string {
	switch a.Kind {
	case AlertKindSpending:
		return "Alert: You have spent " + FormatAmount(a.Amount) +
			", which is above your set limit of " + FormatAmount(a.Threshold) + "."
	case AlertKindLowBalance:
		return "Alert: Your balance is below the set threshold of " + FormatAmount(a.Threshold) +
			". Current balance: " + FormatAmount(a.Balance)
	default:
		return "Alert"
	}
}

// Snapshot identifies the account an event belongs to at the moment it was emitted
type Snapshot struct {
	AccountID        uuid.UUID `json:"account_id"`
	Name             string    `json:"name"`
	ContactInfo      string    `json:"contact_info"`
	SMSAlertsEnabled bool      `json:"sms_alerts_enabled"`
}

// Observer receives ledger events after the account lock has been released.
// Calls happen on the goroutine that ran the operation, so implementations should not block.
type Observer interface {
	EntryRecorded(acc Snapshot, entry Entry)
	AlertRaised(acc Snapshot, alert Alert)
	StatementRequested(acc Snapshot, email string)
}

type noopObserver struct{}

func (noopObserver) EntryRecorded(Snapshot, Entry)       {}
func (noopObserver) AlertRaised(Snapshot, Alert)         {}
func (noopObserver) StatementRequested(Snapshot, string) {}
