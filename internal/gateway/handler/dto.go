package handler

import (
	"time"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// dateLayout is the calendar date format accepted by date filters
const dateLayout = "2006-01-02"

// CreateAccountRequest represents a request to open a new account
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	PIN            string          `json:"pin" binding:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// CommandRequest carries the arguments of a command. Each command reads only its own fields.
type CommandRequest struct {
	Amount      decimal.NullDecimal `json:"amount"`
	Name        string              `json:"name"`
	Nickname    string              `json:"nickname"`
	AccountID   string              `json:"account_id" binding:"omitempty,uuid"`
	NewPIN      string              `json:"new_pin"`
	Email       string              `json:"email" binding:"omitempty,email"`
	ContactInfo string              `json:"contact_info"`
	Date        string              `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Count       int                 `json:"count" binding:"min=0"`
}

// TransactionsByDateParams represents the query of the by-date history endpoint
type TransactionsByDateParams struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// RecentParams represents the query of the recent history endpoint
type RecentParams struct {
	Count int `form:"count,default=5" binding:"min=0"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
	ContactInfo string          `json:"contact_info"`
	Details     string          `json:"details"`
}

// BalanceResponse represents the balance endpoint payload
type BalanceResponse struct {
	Balance   decimal.Decimal `json:"balance"`
	Formatted string          `json:"formatted"`
}

// SettingsResponse represents account flags and thresholds; unset thresholds are omitted
type SettingsResponse struct {
	Frozen                   bool             `json:"frozen"`
	DebitCardBlocked         bool             `json:"debit_card_blocked"`
	TwoFactorEnabled         bool             `json:"two_factor_enabled"`
	OnlineBankingEnabled     bool             `json:"online_banking_enabled"`
	SMSAlertsEnabled         bool             `json:"sms_alerts_enabled"`
	ChequeBookOrdered        bool             `json:"cheque_book_ordered"`
	CardReportedLost         bool             `json:"card_reported_lost"`
	TransactionLimit         *decimal.Decimal `json:"transaction_limit,omitempty"`
	SpendingAlertLimit       *decimal.Decimal `json:"spending_alert_limit,omitempty"`
	LowBalanceAlertThreshold *decimal.Decimal `json:"low_balance_alert_threshold,omitempty"`
	OverdraftLimit           decimal.Decimal  `json:"overdraft_limit"`
	SavingsGoal              decimal.Decimal  `json:"savings_goal"`
	LoanApplicationStatus    string           `json:"loan_application_status"`
	ContactInfo              string           `json:"contact_info"`
}

// EntryResponse represents one transaction log entry
type EntryResponse struct {
	Seq         int    `json:"seq"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

// BeneficiaryResponse represents one beneficiary link
type BeneficiaryResponse struct {
	Name      string `json:"name"`
	Nickname  string `json:"nickname,omitempty"`
	AccountID string `json:"account_id"`
}

// ArchivedEntryResponse represents an entry read back from the archive
type ArchivedEntryResponse struct {
	EventID     string `json:"event_id"`
	Seq         int    `json:"seq"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	ArchivedAt  string `json:"archived_at"`
}

func mapAccountToResponse(acc *ledger.Account) AccountResponse {
	p := acc.Profile()
	return AccountResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Balance:     p.Balance,
		ContactInfo: p.ContactInfo,
		Details:     acc.Details(),
	}
}

func mapSettingsToResponse(s ledger.Settings) SettingsResponse {
	return SettingsResponse{
		Frozen:                   s.Frozen,
		DebitCardBlocked:         s.DebitCardBlocked,
		TwoFactorEnabled:         s.TwoFactorEnabled,
		OnlineBankingEnabled:     s.OnlineBankingEnabled,
		SMSAlertsEnabled:         s.SMSAlertsEnabled,
		ChequeBookOrdered:        s.ChequeBookOrdered,
		CardReportedLost:         s.CardReportedLost,
		TransactionLimit:         optional(s.TransactionLimit),
		SpendingAlertLimit:       optional(s.SpendingAlertLimit),
		LowBalanceAlertThreshold: optional(s.LowBalanceAlertThreshold),
		OverdraftLimit:           s.OverdraftLimit,
		SavingsGoal:              s.SavingsGoal,
		LoanApplicationStatus:    string(s.LoanApplicationStatus),
		ContactInfo:              s.ContactInfo,
	}
}

func optional(o mo.Option[decimal.Decimal]) *decimal.Decimal {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

func mapEntriesToResponse(entries []ledger.Entry) []EntryResponse {
	return lo.Map(entries, func(e ledger.Entry, _ int) EntryResponse {
		return EntryResponse{
			Seq:         e.Seq,
			Timestamp:   e.Timestamp.Format(time.RFC3339),
			Description: e.Description,
		}
	})
}

func mapBeneficiariesToResponse(bs []ledger.Beneficiary) []BeneficiaryResponse {
	return lo.Map(bs, func(b ledger.Beneficiary, _ int) BeneficiaryResponse {
		return BeneficiaryResponse{Name: b.Name, Nickname: b.Nickname, AccountID: b.Account.ID().String()}
	})
}

func mapArchivedEntriesToResponse(entries []*ledger.ArchivedEntry) []ArchivedEntryResponse {
	return lo.Map(entries, func(e *ledger.ArchivedEntry, _ int) ArchivedEntryResponse {
		return ArchivedEntryResponse{
			EventID:     e.EventID.String(),
			Seq:         e.Seq,
			Description: e.Description,
			Timestamp:   e.Timestamp.Format(time.RFC3339),
			ArchivedAt:  e.ArchivedAt.Format(time.RFC3339),
		}
	})
}
