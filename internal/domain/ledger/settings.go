package ledger

import (
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// Settings is a read-only view of the account's flags and thresholds
type Settings struct {
	Frozen                   bool
	DebitCardBlocked         bool
	TwoFactorEnabled         bool
	OnlineBankingEnabled     bool
	SMSAlertsEnabled         bool
	ChequeBookOrdered        bool
	CardReportedLost         bool
	TransactionLimit         mo.Option[decimal.Decimal]
	SpendingAlertLimit       mo.Option[decimal.Decimal]
	LowBalanceAlertThreshold mo.Option[decimal.Decimal]
	OverdraftLimit           decimal.Decimal
	SavingsGoal              decimal.Decimal
	LoanApplicationStatus    LoanStatus
	ContactInfo              string
}

// Settings returns the current flags and thresholds
func (a *Account) Settings() Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Settings{
		Frozen:                   a.frozen,
		DebitCardBlocked:         a.debitCardBlocked,
		TwoFactorEnabled:         a.twoFactorEnabled,
		OnlineBankingEnabled:     a.onlineBankingEnabled,
		SMSAlertsEnabled:         a.smsAlertsEnabled,
		ChequeBookOrdered:        a.chequeBookOrdered,
		CardReportedLost:         a.cardReportedLost,
		TransactionLimit:         a.transactionLimit,
		SpendingAlertLimit:       a.spendingAlertLimit,
		LowBalanceAlertThreshold: a.lowBalanceAlertThreshold,
		OverdraftLimit:           a.overdraftLimit,
		SavingsGoal:              a.savingsGoal,
		LoanApplicationStatus:    a.loanApplicationStatus,
		ContactInfo:              a.contactInfo,
	}
}

// TransactionLimit returns the per-withdrawal cap, if one is set
func (a *Account) TransactionLimit() mo.Option[decimal.Decimal] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transactionLimit
}

func (a *Account) Freeze() {
	a.apply("Account frozen", func() { a.frozen = true })
}

func (a *Account) Unfreeze() {
	a.apply("Account unfrozen", func() { a.frozen = false })
}

func (a *Account) SetTransactionLimit(limit decimal.Decimal) {
	a.apply("Set transaction limit: "+FormatAmount(limit), func() { a.transactionLimit = mo.Some(limit) })
}

func (a *Account) SetSpendingAlertLimit(limit decimal.Decimal) {
	a.apply("Set spending alert limit to "+FormatAmount(limit), func() { a.spendingAlertLimit = mo.Some(limit) })
}

func (a *Account) SetLowBalanceAlertThreshold(threshold decimal.Decimal) {
	a.apply("Set low balance alert threshold to "+FormatAmount(threshold), func() {
		a.lowBalanceAlertThreshold = mo.Some(threshold)
	})
}

func (a *Account) BlockDebitCard() {
	a.apply("Blocked debit card", func() { a.debitCardBlocked = true })
}

func (a *Account) UnblockDebitCard() {
	a.apply("Unblocked debit card", func() { a.debitCardBlocked = false })
}

func (a *Account) EnableTwoFactor() {
	a.apply("Enabled two-factor authentication", func() { a.twoFactorEnabled = true })
}

func (a *Account) DisableTwoFactor() {
	a.apply("Disabled two-factor authentication", func() { a.twoFactorEnabled = false })
}

func (a *Account) EnableOnlineBanking() {
	a.apply("Enabled online banking", func() { a.onlineBankingEnabled = true })
}

func (a *Account) DisableOnlineBanking() {
	a.apply("Disabled online banking", func() { a.onlineBankingEnabled = false })
}

func (a *Account) EnableSMSAlerts() {
	a.apply("Enabled SMS alerts", func() { a.smsAlertsEnabled = true })
}

func (a *Account) DisableSMSAlerts() {
	a.apply("Disabled SMS alerts", func() { a.smsAlertsEnabled = false })
}

// ChangePIN replaces the stored PIN. The log never contains the PIN itself.
func (a *Account) ChangePIN(newPIN string) {
	a.apply("Changed account PIN", func() { a.pin = newPIN })
}

// UpdateContactInfo replaces the contact info, logs the old and new values and returns
// the value it replaced
func (a *Account) UpdateContactInfo(newInfo string) (old string) {
	_ = a.mutate(func() (change, error) {
		old = a.contactInfo
		a.contactInfo = newInfo
		return change{description: "Updated contact information from " + old + " to " + newInfo}, nil
	})
	return old
}

// ApplyForLoan records a loan application; the amount is only logged
func (a *Account) ApplyForLoan(amount decimal.Decimal) {
	a.apply("Applied for loan: "+FormatAmount(amount), func() { a.loanApplicationStatus = LoanStatusPending })
}

func (a *Account) OrderChequeBook() {
	a.apply("Ordered cheque book", func() { a.chequeBookOrdered = true })
}

func (a *Account) ReportLostCard() {
	a.apply("Reported lost/stolen card", func() { a.cardReportedLost = true })
}
