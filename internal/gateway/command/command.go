// Package command maps the account menu onto an enumerated command type.
// Every command has exactly one handler in a static table; a command
// without a handler fails the package tests rather than a request at runtime.
package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Command names one account operation
type Command string

const (
	Deposit                Command = "deposit"
	Withdraw               Command = "withdraw"
	CheckBalance           Command = "check_balance"
	Transfer               Command = "transfer"
	ViewDetails            Command = "view_details"
	AddBeneficiary         Command = "add_beneficiary"
	RemoveBeneficiary      Command = "remove_beneficiary"
	Freeze                 Command = "freeze"
	Unfreeze               Command = "unfreeze"
	TransactionsByDate     Command = "transactions_by_date"
	PrintStatement         Command = "print_statement"
	EmailStatement         Command = "email_statement"
	SetSpendingAlert       Command = "set_spending_alert"
	RecentTransactions     Command = "recent_transactions"
	UpdateContactInfo      Command = "update_contact_info"
	ChangePIN              Command = "change_pin"
	EnableTwoFactor        Command = "enable_two_factor"
	DisableTwoFactor       Command = "disable_two_factor"
	ViewProfile            Command = "view_profile"
	SetTransactionLimit    Command = "set_transaction_limit"
	CheckTransactionLimit  Command = "check_transaction_limit"
	EnableOnlineBanking    Command = "enable_online_banking"
	DisableOnlineBanking   Command = "disable_online_banking"
	OrderChequeBook        Command = "order_cheque_book"
	ReportLostCard         Command = "report_lost_card"
	ApplyForLoan           Command = "apply_for_loan"
	SetLowBalanceAlert     Command = "set_low_balance_alert"
	BlockDebitCard         Command = "block_debit_card"
	UnblockDebitCard       Command = "unblock_debit_card"
	SetBeneficiaryNickname Command = "set_beneficiary_nickname"
	EnableSMSAlerts        Command = "enable_sms_alerts"
	DisableSMSAlerts       Command = "disable_sms_alerts"
)

// All lists every command in menu order
var All = []Command{
	Deposit, Withdraw, CheckBalance, Transfer, ViewDetails,
	AddBeneficiary, RemoveBeneficiary, Freeze, Unfreeze,
	TransactionsByDate, PrintStatement, EmailStatement, SetSpendingAlert,
	RecentTransactions, UpdateContactInfo, ChangePIN,
	EnableTwoFactor, DisableTwoFactor, ViewProfile,
	SetTransactionLimit, CheckTransactionLimit,
	EnableOnlineBanking, DisableOnlineBanking,
	OrderChequeBook, ReportLostCard, ApplyForLoan, SetLowBalanceAlert,
	BlockDebitCard, UnblockDebitCard, SetBeneficiaryNickname,
	EnableSMSAlerts, DisableSMSAlerts,
}

// ErrUnknownCommand is returned for names that match no command
var ErrUnknownCommand = errors.New("unknown command")

// ErrMissingArgument reports a required argument the caller left out
type ErrMissingArgument struct {
	Command Command
	Field   string
}

func (e ErrMissingArgument) Error() string {
	return fmt.Sprintf("%s requires %s", e.Command, e.Field)
}

// Is implements the errors.Is interface for ErrMissingArgument
func (e ErrMissingArgument) Is(target error) bool {
	t, ok := target.(ErrMissingArgument)
	if !ok {
		return false
	}
	if t.Field == "" {
		return true
	}
	return e.Command == t.Command && e.Field == t.Field
}

// ErrInvalidArgument reports an argument whose value the command cannot accept
type ErrInvalidArgument struct {
	Command Command
	Field   string
	Reason  string
}

func (e ErrInvalidArgument) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Command, e.Field, e.Reason)
}

// Is implements the errors.Is interface for ErrInvalidArgument
func (e ErrInvalidArgument) Is(target error) bool {
	t, ok := target.(ErrInvalidArgument)
	if !ok {
		return false
	}
	if t.Field == "" {
		return true
	}
	return e.Command == t.Command && e.Field == t.Field
}

// ParseCommand resolves a command name, ignoring case and surrounding space
func ParseCommand(s string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := handlers[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
	}
	return c, nil
}

// Args carries the inputs a command may need. Each handler reads only its own fields.
type Args struct {
	Amount      decimal.NullDecimal
	Name        string    // beneficiary name
	Nickname    string
	AccountID   uuid.UUID // registered account to link as a beneficiary
	PIN         string    // new PIN, or the PIN for a newly opened beneficiary account
	Email       string
	ContactInfo string
	Date        time.Time
	Count       int
}

// Result is what a command hands back to the caller
type Result struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Accounts resolves and opens accounts for commands that link two of them
type Accounts interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
	OpenAccount(ctx context.Context, name, pin string, initialBalance decimal.Decimal) (*ledger.Account, error)
}

// Handler runs one command against an account
type Handler func(ctx context.Context, accounts Accounts, acc *ledger.Account, args Args) (Result, error)

// Execute runs cmd against acc
func Execute(ctx context.Context, accounts Accounts, cmd Command, acc *ledger.Account, args Args) (Result, error) {
	h, ok := handlers[cmd]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, string(cmd))
	}
	if acc == nil {
		return Result{}, ledger.ErrNilAccount
	}
	return h(ctx, accounts, acc, args)
}

// Names returns every command name in sorted order
func Names() []string {
	names := lo.Map(All, func(c Command, _ int) string { return string(c) })
	slices.Sort(names)
	return names
}
