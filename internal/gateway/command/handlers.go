package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var handlers = map[Command]Handler{
	Deposit:                deposit,
	Withdraw:               withdraw,
	CheckBalance:           checkBalance,
	Transfer:               transfer,
	ViewDetails:            viewDetails,
	AddBeneficiary:         addBeneficiary,
	RemoveBeneficiary:      removeBeneficiary,
	Freeze:                 toggle((*ledger.Account).Freeze, "Account has been frozen."),
	Unfreeze:               toggle((*ledger.Account).Unfreeze, "Account has been unfrozen."),
	TransactionsByDate:     transactionsByDate,
	PrintStatement:         printStatement,
	EmailStatement:         emailStatement,
	SetSpendingAlert:       withAmount(SetSpendingAlert, (*ledger.Account).SetSpendingAlertLimit, "Spending alert limit set to %s"),
	RecentTransactions:     recentTransactions,
	UpdateContactInfo:      updateContactInfo,
	ChangePIN:              changePIN,
	EnableTwoFactor:        toggle((*ledger.Account).EnableTwoFactor, "Two-factor authentication enabled."),
	DisableTwoFactor:       toggle((*ledger.Account).DisableTwoFactor, "Two-factor authentication disabled."),
	ViewProfile:            viewProfile,
	SetTransactionLimit:    withAmount(SetTransactionLimit, (*ledger.Account).SetTransactionLimit, "Transaction limit set to %s"),
	CheckTransactionLimit:  checkTransactionLimit,
	EnableOnlineBanking:    toggle((*ledger.Account).EnableOnlineBanking, "Online banking enabled."),
	DisableOnlineBanking:   toggle((*ledger.Account).DisableOnlineBanking, "Online banking disabled."),
	OrderChequeBook:        toggle((*ledger.Account).OrderChequeBook, "Cheque book ordered successfully."),
	ReportLostCard:         toggle((*ledger.Account).ReportLostCard, "Card reported lost/stolen. A new card will be issued."),
	ApplyForLoan:           withAmount(ApplyForLoan, (*ledger.Account).ApplyForLoan, "Loan application for %s is pending approval."),
	SetLowBalanceAlert:     withAmount(SetLowBalanceAlert, (*ledger.Account).SetLowBalanceAlertThreshold, "Low balance alert threshold set to %s"),
	BlockDebitCard:         toggle((*ledger.Account).BlockDebitCard, "Debit card has been blocked."),
	UnblockDebitCard:       toggle((*ledger.Account).UnblockDebitCard, "Debit card has been unblocked."),
	SetBeneficiaryNickname: setBeneficiaryNickname,
	EnableSMSAlerts:        toggle((*ledger.Account).EnableSMSAlerts, "SMS alerts enabled."),
	DisableSMSAlerts:       toggle((*ledger.Account).DisableSMSAlerts, "SMS alerts disabled."),
}

// toggle adapts an argument-free setter
func toggle(apply func(*ledger.Account), message string) Handler {
	return func(_ context.Context, _ Accounts, acc *ledger.Account, _ Args) (Result, error) {
		apply(acc)
		return Result{Message: message}, nil
	}
}

// withAmount adapts a setter that takes an amount; format receives the formatted amount
func withAmount(cmd Command, apply func(*ledger.Account, decimal.Decimal), format string) Handler {
	return func(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
		amount, err := requireAmount(cmd, args)
		if err != nil {
			return Result{}, err
		}
		apply(acc, amount)
		return Result{Message: fmt.Sprintf(format, ledger.FormatAmount(amount))}, nil
	}
}

func requireAmount(cmd Command, args Args) (decimal.Decimal, error) {
	if !args.Amount.Valid {
		return decimal.Decimal{}, ErrMissingArgument{Command: cmd, Field: "amount"}
	}
	return args.Amount.Decimal, nil
}

func requireName(cmd Command, args Args) (string, error) {
	if args.Name == "" {
		return "", ErrMissingArgument{Command: cmd, Field: "name"}
	}
	return args.Name, nil
}

func deposit(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	amount, err := requireAmount(Deposit, args)
	if err != nil {
		return Result{}, err
	}
	receipt, err := acc.DepositWithReceipt(amount)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message: fmt.Sprintf("Deposited %s. New Balance: %s", ledger.FormatAmount(amount), ledger.FormatAmount(receipt.Balance)),
	}, nil
}

func withdraw(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	amount, err := requireAmount(Withdraw, args)
	if err != nil {
		return Result{}, err
	}
	receipt, err := acc.WithdrawWithReceipt(amount)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message: fmt.Sprintf("Withdrew %s. New Balance: %s", ledger.FormatAmount(amount), ledger.FormatAmount(receipt.Balance)),
	}, nil
}

func checkBalance(_ context.Context, _ Accounts, acc *ledger.Account, _ Args) (Result, error) {
	balance := acc.Balance()
	return Result{Message: "Your balance: " + ledger.FormatAmount(balance), Data: balance}, nil
}

// transfer resolves the target among the account's beneficiaries by name
func transfer(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	name, err := requireName(Transfer, args)
	if err != nil {
		return Result{}, err
	}
	amount, err := requireAmount(Transfer, args)
	if err != nil {
		return Result{}, err
	}
	beneficiary, ok := acc.Beneficiary(name)
	if !ok {
		return Result{}, ledger.ErrBeneficiaryNotFound{Name: name}
	}
	receipt, err := acc.TransferWithReceipt(amount, beneficiary.Account)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message: fmt.Sprintf("Transferred %s to %s. New Balance: %s",
			ledger.FormatAmount(amount), beneficiary.Account.Name(), ledger.FormatAmount(receipt.Balance)),
	}, nil
}

func viewDetails(_ context.Context, _ Accounts, acc *ledger.Account, _ Args) (Result, error) {
	return Result{Message: acc.Details()}, nil
}

// addBeneficiary links a registered account when AccountID is set, otherwise it opens
// a new zero-balance account under the beneficiary's name protected by args.PIN
func addBeneficiary(ctx context.Context, accounts Accounts, acc *ledger.Account, args Args) (Result, error) {
	name, err := requireName(AddBeneficiary, args)
	if err != nil {
		return Result{}, err
	}

	var target *ledger.Account
	switch {
	case args.AccountID != uuid.Nil:
		target, err = accounts.GetAccount(ctx, args.AccountID)
	case args.PIN != "":
		target, err = accounts.OpenAccount(ctx, name, args.PIN, decimal.Zero)
	default:
		return Result{}, ErrMissingArgument{Command: AddBeneficiary, Field: "account_id or pin"}
	}
	if err != nil {
		return Result{}, err
	}

	if err := acc.AddBeneficiary(name, target, args.Nickname); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("Beneficiary %s added.", name), Data: target.ID()}, nil
}

func removeBeneficiary(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	name, err := requireName(RemoveBeneficiary, args)
	if err != nil {
		return Result{}, err
	}
	if err := acc.RemoveBeneficiary(name); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("Beneficiary %s removed.", name)}, nil
}

func setBeneficiaryNickname(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	name, err := requireName(SetBeneficiaryNickname, args)
	if err != nil {
		return Result{}, err
	}
	if args.Nickname == "" {
		return Result{}, ErrMissingArgument{Command: SetBeneficiaryNickname, Field: "nickname"}
	}
	if err := acc.SetBeneficiaryNickname(name, args.Nickname); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("Nickname for beneficiary %s set to %s.", name, args.Nickname)}, nil
}

func transactionsByDate(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	if args.Date.IsZero() {
		return Result{}, ErrMissingArgument{Command: TransactionsByDate, Field: "date"}
	}
	entries := slices.Collect(acc.TransactionsByDate(args.Date))
	if entries == nil {
		entries = []ledger.Entry{}
	}
	return Result{Message: "Transactions for " + args.Date.Format("2006-01-02") + ":", Data: entries}, nil
}

func printStatement(_ context.Context, _ Accounts, acc *ledger.Account, _ Args) (Result, error) {
	return Result{Message: "Account Statement for " + acc.Name() + ":", Data: acc.Statement()}, nil
}

func emailStatement(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	if args.Email == "" {
		return Result{}, ErrMissingArgument{Command: EmailStatement, Field: "email"}
	}
	acc.RequestStatementByEmail(args.Email)
	return Result{Message: fmt.Sprintf("Account statement will be sent to %s.", args.Email)}, nil
}

// recentTransactions defaults to the last five entries when no count is given
func recentTransactions(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	count := args.Count
	if count < 0 {
		return Result{}, ErrInvalidArgument{Command: RecentTransactions, Field: "count", Reason: "must not be negative"}
	}
	if count == 0 {
		count = 5
	}
	return Result{Message: fmt.Sprintf("Last %d transactions:", count), Data: acc.RecentTransactions(count)}, nil
}

func updateContactInfo(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	if args.ContactInfo == "" {
		return Result{}, ErrMissingArgument{Command: UpdateContactInfo, Field: "contact_info"}
	}
	old := acc.UpdateContactInfo(args.ContactInfo)
	return Result{Message: fmt.Sprintf("Contact information updated from %s to %s", old, args.ContactInfo)}, nil
}

func changePIN(_ context.Context, _ Accounts, acc *ledger.Account, args Args) (Result, error) {
	if args.PIN == "" {
		return Result{}, ErrMissingArgument{Command: ChangePIN, Field: "pin"}
	}
	acc.ChangePIN(args.PIN)
	return Result{Message: "Account PIN changed successfully."}, nil
}

func viewProfile(_ context.Context, _ Accounts, acc *ledger.Account, _ Args) (Result, error) {
	p := acc.Profile()
	return Result{
		Message: fmt.Sprintf("Account holder profile: Name: %s, Contact Info: %s, Balance: %s",
			p.Name, p.ContactInfo, ledger.FormatAmount(p.Balance)),
		Data: p,
	}, nil
}

func checkTransactionLimit(_ context.Context, _ Accounts, acc *ledger.Account, _ Args) (Result, error) {
	limit, ok := acc.TransactionLimit().Get()
	if !ok {
		return Result{Message: "No transaction limit set."}, nil
	}
	return Result{Message: "Your transaction limit is " + ledger.FormatAmount(limit), Data: limit}, nil
}
