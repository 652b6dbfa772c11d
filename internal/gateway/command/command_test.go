package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	byID   map[uuid.UUID]*ledger.Account
	opened []*ledger.Account
}

var errNoSuchAccount = errors.New("no such account")

func newFakeAccounts(accs ...*ledger.Account) *fakeAccounts {
	f := &fakeAccounts{byID: map[uuid.UUID]*ledger.Account{}}
	for _, a := range accs {
		f.byID[a.ID()] = a
	}
	return f
}

func (f *fakeAccounts) GetAccount(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	acc, ok := f.byID[id]
	if !ok {
		return nil, errNoSuchAccount
	}
	return acc, nil
}

func (f *fakeAccounts) OpenAccount(_ context.Context, name, pin string, initialBalance decimal.Decimal) (*ledger.Account, error) {
	acc, err := ledger.New(name, pin, initialBalance)
	if err != nil {
		return nil, err
	}
	f.byID[acc.ID()] = acc
	f.opened = append(f.opened, acc)
	return acc, nil
}

func amount(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func newAccount(t *testing.T, name string, balance int64) *ledger.Account {
	t.Helper()
	acc, err := ledger.New(name, "1234", decimal.NewFromInt(balance))
	require.NoError(t, err)
	return acc
}

func TestEveryCommandHasHandler(t *testing.T) {
	for _, c := range All {
		_, ok := handlers[c]
		assert.True(t, ok, "missing handler for %s", c)
	}
	assert.Len(t, handlers, len(All))
	assert.Len(t, Names(), len(All))
}

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		input    string
		expected Command
		wantErr  bool
	}{
		{"deposit", Deposit, false},
		{"  Transfer ", Transfer, false},
		{"SET_BENEFICIARY_NICKNAME", SetBeneficiaryNickname, false},
		{"exit", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			c, err := ParseCommand(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}
}

func TestExecute_UnknownCommandAndNilAccount(t *testing.T) {
	_, err := Execute(context.Background(), newFakeAccounts(), Command("bogus"), newAccount(t, "Asha", 0), Args{})
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = Execute(context.Background(), newFakeAccounts(), Deposit, nil, Args{Amount: amount(1)})
	assert.ErrorIs(t, err, ledger.ErrNilAccount)
}

func TestExecute_MissingArguments(t *testing.T) {
	testCases := []struct {
		cmd   Command
		field string
	}{
		{Deposit, "amount"},
		{Withdraw, "amount"},
		{Transfer, "name"},
		{AddBeneficiary, "name"},
		{RemoveBeneficiary, "name"},
		{SetBeneficiaryNickname, "name"},
		{TransactionsByDate, "date"},
		{EmailStatement, "email"},
		{SetSpendingAlert, "amount"},
		{UpdateContactInfo, "contact_info"},
		{ChangePIN, "pin"},
		{SetTransactionLimit, "amount"},
		{ApplyForLoan, "amount"},
		{SetLowBalanceAlert, "amount"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.cmd), func(t *testing.T) {
			acc := newAccount(t, "Asha", 100)

			_, err := Execute(context.Background(), newFakeAccounts(acc), tc.cmd, acc, Args{})

			assert.ErrorIs(t, err, ErrMissingArgument{Command: tc.cmd, Field: tc.field})
			assert.ErrorIs(t, err, ErrMissingArgument{})
			assert.Empty(t, acc.Statement(), "rejected commands leave no entry")
		})
	}
}

func TestExecute_MoneyMovement(t *testing.T) {
	ctx := context.Background()
	asha := newAccount(t, "Asha", 1000)
	ravi := newAccount(t, "Ravi", 0)
	accounts := newFakeAccounts(asha, ravi)

	res, err := Execute(ctx, accounts, Deposit, asha, Args{Amount: amount(500)})
	require.NoError(t, err)
	assert.Equal(t, "Deposited ₹500. New Balance: ₹1500", res.Message)

	res, err = Execute(ctx, accounts, Withdraw, asha, Args{Amount: amount(200)})
	require.NoError(t, err)
	assert.Equal(t, "Withdrew ₹200. New Balance: ₹1300", res.Message)

	_, err = Execute(ctx, accounts, Transfer, asha, Args{Name: "Ravi", Amount: amount(100)})
	assert.ErrorIs(t, err, ledger.ErrBeneficiaryNotFound{Name: "Ravi"})

	_, err = Execute(ctx, accounts, AddBeneficiary, asha, Args{Name: "Ravi", AccountID: ravi.ID(), Nickname: "bro"})
	require.NoError(t, err)

	res, err = Execute(ctx, accounts, Transfer, asha, Args{Name: "Ravi", Amount: amount(300)})
	require.NoError(t, err)
	assert.Equal(t, "Transferred ₹300 to Ravi. New Balance: ₹1000", res.Message)
	assert.True(t, ravi.Balance().Equal(decimal.NewFromInt(300)))

	res, err = Execute(ctx, accounts, CheckBalance, asha, Args{})
	require.NoError(t, err)
	assert.Equal(t, "Your balance: ₹1000", res.Message)

	_, err = Execute(ctx, accounts, Withdraw, asha, Args{Amount: amount(5000)})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}

func TestExecute_AddBeneficiary(t *testing.T) {
	ctx := context.Background()

	t.Run("LinksRegisteredAccount", func(t *testing.T) {
		asha := newAccount(t, "Asha", 0)
		ravi := newAccount(t, "Ravi", 0)
		accounts := newFakeAccounts(asha, ravi)

		res, err := Execute(ctx, accounts, AddBeneficiary, asha, Args{Name: "Ravi", AccountID: ravi.ID()})
		require.NoError(t, err)
		assert.Equal(t, "Beneficiary Ravi added.", res.Message)
		assert.Equal(t, ravi.ID(), res.Data)

		b, ok := asha.Beneficiary("Ravi")
		require.True(t, ok)
		assert.Same(t, ravi, b.Account)
		assert.Empty(t, accounts.opened)
	})

	t.Run("OpensNewAccount", func(t *testing.T) {
		asha := newAccount(t, "Asha", 0)
		accounts := newFakeAccounts(asha)

		_, err := Execute(ctx, accounts, AddBeneficiary, asha, Args{Name: "Meera", PIN: "9999"})
		require.NoError(t, err)

		require.Len(t, accounts.opened, 1)
		assert.Equal(t, "Meera", accounts.opened[0].Name())
		assert.True(t, accounts.opened[0].VerifyPIN("9999"))
		assert.True(t, accounts.opened[0].Balance().IsZero())
	})

	t.Run("UnknownAccountID", func(t *testing.T) {
		asha := newAccount(t, "Asha", 0)

		_, err := Execute(ctx, newFakeAccounts(asha), AddBeneficiary, asha, Args{Name: "Ravi", AccountID: uuid.New()})
		assert.ErrorIs(t, err, errNoSuchAccount)
		assert.Empty(t, asha.Beneficiaries())
	})

	t.Run("NeitherAccountNorPIN", func(t *testing.T) {
		asha := newAccount(t, "Asha", 0)

		_, err := Execute(ctx, newFakeAccounts(asha), AddBeneficiary, asha, Args{Name: "Ravi"})
		assert.ErrorIs(t, err, ErrMissingArgument{})
	})
}

func TestExecute_Toggles(t *testing.T) {
	testCases := []struct {
		cmd     Command
		message string
		entry   string
	}{
		{Freeze, "Account has been frozen.", "Account frozen"},
		{Unfreeze, "Account has been unfrozen.", "Account unfrozen"},
		{EnableTwoFactor, "Two-factor authentication enabled.", "Enabled two-factor authentication"},
		{DisableTwoFactor, "Two-factor authentication disabled.", "Disabled two-factor authentication"},
		{EnableOnlineBanking, "Online banking enabled.", "Enabled online banking"},
		{DisableOnlineBanking, "Online banking disabled.", "Disabled online banking"},
		{OrderChequeBook, "Cheque book ordered successfully.", "Ordered cheque book"},
		{ReportLostCard, "Card reported lost/stolen. A new card will be issued.", "Reported lost/stolen card"},
		{BlockDebitCard, "Debit card has been blocked.", "Blocked debit card"},
		{UnblockDebitCard, "Debit card has been unblocked.", "Unblocked debit card"},
		{EnableSMSAlerts, "SMS alerts enabled.", "Enabled SMS alerts"},
		{DisableSMSAlerts, "SMS alerts disabled.", "Disabled SMS alerts"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.cmd), func(t *testing.T) {
			acc := newAccount(t, "Asha", 0)

			res, err := Execute(context.Background(), newFakeAccounts(acc), tc.cmd, acc, Args{})
			require.NoError(t, err)
			assert.Equal(t, tc.message, res.Message)

			entries := acc.Statement()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.entry, entries[0].Description)
		})
	}
}

func TestExecute_AmountSetters(t *testing.T) {
	testCases := []struct {
		cmd     Command
		message string
	}{
		{SetSpendingAlert, "Spending alert limit set to ₹75"},
		{SetTransactionLimit, "Transaction limit set to ₹75"},
		{ApplyForLoan, "Loan application for ₹75 is pending approval."},
		{SetLowBalanceAlert, "Low balance alert threshold set to ₹75"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.cmd), func(t *testing.T) {
			acc := newAccount(t, "Asha", 0)

			res, err := Execute(context.Background(), newFakeAccounts(acc), tc.cmd, acc, Args{Amount: amount(75)})
			require.NoError(t, err)
			assert.Equal(t, tc.message, res.Message)
			assert.Len(t, acc.Statement(), 1)
		})
	}

	t.Run("ZeroTransactionLimitIsAccepted", func(t *testing.T) {
		acc := newAccount(t, "Asha", 100)
		_, err := Execute(context.Background(), newFakeAccounts(acc), SetTransactionLimit, acc, Args{Amount: amount(0)})
		require.NoError(t, err)

		res, err := Execute(context.Background(), newFakeAccounts(acc), CheckTransactionLimit, acc, Args{})
		require.NoError(t, err)
		assert.Equal(t, "Your transaction limit is ₹0", res.Message)
	})
}

func TestExecute_Views(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	acc, err := ledger.New("Asha", "1234", decimal.NewFromInt(100), ledger.WithClock(func() time.Time { return day }))
	require.NoError(t, err)
	accounts := newFakeAccounts(acc)

	for i := int64(1); i <= 6; i++ {
		require.NoError(t, acc.Deposit(decimal.NewFromInt(i)))
	}

	t.Run("CheckTransactionLimitUnset", func(t *testing.T) {
		res, err := Execute(ctx, accounts, CheckTransactionLimit, acc, Args{})
		require.NoError(t, err)
		assert.Equal(t, "No transaction limit set.", res.Message)
		assert.Nil(t, res.Data)
	})

	t.Run("RecentDefaultsToFive", func(t *testing.T) {
		res, err := Execute(ctx, accounts, RecentTransactions, acc, Args{})
		require.NoError(t, err)
		assert.Equal(t, "Last 5 transactions:", res.Message)
		assert.Len(t, res.Data, 5)
	})

	t.Run("RecentExplicitCount", func(t *testing.T) {
		res, err := Execute(ctx, accounts, RecentTransactions, acc, Args{Count: 2})
		require.NoError(t, err)
		entries := res.Data.([]ledger.Entry)
		require.Len(t, entries, 2)
		assert.Equal(t, "Deposited ₹6", entries[1].Description)
	})

	t.Run("RecentNegativeCount", func(t *testing.T) {
		_, err := Execute(ctx, accounts, RecentTransactions, acc, Args{Count: -3})
		assert.ErrorIs(t, err, ErrInvalidArgument{})
		assert.ErrorIs(t, err, ErrInvalidArgument{Command: RecentTransactions, Field: "count"})
		assert.NotErrorIs(t, err, ErrMissingArgument{})
	})

	t.Run("ByDate", func(t *testing.T) {
		res, err := Execute(ctx, accounts, TransactionsByDate, acc, Args{Date: day})
		require.NoError(t, err)
		assert.Equal(t, "Transactions for 2024-03-05:", res.Message)
		assert.Len(t, res.Data, 6)

		res, err = Execute(ctx, accounts, TransactionsByDate, acc, Args{Date: day.AddDate(0, 0, 1)})
		require.NoError(t, err)
		assert.Equal(t, []ledger.Entry{}, res.Data)
	})

	t.Run("Statement", func(t *testing.T) {
		res, err := Execute(ctx, accounts, PrintStatement, acc, Args{})
		require.NoError(t, err)
		assert.Equal(t, "Account Statement for Asha:", res.Message)
		assert.Len(t, res.Data, 6)
	})

	t.Run("DetailsAndProfile", func(t *testing.T) {
		res, err := Execute(ctx, accounts, ViewDetails, acc, Args{})
		require.NoError(t, err)
		assert.Equal(t, "Account holder: Asha, Balance: ₹121, Contact Info: ", res.Message)

		res, err = Execute(ctx, accounts, ViewProfile, acc, Args{})
		require.NoError(t, err)
		assert.Equal(t, "Account holder profile: Name: Asha, Contact Info: , Balance: ₹121", res.Message)
		assert.Equal(t, acc.Profile(), res.Data)
	})
}

func TestExecute_ProfileCommands(t *testing.T) {
	ctx := context.Background()
	acc := newAccount(t, "Asha", 0)
	accounts := newFakeAccounts(acc)

	res, err := Execute(ctx, accounts, UpdateContactInfo, acc, Args{ContactInfo: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Contact information updated from  to asha@example.com", res.Message)

	res, err = Execute(ctx, accounts, UpdateContactInfo, acc, Args{ContactInfo: "+91-98000-00000"})
	require.NoError(t, err)
	assert.Equal(t, "Contact information updated from asha@example.com to +91-98000-00000", res.Message)

	res, err = Execute(ctx, accounts, ChangePIN, acc, Args{PIN: "4321"})
	require.NoError(t, err)
	assert.Equal(t, "Account PIN changed successfully.", res.Message)
	assert.True(t, acc.VerifyPIN("4321"))

	res, err = Execute(ctx, accounts, EmailStatement, acc, Args{Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Account statement will be sent to asha@example.com.", res.Message)

	_, err = Execute(ctx, accounts, SetBeneficiaryNickname, acc, Args{Name: "Ghost", Nickname: "boo"})
	assert.ErrorIs(t, err, ledger.ErrBeneficiaryNotFound{})

	_, err = Execute(ctx, accounts, RemoveBeneficiary, acc, Args{Name: "Ghost"})
	assert.ErrorIs(t, err, ledger.ErrBeneficiaryNotFound{})
}
