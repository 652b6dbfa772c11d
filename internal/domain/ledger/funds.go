package ledger

import (
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// Deposit credits amount to the balance
func (a *Account) Deposit(amount decimal.Decimal) error {
	_, err := a.DepositWithReceipt(amount)
	return err
}

// DepositWithReceipt is Deposit, also returning the entry and the resulting balance
func (a *Account) DepositWithReceipt(amount decimal.Decimal) (Receipt, error) {
	return a.commit(func() (change, error) {
		if a.frozen {
			return change{}, ErrAccountFrozen
		}
		if !amount.IsPositive() {
			return change{}, ErrInvalidAmount
		}

		a.balance = a.balance.Add(amount)
		c := change{description: "Deposited " + FormatAmount(amount)}
		if alert, ok := a.spendingAlert(amount).Get(); ok {
			c.alerts = append(c.alerts, alert)
		}
		return c, nil
	})
}

// Withdraw debits amount, allowing the balance to dip to -overdraftLimit
func (a *Account) Withdraw(amount decimal.Decimal) error {
	_, err := a.WithdrawWithReceipt(amount)
	return err
}

// WithdrawWithReceipt is Withdraw, also returning the entry and the resulting balance
func (a *Account) WithdrawWithReceipt(amount decimal.Decimal) (Receipt, error) {
	return a.commit(func() (change, error) {
		if err := a.checkDebit(); err != nil {
			return change{}, err
		}
		if limit, ok := a.transactionLimit.Get(); ok && amount.GreaterThan(limit) {
			return change{}, ErrLimitExceeded{Limit: limit}
		}
		if err := a.checkFunds(amount); err != nil {
			return change{}, err
		}

		a.balance = a.balance.Sub(amount)
		return change{
			description: "Withdrew " + FormatAmount(amount),
			alerts:      a.debitAlerts(amount),
		}, nil
	})
}

// Transfer moves amount from a to target. Both balances change under both locks,
// taken in a fixed order, so a rejected transfer changes neither account.
func (a *Account) Transfer(amount decimal.Decimal, target *Account) error {
	_, err := a.TransferWithReceipt(amount, target)
	return err
}

// TransferWithReceipt is Transfer, also returning the sender's entry and resulting balance
func (a *Account) TransferWithReceipt(amount decimal.Decimal, target *Account) (Receipt, error) {
	if target == nil {
		return Receipt{}, ErrNilAccount
	}
	if target == a {
		return Receipt{}, ErrSameAccount
	}

	unlock := lockPair(a, target)
	if err := a.checkDebit(); err != nil {
		unlock()
		return Receipt{}, err
	}
	if err := a.checkFunds(amount); err != nil {
		unlock()
		return Receipt{}, err
	}

	a.balance = a.balance.Sub(amount)
	target.balance = target.balance.Add(amount)
	c := change{
		description: "Transferred " + FormatAmount(amount) + " to " + target.name,
		alerts:      a.debitAlerts(amount),
	}
	entry := a.record(c.description)
	receipt := Receipt{Entry: entry, Balance: a.balance}
	snap := a.snapshot()
	unlock()

	a.publish(snap, entry, c)
	return receipt, nil
}

// checkDebit validates the flags that gate any outgoing payment; callers must hold mu
func (a *Account) checkDebit() error {
	if a.frozen {
		return ErrAccountFrozen
	}
	if a.debitCardBlocked {
		return ErrCardBlocked
	}
	return nil
}

// checkFunds enforces 0 < amount <= balance+overdraftLimit; callers must hold mu
func (a *Account) checkFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance.Add(a.overdraftLimit)) {
		return ErrInsufficientFunds
	}
	return nil
}

func (a *Account) debitAlerts(amount decimal.Decimal) []Alert {
	var alerts []Alert
	if alert, ok := a.spendingAlert(amount).Get(); ok {
		alerts = append(alerts, alert)
	}
	if alert, ok := a.lowBalanceAlert().Get(); ok {
		alerts = append(alerts, alert)
	}
	return alerts
}

// spendingAlert fires when amount exceeds the spending alert limit; callers must hold mu
func (a *Account) spendingAlert(amount decimal.Decimal) mo.Option[Alert] {
	limit, ok := a.spendingAlertLimit.Get()
	if !ok || !amount.GreaterThan(limit) {
		return mo.None[Alert]()
	}
	return mo.Some(Alert{Kind: AlertKindSpending, Amount: amount, Threshold: limit, Balance: a.balance})
}

// lowBalanceAlert fires when the balance sits below the threshold; callers must hold mu
func (a *Account) lowBalanceAlert() mo.Option[Alert] {
	threshold, ok := a.lowBalanceAlertThreshold.Get()
	if !ok || !a.balance.LessThan(threshold) {
		return mo.None[Alert]()
	}
	return mo.Some(Alert{Kind: AlertKindLowBalance, Threshold: threshold, Balance: a.balance})
}
