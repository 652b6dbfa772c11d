package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Rejection reasons for ledger operations. A rejected operation never changes state
// and never appends to the transaction log.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrAccountFrozen     = errors.New("account is frozen")
	ErrCardBlocked       = errors.New("debit card is blocked")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
	ErrNilAccount        = errors.New("account reference is nil")
	ErrEmptyName         = errors.New("account holder name cannot be empty")
)

// ErrLimitExceeded indicates a withdrawal above the configured transaction limit
type ErrLimitExceeded struct {
	Limit decimal.Decimal
}

func (e ErrLimitExceeded) Error() string {
	return "transaction limit exceeded, limit is " + FormatAmount(e.Limit)
}

// Is implements the errors.Is interface for ErrLimitExceeded
func (e ErrLimitExceeded) Is(target error) bool {
	t, ok := target.(ErrLimitExceeded)
	if !ok {
		return false
	}
	// A zero target limit matches any ErrLimitExceeded
	if t.Limit.IsZero() {
		return true
	}
	return e.Limit.Equal(t.Limit)
}

// ErrBeneficiaryNotFound indicates a missing beneficiary entry
type ErrBeneficiaryNotFound struct {
	Name string
}

func (e ErrBeneficiaryNotFound) Error() string {
	return "beneficiary not found: " + e.Name
}

// Is implements the errors.Is interface for ErrBeneficiaryNotFound
func (e ErrBeneficiaryNotFound) Is(target error) bool {
	t, ok := target.(ErrBeneficiaryNotFound)
	if !ok {
		return false
	}
	if t.Name == "" {
		return true
	}
	return e.Name == t.Name
}
