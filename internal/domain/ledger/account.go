// Package ledger holds the state of a single bank account: balance arithmetic, guarded
// flag transitions, beneficiaries and the append-only transaction log.
//
// Every mutation validates its preconditions under the account lock, applies the change,
// appends exactly one log entry and only then notifies the Observer. Rejected operations
// return an error and leave both state and log untouched.
package ledger

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

var accountSeq atomic.Uint64

// LoanStatus tracks the state of the holder's loan application
type LoanStatus string

const (
	LoanStatusNone    LoanStatus = "None"
	LoanStatusPending LoanStatus = "Pending"
)

// Account is the ledger for one bank account. All fields are private; state changes only
// through methods, each of which holds mu for its full read-check-write sequence.
type Account struct {
	mu  sync.Mutex
	ord uint64 // creation order, breaks lock-order ties between equal IDs

	id   uuid.UUID
	name string
	pin  string

	balance        decimal.Decimal
	overdraftLimit decimal.Decimal // reserved, no setter
	savingsGoal    decimal.Decimal // reserved, no setter

	transactions []Entry

	beneficiaries        map[string]*Account
	beneficiaryNicknames map[string]string

	frozen               bool
	debitCardBlocked     bool
	twoFactorEnabled     bool
	onlineBankingEnabled bool
	smsAlertsEnabled     bool
	chequeBookOrdered    bool
	cardReportedLost     bool

	transactionLimit         mo.Option[decimal.Decimal]
	spendingAlertLimit       mo.Option[decimal.Decimal]
	lowBalanceAlertThreshold mo.Option[decimal.Decimal]

	loanApplicationStatus LoanStatus
	contactInfo           string

	now      func() time.Time
	observer Observer
}

// Option customizes a new Account
type Option func(*Account)

// WithClock overrides the time source used to stamp log entries
func WithClock(now func() time.Time) Option {
	return func(a *Account) {
		if now != nil {
			a.now = now
		}
	}
}

// WithObserver registers the receiver of entry, alert and statement events
func WithObserver(o Observer) Option {
	return func(a *Account) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithID fixes the account identifier instead of generating one
func WithID(id uuid.UUID) Option {
	return func(a *Account) {
		a.id = id
	}
}

// New creates an account holding initialBalance. The opening balance is not logged.
func New(name, pin string, initialBalance decimal.Decimal, opts ...Option) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if initialBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	a := &Account{
		ord:                   accountSeq.Add(1),
		id:                    uuid.New(),
		name:                  name,
		pin:                   pin,
		balance:               initialBalance,
		beneficiaries:         make(map[string]*Account),
		beneficiaryNicknames:  make(map[string]string),
		onlineBankingEnabled:  true,
		smsAlertsEnabled:      true,
		loanApplicationStatus: LoanStatusNone,
		now:                   time.Now,
		observer:              noopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ID returns the account identifier
func (a *Account) ID() uuid.UUID {
	return a.id
}

// Name returns the account holder name
func (a *Account) Name() string {
	return a.name
}

// VerifyPIN compares input with the stored PIN without side effects
func (a *Account) VerifyPIN(input string) bool {
	a.mu.Lock()
	pin := a.pin
	a.mu.Unlock()
	return subtle.ConstantTimeCompare([]byte(pin), []byte(input)) == 1
}

// Balance returns the current balance
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Details renders the one-line account summary
func (a *Account) Details() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("Account holder: %s, Balance: %s, Contact Info: %s", a.name, FormatAmount(a.balance), a.contactInfo)
}

func (a *Account) String() string {
	return a.Details()
}

// Profile is a read-only view of the holder's profile
type Profile struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	ContactInfo string          `json:"contact_info"`
	Balance     decimal.Decimal `json:"balance"`
}

// Profile returns the account holder profile
func (a *Account) Profile() Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Profile{ID: a.id, Name: a.name, ContactInfo: a.contactInfo, Balance: a.balance}
}

// change is what a successful mutation hands back: the log description plus any
// notifications to publish once the lock is released
type change struct {
	description string
	alerts      []Alert
	statement   mo.Option[string]
}

// Receipt reports the log entry a successful operation appended and the balance it left
type Receipt struct {
	Entry   Entry
	Balance decimal.Decimal
}

// mutate runs fn under the lock. When fn succeeds, the change is appended to the log
// and its events are published after unlocking.
func (a *Account) mutate(fn func() (change, error)) error {
	_, err := a.commit(fn)
	return err
}

// commit is mutate returning what the change left behind, read under the same lock
func (a *Account) commit(fn func() (change, error)) (Receipt, error) {
	a.mu.Lock()
	c, err := fn()
	if err != nil {
		a.mu.Unlock()
		return Receipt{}, err
	}
	entry := a.record(c.description)
	receipt := Receipt{Entry: entry, Balance: a.balance}
	snap := a.snapshot()
	a.mu.Unlock()

	a.publish(snap, entry, c)
	return receipt, nil
}

// apply is mutate for unconditional setters
func (a *Account) apply(description string, set func()) {
	_ = a.mutate(func() (change, error) {
		set()
		return change{description: description}, nil
	})
}

// record appends a log entry; callers must hold mu
func (a *Account) record(description string) Entry {
	entry := Entry{
		Seq:         len(a.transactions) + 1,
		Timestamp:   a.now(),
		Description: description,
	}
	a.transactions = append(a.transactions, entry)
	return entry
}

// snapshot captures event metadata; callers must hold mu
func (a *Account) snapshot() Snapshot {
	return Snapshot{
		AccountID:        a.id,
		Name:             a.name,
		ContactInfo:      a.contactInfo,
		SMSAlertsEnabled: a.smsAlertsEnabled,
	}
}

func (a *Account) publish(snap Snapshot, entry Entry, c change) {
	a.observer.EntryRecorded(snap, entry)
	for _, alert := range c.alerts {
		a.observer.AlertRaised(snap, alert)
	}
	if email, ok := c.statement.Get(); ok {
		a.observer.StatementRequested(snap, email)
	}
}

// lockPair locks a and b in ascending ID order and returns the matching unlock.
// Accounts sharing an ID fall back to creation order.
func lockPair(a, b *Account) func() {
	first, second := a, b
	switch cmp := bytes.Compare(b.id[:], a.id[:]); {
	case cmp < 0:
		first, second = b, a
	case cmp == 0 && b.ord < a.ord:
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
