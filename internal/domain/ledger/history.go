package ledger

import (
	"iter"
	"slices"
	"time"

	"github.com/samber/mo"
)

// TransactionsByDate yields the log entries stamped on the calendar date of day.
// The sequence is lazy and can be ranged over repeatedly; each range re-reads the log,
// so entries appended between ranges are included in the next one.
func (a *Account) TransactionsByDate(day time.Time) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, entry := range a.Statement() {
			if !sameDate(entry.Timestamp, day) {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// RecentTransactions returns the last n entries in chronological order
func (a *Account) RecentTransactions(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	start := max(len(a.transactions)-n, 0)
	return slices.Clone(a.transactions[start:])
}

// Statement returns a copy of the whole transaction log
func (a *Account) Statement() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.transactions)
}

// RequestStatementByEmail logs a statement request. Delivery is left to the Observer.
func (a *Account) RequestStatementByEmail(email string) {
	_ = a.mutate(func() (change, error) {
		return change{
			description: "Requested account statement to be sent to " + email,
			statement:   mo.Some(email),
		}, nil
	})
}
