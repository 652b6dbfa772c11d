package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every amount written to the transaction log
const CurrencySymbol = "₹"

// Entry is one record of the append-only transaction log
type Entry struct {
	Seq         int       `json:"seq"` // 1-based position in the log
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s - %s", e.Timestamp.Format(time.DateTime), e.Description)
}

// FormatAmount renders an amount the way it appears in log descriptions, e.g. ₹500 or ₹12.5
func FormatAmount(amount decimal.Decimal) string {
	return CurrencySymbol + amount.String()
}

// sameDate reports whether t falls on the calendar date of day, evaluated in t's location
func sameDate(t, day time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
