package ledger

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ArchivedEntry is a transaction log entry mirrored to the archive store.
// The archive is an audit copy only; the in-memory log stays authoritative.
type ArchivedEntry struct {
	EventID     uuid.UUID `json:"event_id" bson:"event_id"`
	AccountID   uuid.UUID `json:"account_id" bson:"account_id"`
	AccountName string    `json:"account_name" bson:"account_name"`
	Seq         int       `json:"seq" bson:"seq"`
	Description string    `json:"description" bson:"description"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	ArchivedAt  time.Time `json:"archived_at" bson:"archived_at"`
}

// NewArchivedEntry wraps a log entry for archiving
func NewArchivedEntry(acc Snapshot, entry Entry) *ArchivedEntry {
	return &ArchivedEntry{
		EventID:     uuid.New(),
		AccountID:   acc.AccountID,
		AccountName: acc.Name,
		Seq:         entry.Seq,
		Description: entry.Description,
		Timestamp:   entry.Timestamp,
		ArchivedAt:  time.Now().UTC(),
	}
}

// Repository manages archived entry persistence with pagination support
type Repository interface {
	Create(ctx context.Context, entry *ArchivedEntry) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ArchivedEntry, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
	GetByTimeRange(ctx context.Context, accountID uuid.UUID, startTime, endTime time.Time) ([]*ArchivedEntry, error)
}

// ErrDuplicateEntry indicates an entry already archived for the same account position
type ErrDuplicateEntry struct {
	AccountID uuid.UUID
	Seq       int
}

func (e ErrDuplicateEntry) Error() string {
	return "duplicate archived entry: " + e.AccountID.String() + "#" + strconv.Itoa(e.Seq)
}

// Is implements the errors.Is interface for ErrDuplicateEntry
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	// If the target AccountID is empty, consider it a match for any ErrDuplicateEntry
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID && e.Seq == t.Seq
}
