package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akb-account-ledger/internal/domain/ledger"
)

var _ ledger.Repository = (*EntryRepository)(nil)

// EntryRepository implements ledger.Repository on a MongoDB collection
type EntryRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewEntryRepository creates a new MongoDB archive repository over coll
func NewEntryRepository(logger *slog.Logger, coll *mongo.Collection) *EntryRepository {
	return &EntryRepository{
		coll:   coll,
		logger: logger,
	}
}

// EnsureIndexes creates the unique (account_id, seq) index that makes archiving idempotent
func (r *EntryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "seq", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("account_seq_unique"),
		},
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("account_timestamp"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create archive indexes: %w", err)
	}
	return nil
}

// Create archives one entry. Re-archiving the same account position returns ErrDuplicateEntry.
func (r *EntryRepository) Create(ctx context.Context, entry *ledger.ArchivedEntry) error {
	_, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrDuplicateEntry{AccountID: entry.AccountID, Seq: entry.Seq}
		}
		r.logger.Error("Failed to archive ledger entry",
			"account_id", entry.AccountID.String(),
			"seq", entry.Seq,
			"error", err)
		return fmt.Errorf("failed to archive ledger entry: %w", err)
	}
	return nil
}

// GetByAccountID returns a page of archived entries, newest first
func (r *EntryRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.ArchivedEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	entries, err := r.find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		r.logger.Error("Failed to get archived entries", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get archived entries: %w", err)
	}
	return entries, nil
}

// CountByAccountID counts the archived entries of an account
func (r *EntryRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"account_id": accountID})
	if err != nil {
		r.logger.Error("Failed to count archived entries", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count archived entries: %w", err)
	}
	return count, nil
}

// GetByTimeRange returns the entries stamped within [startTime, endTime] in log order
func (r *EntryRepository) GetByTimeRange(ctx context.Context, accountID uuid.UUID, startTime, endTime time.Time) ([]*ledger.ArchivedEntry, error) {
	filter := bson.M{
		"account_id": accountID,
		"timestamp": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})

	entries, err := r.find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get archived entries by time range",
			"account_id", accountID.String(),
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get archived entries by time range: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*ledger.ArchivedEntry, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []*ledger.ArchivedEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
