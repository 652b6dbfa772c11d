package service

import (
	"context"
	"log/slog"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// ArchiveServiceImpl implements the ArchiveService interface
type ArchiveServiceImpl struct {
	entryRepo ledger.Repository
	logger    *slog.Logger
}

// NewArchiveService creates a new archive service. A nil repository disables the archive.
func NewArchiveService(logger *slog.Logger, entryRepo ledger.Repository) ArchiveService {
	return &ArchiveServiceImpl{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// GetArchivedEntries retrieves one page of archived entries for an account
// Returns entries, total count, and any error
func (s *ArchiveServiceImpl) GetArchivedEntries(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.ArchivedEntry, int64, error) {
	if s.entryRepo == nil {
		return nil, 0, ErrArchiveDisabled
	}

	offset := (page - 1) * perPage

	entries, err := s.entryRepo.GetByAccountID(ctx, accountID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to get archived entries", "account_id", accountID, "error", err)
		return nil, 0, err
	}

	total, err := s.entryRepo.CountByAccountID(ctx, accountID)
	if err != nil {
		s.logger.Error("Failed to count archived entries", "account_id", accountID, "error", err)
		return nil, 0, err
	}

	return entries, total, nil
}
