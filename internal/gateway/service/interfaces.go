package service

import (
	"context"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/akb-account-ledger/internal/gateway/command"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// OpenAccount creates and registers a new account
	OpenAccount(ctx context.Context, name, pin string, initialBalance decimal.Decimal) (*ledger.Account, error)

	// GetAccount retrieves a registered account.
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)

	// Execute runs a command against a registered account
	Execute(ctx context.Context, id uuid.UUID, cmd command.Command, args command.Args) (command.Result, error)
}

// ArchiveService defines the interface for reading the entry archive
type ArchiveService interface {
	// GetArchivedEntries returns one page of archived entries, newest first, and the total count
	GetArchivedEntries(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.ArchivedEntry, int64, error)
}
