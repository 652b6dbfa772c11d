package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/akb-account-ledger/internal/gateway/command"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRegistry keeps every open account in memory, keyed by ID.
// Account state itself is guarded by each account's own lock.
type AccountRegistry struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*ledger.Account
	options  []ledger.Option
	logger   *slog.Logger
}

// NewAccountRegistry creates an empty registry. opts are applied to every account it opens.
func NewAccountRegistry(logger *slog.Logger, opts ...ledger.Option) *AccountRegistry {
	return &AccountRegistry{
		accounts: make(map[uuid.UUID]*ledger.Account),
		options:  opts,
		logger:   logger,
	}
}

var (
	_ AccountService   = (*AccountRegistry)(nil)
	_ command.Accounts = (*AccountRegistry)(nil)
)

// OpenAccount creates a new account and registers it
func (r *AccountRegistry) OpenAccount(_ context.Context, name, pin string, initialBalance decimal.Decimal) (*ledger.Account, error) {
	acc, err := ledger.New(name, pin, initialBalance, r.options...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.accounts[acc.ID()] = acc
	r.mu.Unlock()

	r.logger.Info("Account opened", "account_id", acc.ID(), "initial_balance", initialBalance.String())
	return acc, nil
}

// GetAccount returns ErrAccountNotFound for unknown IDs
func (r *AccountRegistry) GetAccount(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	r.mu.RLock()
	acc, ok := r.accounts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrAccountNotFound{ID: id}
	}
	return acc, nil
}

// Execute resolves the account and runs cmd against it. Beneficiary links resolve
// through this registry.
func (r *AccountRegistry) Execute(ctx context.Context, id uuid.UUID, cmd command.Command, args command.Args) (command.Result, error) {
	acc, err := r.GetAccount(ctx, id)
	if err != nil {
		return command.Result{}, err
	}

	res, err := command.Execute(ctx, r, cmd, acc, args)
	if err != nil {
		r.logger.Warn("Command rejected", "account_id", id, "command", string(cmd), "error", err)
		return command.Result{}, err
	}

	r.logger.Debug("Command executed", "account_id", id, "command", string(cmd))
	return res, nil
}

// Len returns the number of registered accounts
func (r *AccountRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}
