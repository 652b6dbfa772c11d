package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/akb-account-ledger/internal/gateway/command"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type countingObserver struct {
	mu      sync.Mutex
	entries int
}

func (o *countingObserver) EntryRecorded(ledger.Snapshot, ledger.Entry) {
	o.mu.Lock()
	o.entries++
	o.mu.Unlock()
}
func (o *countingObserver) AlertRaised(ledger.Snapshot, ledger.Alert)  {}
func (o *countingObserver) StatementRequested(ledger.Snapshot, string) {}

func TestAccountRegistry_OpenAndGet(t *testing.T) {
	ctx := context.Background()
	registry := NewAccountRegistry(newTestLogger())

	acc, err := registry.OpenAccount(ctx, "Asha", "1234", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())

	got, err := registry.GetAccount(ctx, acc.ID())
	require.NoError(t, err)
	assert.Same(t, acc, got)

	missing := uuid.New()
	_, err = registry.GetAccount(ctx, missing)
	assert.ErrorIs(t, err, ErrAccountNotFound{ID: missing})
	assert.ErrorIs(t, err, ErrAccountNotFound{})
	assert.NotErrorIs(t, err, ErrAccountNotFound{ID: acc.ID()})
}

func TestAccountRegistry_OpenAccountValidation(t *testing.T) {
	registry := NewAccountRegistry(newTestLogger())

	_, err := registry.OpenAccount(context.Background(), "", "1234", decimal.Zero)
	assert.ErrorIs(t, err, ledger.ErrEmptyName)

	_, err = registry.OpenAccount(context.Background(), "Asha", "1234", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	assert.Equal(t, 0, registry.Len())
}

func TestAccountRegistry_AppliesOptions(t *testing.T) {
	obs := &countingObserver{}
	registry := NewAccountRegistry(newTestLogger(), ledger.WithObserver(obs))

	acc, err := registry.OpenAccount(context.Background(), "Asha", "1234", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, acc.Deposit(decimal.NewFromInt(5)))

	assert.Equal(t, 1, obs.entries)
}

func TestAccountRegistry_Execute(t *testing.T) {
	ctx := context.Background()
	registry := NewAccountRegistry(newTestLogger())
	asha, err := registry.OpenAccount(ctx, "Asha", "1234", decimal.NewFromInt(1000))
	require.NoError(t, err)
	ravi, err := registry.OpenAccount(ctx, "Ravi", "5678", decimal.Zero)
	require.NoError(t, err)

	t.Run("UnknownAccount", func(t *testing.T) {
		_, err := registry.Execute(ctx, uuid.New(), command.Deposit, command.Args{})
		assert.ErrorIs(t, err, ErrAccountNotFound{})
	})

	t.Run("TransferToRegisteredBeneficiary", func(t *testing.T) {
		_, err := registry.Execute(ctx, asha.ID(), command.AddBeneficiary, command.Args{Name: "Ravi", AccountID: ravi.ID()})
		require.NoError(t, err)

		_, err = registry.Execute(ctx, asha.ID(), command.Transfer, command.Args{
			Name:   "Ravi",
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(250)),
		})
		require.NoError(t, err)

		assert.True(t, asha.Balance().Equal(decimal.NewFromInt(750)))
		assert.True(t, ravi.Balance().Equal(decimal.NewFromInt(250)))
	})

	t.Run("BeneficiaryByUnknownID", func(t *testing.T) {
		_, err := registry.Execute(ctx, asha.ID(), command.AddBeneficiary, command.Args{Name: "Ghost", AccountID: uuid.New()})
		assert.ErrorIs(t, err, ErrAccountNotFound{})
	})

	t.Run("NewBeneficiaryIsRegistered", func(t *testing.T) {
		before := registry.Len()
		res, err := registry.Execute(ctx, asha.ID(), command.AddBeneficiary, command.Args{Name: "Meera", PIN: "0000"})
		require.NoError(t, err)
		assert.Equal(t, before+1, registry.Len())

		id, ok := res.Data.(uuid.UUID)
		require.True(t, ok)
		meera, err := registry.GetAccount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Meera", meera.Name())
	})
}

func TestAccountRegistry_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	registry := NewAccountRegistry(newTestLogger())

	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc, err := registry.OpenAccount(ctx, "Holder", "1234", decimal.NewFromInt(10))
			if err == nil {
				ids <- acc.ID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		_, err := registry.GetAccount(ctx, id)
		assert.NoError(t, err)
	}
	assert.Equal(t, 50, registry.Len())
}
