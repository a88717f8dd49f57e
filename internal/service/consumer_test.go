package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contabook/ledger-service/internal/bus"
	"github.com/contabook/ledger-service/internal/domain"
	"github.com/contabook/ledger-service/internal/repository"
)

// spyAccountStore and spyTransactionStore count every store interaction so
// discard paths can assert that nothing was touched.
type spyAccountStore struct {
	repository.AccountStore
	calls int
}

func (s *spyAccountStore) Put(ctx context.Context, account *domain.Account) error {
	s.calls++
	return s.AccountStore.Put(ctx, account)
}

func (s *spyAccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	s.calls++
	return s.AccountStore.GetByID(ctx, id)
}

func (s *spyAccountStore) GetByNationalID(ctx context.Context, nationalID string) (*domain.Account, error) {
	s.calls++
	return s.AccountStore.GetByNationalID(ctx, nationalID)
}

func (s *spyAccountStore) ScanAll(ctx context.Context) ([]domain.Account, error) {
	s.calls++
	return s.AccountStore.ScanAll(ctx)
}

type spyTransactionStore struct {
	repository.TransactionStore
	calls int
}

func (s *spyTransactionStore) Put(ctx context.Context, transaction *domain.Transaction) error {
	s.calls++
	return s.TransactionStore.Put(ctx, transaction)
}

func (s *spyTransactionStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.calls++
	return s.TransactionStore.GetByID(ctx, id)
}

func (s *spyTransactionStore) GetByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	s.calls++
	return s.TransactionStore.GetByAccountID(ctx, accountID)
}

func (s *spyTransactionStore) ScanAll(ctx context.Context) ([]domain.Transaction, error) {
	s.calls++
	return s.TransactionStore.ScanAll(ctx)
}

func seedAccount(t *testing.T, accounts repository.AccountStore, id, balance string) {
	t.Helper()
	account, err := domain.NewAccount(id, "Ana", "12345678901",
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), decimal.RequireFromString(balance))
	require.NoError(t, err)
	require.NoError(t, accounts.Put(context.Background(), account))
}

func externalEvent(txnID, accountID, kind, amount string) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s", txnID, accountID, kind, amount,
		time.Now().UTC().Format(time.RFC3339Nano))
}

func TestConsumer_MalformedEventTouchesNoStore(t *testing.T) {
	// Scenario: a four-field payload is discarded before any store call.
	ctx := context.Background()
	accounts := &spyAccountStore{AccountStore: repository.NewMemoryAccountStore()}
	transactions := &spyTransactionStore{TransactionStore: repository.NewMemoryTransactionStore()}
	consumer := NewConsumer(accounts, transactions, slog.Default())

	err := consumer.Process(ctx, "tx-1,acc-1,DEPOSIT,100")
	require.ErrorIs(t, err, domain.ErrMalformedEvent)

	assert.Zero(t, accounts.calls)
	assert.Zero(t, transactions.calls)
}

func TestConsumer_UnknownAccountDiscarded(t *testing.T) {
	ctx := context.Background()
	accounts := repository.NewMemoryAccountStore()
	transactions := repository.NewMemoryTransactionStore()
	consumer := NewConsumer(accounts, transactions, slog.Default())

	err := consumer.Process(ctx, externalEvent("tx-1", "ghost", "DEPOSIT", "100"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	recorded, scanErr := transactions.ScanAll(ctx)
	require.NoError(t, scanErr)
	assert.Empty(t, recorded, "no transaction may be persisted for a discarded event")
}

func TestConsumer_OwnEventIsNotAppliedTwice(t *testing.T) {
	// Scenario: a deposit of 100 through the service followed by the
	// consumer replaying the resulting event leaves the balance at 100 with
	// a single ledger record, keyed by transaction id.
	ctx := context.Background()
	accounts := repository.NewMemoryAccountStore()
	transactions := repository.NewMemoryTransactionStore()
	eventBus := bus.NewMemoryBus()

	svc := NewAccountService(accounts, transactions, eventBus, testChannel)
	consumer := NewConsumer(accounts, transactions, slog.Default())

	seedAccount(t, accounts, "acc-1", "0")

	_, err := svc.Deposit(ctx, "acc-1", dec("100"))
	require.NoError(t, err)

	published := eventBus.Published(testChannel)
	require.Len(t, published, 1)

	require.NoError(t, consumer.Process(ctx, published[0]))

	account, err := accounts.GetByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("100")),
		"replay of the service's own event must not double-apply, balance = %s", account.Balance)

	recorded, err := transactions.GetByAccountID(ctx, "acc-1")
	require.NoError(t, err)
	assert.Len(t, recorded, 1)
}

func TestConsumer_ExternalEventAppliedOnce(t *testing.T) {
	ctx := context.Background()
	accounts := repository.NewMemoryAccountStore()
	transactions := repository.NewMemoryTransactionStore()
	consumer := NewConsumer(accounts, transactions, slog.Default())

	seedAccount(t, accounts, "acc-1", "10")

	payload := externalEvent("tx-ext-1", "acc-1", "DEPOSIT", "90")
	require.NoError(t, consumer.Process(ctx, payload))

	account, err := accounts.GetByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("100")))

	txn, err := transactions.GetByID(ctx, "tx-ext-1")
	require.NoError(t, err)
	assert.Equal(t, domain.KindDeposit, txn.Kind)

	t.Run("redelivery is skipped", func(t *testing.T) {
		require.NoError(t, consumer.Process(ctx, payload))

		account, err := accounts.GetByID(ctx, "acc-1")
		require.NoError(t, err)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("100")))

		recorded, err := transactions.ScanAll(ctx)
		require.NoError(t, err)
		assert.Len(t, recorded, 1)
	})
}

func TestConsumer_WithdrawReplay(t *testing.T) {
	ctx := context.Background()
	accounts := repository.NewMemoryAccountStore()
	transactions := repository.NewMemoryTransactionStore()
	consumer := NewConsumer(accounts, transactions, slog.Default())

	seedAccount(t, accounts, "acc-1", "100")

	require.NoError(t, consumer.Process(ctx, externalEvent("tx-ext-2", "acc-1", "WITHDRAW", "60")))

	account, err := accounts.GetByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("40")))
}

func TestConsumer_InsufficientFundsReplayDiscarded(t *testing.T) {
	ctx := context.Background()
	accounts := repository.NewMemoryAccountStore()
	transactions := repository.NewMemoryTransactionStore()
	consumer := NewConsumer(accounts, transactions, slog.Default())

	seedAccount(t, accounts, "acc-1", "50")

	err := consumer.Process(ctx, externalEvent("tx-ext-3", "acc-1", "WITHDRAW", "80"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account, getErr := accounts.GetByID(ctx, "acc-1")
	require.NoError(t, getErr)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("50")))

	recorded, scanErr := transactions.ScanAll(ctx)
	require.NoError(t, scanErr)
	assert.Empty(t, recorded)
}

func TestConsumer_MalformedVariantsDiscarded(t *testing.T) {
	ctx := context.Background()
	consumer := NewConsumer(repository.NewMemoryAccountStore(), repository.NewMemoryTransactionStore(), slog.Default())

	payloads := []string{
		"tx,acc,DEPOSIT,abc,2025-03-01T12:00:00Z",   // bad amount
		"tx,acc,DEPOSIT,100,not-a-time",             // bad timestamp
		"tx,acc,TRANSFER,100,2025-03-01T12:00:00Z",  // unknown kind
		"tx,acc,DEPOSIT,100,2025-03-01T12:00:00Z,x", // too many fields
	}
	for _, payload := range payloads {
		require.Error(t, consumer.Process(ctx, payload), "payload %q", payload)
	}
}
