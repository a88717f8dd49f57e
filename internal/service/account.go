package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contabook/ledger-service/internal/bus"
	"github.com/contabook/ledger-service/internal/domain"
	"github.com/contabook/ledger-service/internal/event"
	"github.com/contabook/ledger-service/internal/logging"
	"github.com/contabook/ledger-service/internal/repository"
)

// maxPutAttempts bounds the reload-retry loop on optimistic lock conflicts.
const maxPutAttempts = 3

// AccountService is the synchronous mutation path: it validates uniqueness
// on account opening, runs load-mutate-persist on deposits and withdrawals,
// appends the ledger record and publishes the transaction event.
type AccountService struct {
	accounts     repository.AccountStore
	transactions repository.TransactionStore
	bus          bus.EventBus
	channel      string
}

func NewAccountService(accounts repository.AccountStore, transactions repository.TransactionStore, eventBus bus.EventBus, channel string) *AccountService {
	return &AccountService{
		accounts:     accounts,
		transactions: transactions,
		bus:          eventBus,
		channel:      channel,
	}
}

// Open persists a new account after checking, via the national-id index,
// that no account exists for the same holder.
func (s *AccountService) Open(ctx context.Context, account *domain.Account) (string, error) {
	log := logging.FromContext(ctx)

	_, err := s.accounts.GetByNationalID(ctx, account.NationalID)
	if err == nil {
		return "", fmt.Errorf("Open: national id %s: %w", account.NationalID, domain.ErrAccountExists)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("Open: check existing: %w", err)
	}

	if err := s.accounts.Put(ctx, account); err != nil {
		return "", fmt.Errorf("Open: %w", err)
	}

	log.Info("account opened", "account_id", account.ID, "holder", account.Name)
	return fmt.Sprintf("account created: id %s, holder %s", account.ID, account.Name), nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: account %s: %w", id, err)
	}
	return account, nil
}

// ListAll scans every stored account. There is no pagination contract;
// callers must treat the result as unbounded.
func (s *AccountService) ListAll(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return accounts, nil
}

func (s *AccountService) Deposit(ctx context.Context, id string, amount *decimal.Decimal) (string, error) {
	return s.mutate(ctx, id, amount, domain.KindDeposit)
}

func (s *AccountService) Withdraw(ctx context.Context, id string, amount *decimal.Decimal) (string, error) {
	return s.mutate(ctx, id, amount, domain.KindWithdraw)
}

func (s *AccountService) mutate(ctx context.Context, id string, amount *decimal.Decimal, kind domain.TransactionKind) (string, error) {
	log := logging.FromContext(ctx)

	var account *domain.Account
	for attempt := 1; ; attempt++ {
		var err error
		account, err = s.accounts.GetByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("mutate: account %s: %w", id, err)
		}

		switch kind {
		case domain.KindDeposit:
			err = account.Deposit(amount)
		case domain.KindWithdraw:
			err = account.Withdraw(amount)
		}
		if err != nil {
			return "", fmt.Errorf("mutate: %w", err)
		}

		account.Version++
		err = s.accounts.Put(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt == maxPutAttempts {
			return "", fmt.Errorf("mutate: persist account %s: %w", id, err)
		}
		log.Warn("concurrent account update, retrying",
			"account_id", id,
			"attempt", attempt,
		)
	}

	transaction, err := domain.NewTransaction(uuid.NewString(), account.ID, kind, *amount, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("mutate: %w", err)
	}

	// The ledger record must be durable before the event goes out: the
	// consumer treats an unknown transaction id as not-yet-applied and
	// would replay the balance change a second time.
	if err := s.transactions.Put(ctx, transaction); err != nil {
		log.Error("ledger record not persisted, event suppressed",
			"transaction_id", transaction.ID,
			"account_id", account.ID,
			"error", err,
		)
	} else {
		s.bus.Publish(ctx, s.channel, event.Encode(transaction))
	}

	log.Info("balance mutation executed",
		"account_id", account.ID,
		"kind", kind,
		"amount", amount.String(),
		"balance", account.Balance.String(),
	)

	verb := "deposit"
	if kind == domain.KindWithdraw {
		verb = "withdrawal"
	}
	return fmt.Sprintf("executed: %s of %s on account %s", verb, amount.String(), account.ID), nil
}
