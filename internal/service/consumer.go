package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contabook/ledger-service/internal/domain"
	"github.com/contabook/ledger-service/internal/event"
	"github.com/contabook/ledger-service/internal/repository"
)

// Consumer is the asynchronous replay path. Each message walks
// parse → dedup → resolve → apply → persist; any failure discards the
// message (returned to the listener, logged, never retried).
//
// The dedup step makes replay idempotent against the ledger: an event whose
// transaction id is already recorded was applied by the path that produced
// it, so the consumer skips it instead of re-deriving the balance change.
// Only events carrying an unknown id (an external producer, or a store
// restored from the ledger) are applied here.
type Consumer struct {
	accounts     repository.AccountStore
	transactions repository.TransactionStore
	logger       *slog.Logger
}

func NewConsumer(accounts repository.AccountStore, transactions repository.TransactionStore, logger *slog.Logger) *Consumer {
	return &Consumer{
		accounts:     accounts,
		transactions: transactions,
		logger:       logger,
	}
}

// Process handles one wire payload. A non-nil return means the message was
// discarded.
func (c *Consumer) Process(ctx context.Context, payload string) error {
	c.logger.Debug("event received", "payload", payload)

	transaction, err := event.Decode(payload)
	if err != nil {
		return fmt.Errorf("Process: %w", err)
	}

	_, err = c.transactions.GetByID(ctx, transaction.ID)
	if err == nil {
		c.logger.Info("transaction already recorded, replay skipped",
			"transaction_id", transaction.ID,
			"account_id", transaction.AccountID,
		)
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("Process: dedup check: %w", err)
	}

	if err := c.apply(ctx, transaction); err != nil {
		return fmt.Errorf("Process: %w", err)
	}

	if err := c.transactions.Put(ctx, transaction); err != nil {
		return fmt.Errorf("Process: persist transaction %s: %w", transaction.ID, err)
	}

	c.logger.Info("transaction replayed",
		"transaction_id", transaction.ID,
		"account_id", transaction.AccountID,
		"kind", transaction.Kind,
		"amount", transaction.Amount.String(),
	)
	return nil
}

// apply resolves the account and replays the balance change, reloading on
// optimistic lock conflicts with the same bound as the synchronous path.
func (c *Consumer) apply(ctx context.Context, transaction *domain.Transaction) error {
	for attempt := 1; ; attempt++ {
		account, err := c.accounts.GetByID(ctx, transaction.AccountID)
		if err != nil {
			return fmt.Errorf("resolve account %s: %w", transaction.AccountID, err)
		}

		if err := transaction.Apply(account); err != nil {
			return fmt.Errorf("apply: %w", err)
		}

		account.Version++
		err = c.accounts.Put(ctx, account)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt == maxPutAttempts {
			return fmt.Errorf("persist account %s: %w", transaction.AccountID, err)
		}
		c.logger.Warn("concurrent account update during replay, retrying",
			"account_id", transaction.AccountID,
			"attempt", attempt,
		)
	}
}
