package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit  TransactionKind = "DEPOSIT"
	KindWithdraw TransactionKind = "WITHDRAW"
)

func (k TransactionKind) IsValid() bool {
	return k == KindDeposit || k == KindWithdraw
}

// Transaction is an immutable record of one balance-affecting event. It is
// persisted append-only: once written under its id it is never updated or
// deleted.
type Transaction struct {
	ID        string
	AccountID string
	Kind      TransactionKind
	Amount    decimal.Decimal
	Timestamp time.Time
}

func NewTransaction(id, accountID string, kind TransactionKind, amount decimal.Decimal, timestamp time.Time) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("NewTransaction: %w", ErrInvalidAmount)
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("NewTransaction: %w", ErrInvalidKind)
	}
	return &Transaction{
		ID:        id,
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		Timestamp: timestamp,
	}, nil
}

// Apply replays this transaction's balance change against an account,
// dispatching on kind to the same entity mutation the synchronous path uses.
func (t *Transaction) Apply(account *Account) error {
	switch t.Kind {
	case KindDeposit:
		return account.Deposit(&t.Amount)
	case KindWithdraw:
		return account.Withdraw(&t.Amount)
	default:
		return fmt.Errorf("Apply: %w", ErrInvalidKind)
	}
}

// Describe returns a human-readable one-line summary.
func (t *Transaction) Describe() string {
	return fmt.Sprintf("transaction [%s]: %s of %s on account %s at %s",
		t.ID, t.Kind, t.Amount.String(), t.AccountID, t.Timestamp.Format(time.RFC3339))
}
