// Package repository holds the storage ports shared by the synchronous
// service path and the asynchronous event consumer, plus the Postgres and
// in-memory adapters. The capability set is deliberately narrow:
// create-or-replace, point read, secondary-index read, full scan. No
// delete, no range query, no batch or transaction primitive.
package repository

import (
	"context"

	"github.com/contabook/ledger-service/internal/domain"
)

// AccountStore persists accounts. Put is a conditional create-or-replace:
// it succeeds only when the stored version is exactly one behind the
// version being written (or the account is absent and the write carries
// version 1), and returns domain.ErrVersionConflict otherwise.
type AccountStore interface {
	Put(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByNationalID(ctx context.Context, nationalID string) (*domain.Account, error)
	ScanAll(ctx context.Context) ([]domain.Account, error)
}

// TransactionStore persists the append-only ledger. Put is idempotent per
// transaction id: re-writing an existing id is a no-op.
type TransactionStore interface {
	Put(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)
	ScanAll(ctx context.Context) ([]domain.Transaction, error)
}
