package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contabook/ledger-service/internal/domain"
)

// Expected table shape (provisioning is external to this service):
//
//	transactions(id TEXT PRIMARY KEY, account_id TEXT, kind TEXT,
//	             amount TEXT, ts TEXT)
//	with a secondary index on account_id.

const transactionColumns = `id, account_id, kind, amount, ts`

type PostgresTransactionStore struct {
	db *sql.DB
}

func NewPostgresTransactionStore(db *sql.DB) *PostgresTransactionStore {
	return &PostgresTransactionStore{db: db}
}

// Put appends a ledger record. Transactions are immutable, so a rewrite of
// an existing id is a no-op rather than an update.
func (r *PostgresTransactionStore) Put(ctx context.Context, transaction *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		transaction.ID, transaction.AccountID, string(transaction.Kind),
		transaction.Amount.String(),
		transaction.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("Put: %w", err)
	}
	return nil
}

func (r *PostgresTransactionStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id,
	)
	t, err := scanStoredTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

func (r *PostgresTransactionStore) GetByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = $1 ORDER BY ts`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByAccountID: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows, "GetByAccountID")
}

func (r *PostgresTransactionStore) ScanAll(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions`,
	)
	if err != nil {
		return nil, fmt.Errorf("ScanAll: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows, "ScanAll")
}

func collectTransactions(rows *sql.Rows, op string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanStoredTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return transactions, nil
}

func scanStoredTransaction(s scanner) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		kind   string
		amount string
		ts     string
	)
	err := s.Scan(&t.ID, &t.AccountID, &kind, &amount, &ts)
	if err != nil {
		return nil, err
	}
	t.Kind = domain.TransactionKind(kind)
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if t.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return nil, fmt.Errorf("ts: %w", err)
	}
	return &t, nil
}
