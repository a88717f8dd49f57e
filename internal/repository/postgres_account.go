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
//	accounts(id TEXT PRIMARY KEY, name TEXT, national_id TEXT, birth_date TEXT,
//	         balance TEXT, version BIGINT, email TEXT, phone TEXT)
//	with a secondary index on national_id.
//
// Balance is stored as decimal text and birth_date as an ISO-8601 date,
// matching the storage boundary's attribute encoding.

const accountColumns = `id, name, national_id, birth_date, balance, version, email, phone`

const birthDateLayout = "2006-01-02"

type PostgresAccountStore struct {
	db *sql.DB
}

func NewPostgresAccountStore(db *sql.DB) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

// Put is a conditional create-or-replace: the upsert only lands when the
// stored row's version is exactly one behind the incoming one, so a
// concurrent writer that got there first surfaces as ErrVersionConflict
// instead of a silently lost update.
func (r *PostgresAccountStore) Put(ctx context.Context, account *domain.Account) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			national_id = EXCLUDED.national_id,
			birth_date = EXCLUDED.birth_date,
			balance = EXCLUDED.balance,
			version = EXCLUDED.version,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone
		WHERE accounts.version = EXCLUDED.version - 1`,
		account.ID, account.Name, account.NationalID,
		account.BirthDate.Format(birthDateLayout),
		account.Balance.String(), account.Version,
		account.Email, account.Phone,
	)
	if err != nil {
		return fmt.Errorf("Put: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Put: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Put: account %s: %w", account.ID, domain.ErrVersionConflict)
	}
	return nil
}

func (r *PostgresAccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanStoredAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

// GetByNationalID queries the secondary index. A single match is expected;
// if the index ever holds more than one row the first wins.
func (r *PostgresAccountStore) GetByNationalID(ctx context.Context, nationalID string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE national_id = $1 LIMIT 1`, nationalID,
	)
	a, err := scanStoredAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByNationalID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByNationalID: %w", err)
	}
	return a, nil
}

func (r *PostgresAccountStore) ScanAll(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts`,
	)
	if err != nil {
		return nil, fmt.Errorf("ScanAll: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanStoredAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("ScanAll: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ScanAll: rows: %w", err)
	}
	return accounts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStoredAccount(s scanner) (*domain.Account, error) {
	var (
		a         domain.Account
		birthDate string
		balance   string
	)
	err := s.Scan(&a.ID, &a.Name, &a.NationalID, &birthDate, &balance, &a.Version, &a.Email, &a.Phone)
	if err != nil {
		return nil, err
	}
	if a.BirthDate, err = time.Parse(birthDateLayout, birthDate); err != nil {
		return nil, fmt.Errorf("birth_date: %w", err)
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return &a, nil
}
