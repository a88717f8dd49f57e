package repository

import (
	"context"
	"sync"

	"github.com/contabook/ledger-service/internal/domain"
)

// MemoryAccountStore is a mutex-guarded map implementation of AccountStore,
// used by tests and local runs without a database. It enforces the same
// version condition on Put as the Postgres adapter.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[string]domain.Account)}
}

func (s *MemoryAccountStore) Put(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[account.ID]
	if ok && stored.Version != account.Version-1 {
		return domain.ErrVersionConflict
	}
	if !ok && account.Version != 1 {
		return domain.ErrVersionConflict
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *MemoryAccountStore) GetByID(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (s *MemoryAccountStore) GetByNationalID(_ context.Context, nationalID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.NationalID == nationalID {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryAccountStore) ScanAll(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// MemoryTransactionStore is the in-memory TransactionStore counterpart.
// Put keeps the append-only contract: an existing id is left untouched.
type MemoryTransactionStore struct {
	mu           sync.RWMutex
	transactions map[string]domain.Transaction
	order        []string
}

func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{transactions: make(map[string]domain.Transaction)}
}

func (s *MemoryTransactionStore) Put(_ context.Context, transaction *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[transaction.ID]; ok {
		return nil
	}
	s.transactions[transaction.ID] = *transaction
	s.order = append(s.order, transaction.ID)
	return nil
}

func (s *MemoryTransactionStore) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *MemoryTransactionStore) GetByAccountID(_ context.Context, accountID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Transaction
	for _, id := range s.order {
		if t := s.transactions[id]; t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryTransactionStore) ScanAll(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.transactions[id])
	}
	return out, nil
}
