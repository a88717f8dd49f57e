package service

import (
	"context"
	"fmt"

	"github.com/contabook/ledger-service/internal/domain"
	"github.com/contabook/ledger-service/internal/repository"
)

// TransactionService serves read-only ledger queries.
type TransactionService struct {
	transactions repository.TransactionStore
}

func NewTransactionService(transactions repository.TransactionStore) *TransactionService {
	return &TransactionService{transactions: transactions}
}

func (s *TransactionService) ByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	transactions, err := s.transactions.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("ByAccount: %w", err)
	}
	return transactions, nil
}

func (s *TransactionService) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	transactions, err := s.transactions.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return transactions, nil
}
