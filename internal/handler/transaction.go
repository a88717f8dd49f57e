package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/contabook/ledger-service/internal/domain"
	"github.com/contabook/ledger-service/internal/logging"
)

type transactionService interface {
	ByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
	ListAll(ctx context.Context) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	transactions transactionService
}

func NewTransactionHandler(transactions transactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type transactionDTO struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:        t.ID,
		AccountID: t.AccountID,
		Kind:      string(t.Kind),
		Amount:    t.Amount.String(),
		Timestamp: t.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactions.ByAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list account transactions", "error", err)
		RespondDomainError(w, err)
		return
	}
	respondTransactions(w, transactions)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactions.ListAll(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}
	respondTransactions(w, transactions)
}

func respondTransactions(w http.ResponseWriter, transactions []domain.Transaction) {
	dtos := make([]transactionDTO, len(transactions))
	for i := range transactions {
		dtos[i] = toTransactionDTO(&transactions[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
