package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contabook/ledger-service/internal/domain"
	"github.com/contabook/ledger-service/internal/logging"
)

type accountService interface {
	Open(ctx context.Context, account *domain.Account) (string, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	ListAll(ctx context.Context) ([]domain.Account, error)
	Deposit(ctx context.Context, id string, amount *decimal.Decimal) (string, error)
	Withdraw(ctx context.Context, id string, amount *decimal.Decimal) (string, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

const birthDateLayout = "2006-01-02"

type createAccountRequest struct {
	Name       string           `json:"name"`
	NationalID string           `json:"national_id"`
	BirthDate  string           `json:"birth_date"`
	Balance    *decimal.Decimal `json:"balance"`
	Email      *string          `json:"email"`
	Phone      *string          `json:"phone"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.NationalID == "" {
		errs = append(errs, FieldError{Field: "national_id", Message: "required"})
	}
	if r.BirthDate == "" {
		errs = append(errs, FieldError{Field: "birth_date", Message: "required"})
	} else if _, err := time.Parse(birthDateLayout, r.BirthDate); err != nil {
		errs = append(errs, FieldError{Field: "birth_date", Message: "must be an ISO-8601 date (YYYY-MM-DD)"})
	}
	return errs
}

type accountDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	NationalID string  `json:"national_id"`
	BirthDate  string  `json:"birth_date"`
	Balance    string  `json:"balance"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:         a.ID,
		Name:       a.Name,
		NationalID: a.NationalID,
		BirthDate:  a.BirthDate.Format(birthDateLayout),
		Balance:    a.Balance.String(),
		Email:      a.Email,
		Phone:      a.Phone,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	birthDate, _ := time.Parse(birthDateLayout, req.BirthDate)
	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}

	account, err := domain.NewAccount(uuid.NewString(), req.Name, req.NationalID, birthDate, balance)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	account.Email = req.Email
	account.Phone = req.Phone

	confirmation, err := h.accounts.Open(r.Context(), account)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to open account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, map[string]any{
		"id":      account.ID,
		"message": confirmation,
	})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAll(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type amountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.accounts.Deposit)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.accounts.Withdraw)
}

func (h *AccountHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, string, *decimal.Decimal) (string, error)) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	disposition, err := op(r.Context(), r.PathValue("id"), req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Warn("balance mutation rejected",
			"account_id", r.PathValue("id"),
			"error", err,
		)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": disposition})
}
