package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAccountExists     = errors.New("account already exists for this national id")
	ErrBlankName         = errors.New("holder name must not be blank")
	ErrInvalidNationalID = errors.New("national id must contain exactly 11 digits")
	ErrUnderage          = errors.New("holder must be at least 18 years old")
	ErrNegativeBalance   = errors.New("opening balance must not be negative")
	ErrAmountRequired    = errors.New("amount is required")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidKind       = errors.New("transaction kind must be DEPOSIT or WITHDRAW")
	ErrVersionConflict   = errors.New("optimistic lock conflict")
	ErrMalformedEvent    = errors.New("malformed transaction event")
)
