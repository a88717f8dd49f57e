package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrBlankName         = &AppError{http.StatusBadRequest, "BLANK_NAME", "Holder name must not be blank"}
	ErrInvalidNationalID = &AppError{http.StatusBadRequest, "INVALID_NATIONAL_ID", "National id must contain exactly 11 digits"}
	ErrUnderage          = &AppError{http.StatusBadRequest, "HOLDER_UNDERAGE", "Holder must be at least 18 years old"}
	ErrNegativeBalance   = &AppError{http.StatusBadRequest, "NEGATIVE_BALANCE", "Opening balance must not be negative"}
	ErrAmountRequired    = &AppError{http.StatusBadRequest, "AMOUNT_REQUIRED", "Amount is required"}
	ErrInvalidAmount     = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInsufficientFunds = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrAccountExists     = &AppError{http.StatusConflict, "ACCOUNT_ALREADY_EXISTS", "An account already exists for this national id"}
	ErrVersionConflict   = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Account was modified concurrently, please retry"}
)
