package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const minHolderAge = 18

var nationalIDPattern = regexp.MustCompile(`^\d{11}$`)

// Account is a monetary account held by a single person, keyed by an opaque
// id and secondarily by the holder's national id. Balance arithmetic is
// exact decimal; the balance never goes negative.
//
// Version guards the persist step: every successful store write expects the
// stored version to be exactly one behind, so concurrent read-modify-write
// cycles on the same account cannot silently drop an update.
type Account struct {
	ID         string
	Name       string
	NationalID string
	BirthDate  time.Time
	Balance    decimal.Decimal
	Version    int64
	Email      *string
	Phone      *string
}

// NewAccount validates holder attributes at construction time. The age gate
// is checked once here and never re-verified afterwards.
func NewAccount(id, name, nationalID string, birthDate time.Time, balance decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("NewAccount: %w", ErrBlankName)
	}
	if !nationalIDPattern.MatchString(nationalID) {
		return nil, fmt.Errorf("NewAccount: %w", ErrInvalidNationalID)
	}
	if ageAt(birthDate, time.Now()) < minHolderAge {
		return nil, fmt.Errorf("NewAccount: %w", ErrUnderage)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("NewAccount: %w", ErrNegativeBalance)
	}
	return &Account{
		ID:         id,
		Name:       name,
		NationalID: nationalID,
		BirthDate:  birthDate,
		Balance:    balance,
		Version:    1,
	}, nil
}

// Deposit increases the balance. The amount must be present and positive;
// on failure the account is left unmodified.
func (a *Account) Deposit(amount *decimal.Decimal) error {
	if amount == nil {
		return fmt.Errorf("Deposit: %w", ErrAmountRequired)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("Deposit: %w", ErrInvalidAmount)
	}
	a.Balance = a.Balance.Add(*amount)
	return nil
}

// Withdraw decreases the balance. The amount must be present, positive and
// no greater than the current balance; on failure the account is left
// unmodified.
func (a *Account) Withdraw(amount *decimal.Decimal) error {
	if amount == nil {
		return fmt.Errorf("Withdraw: %w", ErrAmountRequired)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("Withdraw: %w", ErrInvalidAmount)
	}
	if amount.GreaterThan(a.Balance) {
		return fmt.Errorf("Withdraw: %w", ErrInsufficientFunds)
	}
	a.Balance = a.Balance.Sub(*amount)
	return nil
}

func ageAt(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		years--
	}
	return years
}
