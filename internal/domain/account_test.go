package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBirthDate() time.Time {
	return time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewAccount(t *testing.T) {
	tests := []struct {
		name       string
		holder     string
		nationalID string
		birthDate  time.Time
		balance    decimal.Decimal
		wantErr    error
	}{
		{
			name:       "valid",
			holder:     "Ana",
			nationalID: "12345678901",
			birthDate:  validBirthDate(),
			balance:    decimal.Zero,
		},
		{
			name:       "blank name",
			holder:     "",
			nationalID: "12345678901",
			birthDate:  validBirthDate(),
			balance:    decimal.Zero,
			wantErr:    ErrBlankName,
		},
		{
			name:       "whitespace name",
			holder:     "   ",
			nationalID: "12345678901",
			birthDate:  validBirthDate(),
			balance:    decimal.Zero,
			wantErr:    ErrBlankName,
		},
		{
			name:       "national id too short",
			holder:     "Ana",
			nationalID: "1234567890",
			birthDate:  validBirthDate(),
			balance:    decimal.Zero,
			wantErr:    ErrInvalidNationalID,
		},
		{
			name:       "national id with letters",
			holder:     "Ana",
			nationalID: "1234567890a",
			birthDate:  validBirthDate(),
			balance:    decimal.Zero,
			wantErr:    ErrInvalidNationalID,
		},
		{
			name:       "holder under 18",
			holder:     "Ana",
			nationalID: "12345678901",
			birthDate:  time.Now().AddDate(-17, 0, 0),
			balance:    decimal.Zero,
			wantErr:    ErrUnderage,
		},
		{
			name:       "negative opening balance",
			holder:     "Ana",
			nationalID: "12345678901",
			birthDate:  validBirthDate(),
			balance:    decimal.RequireFromString("-1"),
			wantErr:    ErrNegativeBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := NewAccount("acc-1", tt.holder, tt.nationalID, tt.birthDate, tt.balance)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "acc-1", account.ID)
			assert.Equal(t, int64(1), account.Version)
			assert.True(t, account.Balance.Equal(tt.balance))
		})
	}
}

func TestAccount_ExactlyEighteenIsAllowed(t *testing.T) {
	_, err := NewAccount("acc-1", "Ana", "12345678901", time.Now().AddDate(-18, 0, 0), decimal.Zero)
	require.NoError(t, err)
}

func TestAccount_Deposit(t *testing.T) {
	account, err := NewAccount("acc-1", "Ana", "12345678901", validBirthDate(), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, account.Deposit(dec("100")))
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("100")), "balance = %s", account.Balance)

	t.Run("nil amount rejected, balance unchanged", func(t *testing.T) {
		err := account.Deposit(nil)
		require.ErrorIs(t, err, ErrAmountRequired)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("100")))
	})

	t.Run("non-positive amount rejected, balance unchanged", func(t *testing.T) {
		require.ErrorIs(t, account.Deposit(dec("0")), ErrInvalidAmount)
		require.ErrorIs(t, account.Deposit(dec("-5")), ErrInvalidAmount)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("100")))
	})
}

func TestAccount_Withdraw(t *testing.T) {
	account, err := NewAccount("acc-1", "Ana", "12345678901", validBirthDate(), decimal.RequireFromString("50"))
	require.NoError(t, err)

	t.Run("insufficient funds rejected, balance unchanged", func(t *testing.T) {
		err := account.Withdraw(dec("80"))
		require.ErrorIs(t, err, ErrInsufficientFunds)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("50")))
	})

	t.Run("nil and non-positive amounts rejected", func(t *testing.T) {
		require.ErrorIs(t, account.Withdraw(nil), ErrAmountRequired)
		require.ErrorIs(t, account.Withdraw(dec("0")), ErrInvalidAmount)
		require.ErrorIs(t, account.Withdraw(dec("-1")), ErrInvalidAmount)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("50")))
	})

	t.Run("full balance can be withdrawn", func(t *testing.T) {
		require.NoError(t, account.Withdraw(dec("50")))
		assert.True(t, account.Balance.IsZero())
	})
}

func TestAccount_DecimalArithmeticIsExact(t *testing.T) {
	account, err := NewAccount("acc-1", "Ana", "12345678901", validBirthDate(), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, account.Deposit(dec("0.1")))
	require.NoError(t, account.Deposit(dec("0.2")))
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("0.3")), "balance = %s", account.Balance)

	require.NoError(t, account.Withdraw(dec("0.3")))
	assert.True(t, account.Balance.IsZero())
}
