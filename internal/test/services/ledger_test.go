package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roomgpt-backend/internal/models"
	"roomgpt-backend/internal/services"
)

func TestCreditLedger_ChargeAndRefund(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCredits(map[string]int{"jane@example.com": 1})
	ledger := services.NewCreditLedger(store, true)

	require.NoError(t, ledger.Charge(ctx, "jane@example.com"))
	balance, err := ledger.Balance(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	err = ledger.Charge(ctx, "jane@example.com")
	assert.ErrorIs(t, err, models.ErrInsufficientCredits)
	assert.Equal(t, 0, store.balance("jane@example.com"))

	require.NoError(t, ledger.Refund(ctx, "jane@example.com"))
	assert.Equal(t, 1, store.balance("jane@example.com"))
}

func TestCreditLedger_UncheckedGoesNegative(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCredits(map[string]int{"jane@example.com": 0})
	ledger := services.NewCreditLedger(store, false)

	require.NoError(t, ledger.Charge(ctx, "jane@example.com"))
	assert.Equal(t, -1, store.balance("jane@example.com"))
}

func TestCreditLedger_UnknownUser(t *testing.T) {
	ledger := services.NewCreditLedger(newMemoryCredits(map[string]int{}), true)

	_, err := ledger.Balance(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.ErrorIs(t, ledger.Charge(context.Background(), "nobody@example.com"), models.ErrUserNotFound)
}
