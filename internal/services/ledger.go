package services

import (
	"context"

	"roomgpt-backend/internal/models"
)

type CreditStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DecrementCredits(ctx context.Context, email string, requirePositive bool) (int, error)
	IncrementCredits(ctx context.Context, email string) (int, error)
}

// CreditLedger adjusts a user's credit balance one unit at a time.
// With checkBalance set, Decrement refuses to charge a balance of zero or less.
type CreditLedger struct {
	store        CreditStore
	checkBalance bool
}

func NewCreditLedger(store CreditStore, checkBalance bool) *CreditLedger {
	return &CreditLedger{
		store:        store,
		checkBalance: checkBalance,
	}
}

func (l *CreditLedger) Balance(ctx context.Context, email string) (int, error) {
	user, err := l.store.GetUserByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return user.Credits, nil
}

func (l *CreditLedger) Decrement(ctx context.Context, email string) (int, error) {
	return l.store.DecrementCredits(ctx, email, l.checkBalance)
}

func (l *CreditLedger) Increment(ctx context.Context, email string) (int, error) {
	return l.store.IncrementCredits(ctx, email)
}

// Charge takes one credit for a generation.
func (l *CreditLedger) Charge(ctx context.Context, email string) error {
	_, err := l.Decrement(ctx, email)
	return err
}

// Refund gives back a credit taken by Charge.
func (l *CreditLedger) Refund(ctx context.Context, email string) error {
	_, err := l.Increment(ctx, email)
	return err
}
