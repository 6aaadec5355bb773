package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents an account holding a credit balance.
type Account struct {
	ID             string
	Name           string
	Email          string
	HashedPassword string
	Role           Role
	CreditBalance  decimal.Decimal
	CreatorID      *string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateDebit checks if the account can be debited by amount.
// Balances never go negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.CreditBalance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

// ApplyDebit returns the new balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.CreditBalance.Sub(amount)
}

// ApplyCredit returns the new balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.CreditBalance.Add(amount)
}

// IsCreatedBy reports whether the account sits in creatorID's creator chain
// (direct creation only, the chain is one level deep by design).
func (a *Account) IsCreatedBy(creatorID string) bool {
	return a.CreatorID != nil && *a.CreatorID == creatorID
}
