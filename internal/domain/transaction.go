package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a balance-changing event.
type TransactionKind string

const (
	KindCreditAssign  TransactionKind = "CREDIT_ASSIGN"
	KindCreditRevoke  TransactionKind = "CREDIT_REVOKE"
	KindLabelPurchase TransactionKind = "LABEL_PURCHASE"
	KindLabelRefund   TransactionKind = "LABEL_REFUND"
)

var validKinds = map[TransactionKind]bool{
	KindCreditAssign:  true,
	KindCreditRevoke:  true,
	KindLabelPurchase: true,
	KindLabelRefund:   true,
}

// IsValid checks if the kind is known.
func (k TransactionKind) IsValid() bool {
	return validKinds[k]
}

// Sign returns +1 for kinds that increase the owning account's balance
// and -1 for kinds that decrease it.
func (k TransactionKind) Sign() int {
	switch k {
	case KindCreditAssign, KindLabelRefund:
		return 1
	default:
		return -1
	}
}

// Transaction is an immutable ledger row. Amount is always a positive
// magnitude; the direction is implied by Kind. Every mutation of
// Account.CreditBalance has exactly one corresponding row written in the
// same database transaction.
type Transaction struct {
	ID          string
	AccountID   string
	Kind        TransactionKind
	Amount      decimal.Decimal
	Description string
	ReferenceID *string
	CreatedByID string
	CreatedAt   time.Time
}

// SignedAmount returns the amount with the sign implied by the kind.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind.Sign() < 0 {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionFilter narrows ledger reads. AccountIDs is the visibility
// scope computed from the Authorization Policy; an empty slice means no
// restriction (super admin only).
type TransactionFilter struct {
	AccountIDs []string
	Kind       *TransactionKind
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
