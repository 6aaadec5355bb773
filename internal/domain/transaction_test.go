package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
)

func TestTransactionKind_Sign(t *testing.T) {
	tests := []struct {
		kind domain.TransactionKind
		want int
	}{
		{domain.KindCreditAssign, 1},
		{domain.KindLabelRefund, 1},
		{domain.KindCreditRevoke, -1},
		{domain.KindLabelPurchase, -1},
	}

	for _, tt := range tests {
		if got := tt.kind.Sign(); got != tt.want {
			t.Errorf("%s: expected sign %d, got %d", tt.kind, tt.want, got)
		}
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	txn := &domain.Transaction{
		Kind:   domain.KindLabelPurchase,
		Amount: decimal.RequireFromString("12.34"),
	}

	if got := txn.SignedAmount(); !got.Equal(decimal.RequireFromString("-12.34")) {
		t.Errorf("expected -12.34, got %s", got)
	}

	txn.Kind = domain.KindLabelRefund
	if got := txn.SignedAmount(); !got.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("expected 12.34, got %s", got)
	}
}

func TestShipment_ValidateRefund(t *testing.T) {
	tests := []struct {
		status  domain.ShipmentStatus
		wantErr error
	}{
		{domain.ShipmentPurchased, nil},
		{domain.ShipmentRefunded, domain.ErrAlreadyRefunded},
		{domain.ShipmentPending, domain.ErrShipmentNotRefundable},
		{domain.ShipmentError, domain.ErrShipmentNotRefundable},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			s := &domain.Shipment{Status: tt.status}
			err := s.ValidateRefund()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateCreditAmount(t *testing.T) {
	max := decimal.RequireFromString(domain.DefaultMaxCreditAmount)

	if err := domain.ValidateCreditAmount(decimal.NewFromInt(500), max); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := domain.ValidateCreditAmount(decimal.Zero, max); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := domain.ValidateCreditAmount(decimal.NewFromInt(-5), max); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}

	if err := domain.ValidateCreditAmount(decimal.NewFromInt(10001), max); !errors.Is(err, domain.ErrAmountExceedsMax) {
		t.Errorf("expected ErrAmountExceedsMax, got %v", err)
	}

	if err := domain.ValidateCreditAmount(max, max); err != nil {
		t.Errorf("amount equal to max should pass, got %v", err)
	}
}
