package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	creator := "rs-1"
	account := &domain.Account{
		ID:             "u-1",
		Name:           "shipper",
		Email:          "shipper@example.com",
		HashedPassword: "$2a$10$secret",
		Role:           domain.RoleUser,
		CreditBalance:  decimal.RequireFromString("123.45"),
		CreatorID:      &creator,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != "u-1" || !resp.CreditBalance.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("unexpected account response: %+v", resp)
	}
	if resp.CreatorID == nil || *resp.CreatorID != "rs-1" {
		t.Fatalf("expected creator rs-1, got %v", resp.CreatorID)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(raw), "secret") {
		t.Fatal("serialized account must not contain password material")
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].ID != account.ID {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestTransactionFromDomain(t *testing.T) {
	now := time.Now()
	ref := "ptx-1"
	txn := &domain.Transaction{
		ID:          "t-1",
		AccountID:   "u-1",
		Kind:        domain.KindLabelPurchase,
		Amount:      decimal.RequireFromString("12.34"),
		Description: "label",
		ReferenceID: &ref,
		CreatedByID: "u-1",
		CreatedAt:   now,
	}

	resp := TransactionFromDomain(txn)
	if resp.Kind != domain.KindLabelPurchase || resp.ReferenceID == nil || *resp.ReferenceID != "ptx-1" {
		t.Fatalf("unexpected transaction response: %+v", resp)
	}
}

func TestCreditFromResult(t *testing.T) {
	result := &usecase.CreditResult{
		Transactions: []*domain.Transaction{
			{ID: "t-target", AccountID: "u-1", Kind: domain.KindCreditAssign},
			{ID: "t-actor", AccountID: "rs-1", Kind: domain.KindCreditRevoke},
		},
		TargetBalance: decimal.RequireFromString("150"),
	}

	resp := CreditFromResult(result)
	if !resp.Success {
		t.Fatal("expected success")
	}
	if resp.Transaction.ID != "t-target" {
		t.Fatalf("expected the target's row first, got %s", resp.Transaction.ID)
	}
	if !resp.CreditBalance.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("expected balance 150, got %s", resp.CreditBalance)
	}
}

func TestShipmentFromDomain(t *testing.T) {
	batchID := "b-1"
	shipment := &domain.Shipment{
		ID:                    "s-1",
		AccountID:             "u-1",
		BatchID:               &batchID,
		ProviderTransactionID: "ptx-1",
		TrackingNumber:        "1Z999",
		Cost:                  decimal.RequireFromString("8.95"),
		Carrier:               "usps",
		Service:               "Priority",
		Status:                domain.ShipmentPurchased,
	}

	resp := ShipmentFromDomain(shipment)
	if resp.ProviderTransactionID != "ptx-1" || resp.Status != domain.ShipmentPurchased {
		t.Fatalf("unexpected shipment response: %+v", resp)
	}
	if resp.BatchID == nil || *resp.BatchID != "b-1" {
		t.Fatalf("expected batch b-1, got %v", resp.BatchID)
	}
}
