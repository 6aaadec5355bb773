package dto

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
)

func TestValidate_LoginRequest(t *testing.T) {
	tests := []struct {
		name    string
		request LoginRequest
		wantErr bool
	}{
		{"valid", LoginRequest{Email: "a@example.com", Password: "secret"}, false},
		{"missing email", LoginRequest{Password: "secret"}, true},
		{"malformed email", LoginRequest{Email: "not-an-email", Password: "secret"}, true},
		{"missing password", LoginRequest{Email: "a@example.com"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.request)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CreateAccountRequest(t *testing.T) {
	valid := CreateAccountRequest{
		Name:     "Main",
		Email:    "main@example.com",
		Password: "supersecret",
		Role:     "RESELLER",
	}

	if err := Validate(&valid); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	short := valid
	short.Password = "short"
	if err := Validate(&short); err == nil {
		t.Fatal("expected short password to be rejected")
	}

	badRole := valid
	badRole.Role = "OPERATOR"
	if err := Validate(&badRole); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateAccountRequest{
		Name:     "Main",
		Email:    "main@example.com",
		Password: "supersecret",
		Role:     "USER",
	}

	got := req.ToUseCaseInput()
	if got.Name != "Main" || got.Email != "main@example.com" || got.Role != domain.RoleUser {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}

func TestCreditRequest_ToUseCaseInput(t *testing.T) {
	req := &CreditRequest{
		UserID:      "u-1",
		Amount:      decimal.RequireFromString("12.34"),
		Description: "starter credit",
	}

	got := req.ToUseCaseInput()
	if got.TargetID != "u-1" || !got.Amount.Equal(decimal.RequireFromString("12.34")) || got.Description != "starter credit" {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}

func TestValidate_CreateBatchRequest(t *testing.T) {
	if err := Validate(&CreateBatchRequest{}); err == nil {
		t.Fatal("expected empty batch to be rejected")
	}

	tooMany := CreateBatchRequest{Rows: make([]BatchRowRequest, 501)}
	for i := range tooMany.Rows {
		tooMany.Rows[i] = BatchRowRequest{RateID: "rate-x"}
	}
	if err := Validate(&tooMany); err == nil {
		t.Fatal("expected oversized batch to be rejected")
	}

	missingRate := CreateBatchRequest{Rows: []BatchRowRequest{{LabelFormat: "PDF"}}}
	if err := Validate(&missingRate); err == nil {
		t.Fatal("expected row without rateId to be rejected")
	}

	valid := CreateBatchRequest{Rows: []BatchRowRequest{{RateID: "rate-1", LabelFormat: "PDF"}}}
	if err := Validate(&valid); err != nil {
		t.Fatalf("expected valid batch, got %v", err)
	}

	rows := valid.ToUseCaseInput()
	if len(rows) != 1 || rows[0].RateID != "rate-1" {
		t.Fatalf("ToUseCaseInput() = %+v", rows)
	}
}

func TestAddressRequest_ToDomain(t *testing.T) {
	req := &AddressRequest{
		Name:    "Warehouse",
		Street1: "100 Dock St",
		City:    "Oakland",
		State:   "CA",
		Zip:     "94607",
		Country: "US",
	}

	if err := Validate(req); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}

	got := req.ToDomain()
	if got.Street1 != "100 Dock St" || got.Country != "US" {
		t.Fatalf("ToDomain() = %+v", got)
	}

	req.Country = "USA"
	if err := Validate(req); err == nil {
		t.Fatal("expected three-letter country to be rejected")
	}
}
