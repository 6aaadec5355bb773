package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

// AccountResponse represents an account in API responses. The password
// hash never appears here.
type AccountResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          domain.Role     `json:"role"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
	CreatorID     *string         `json:"creatorId,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Role:          a.Role,
		CreditBalance: a.CreditBalance,
		CreatorID:     a.CreatorID,
		Active:        a.Active,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// LoginResponse represents a login response.
type LoginResponse struct {
	Token   string           `json:"token"`
	Account *AccountResponse `json:"account"`
}

// TransactionResponse represents a ledger row in API responses.
type TransactionResponse struct {
	ID          string                 `json:"id"`
	AccountID   string                 `json:"accountId"`
	Kind        domain.TransactionKind `json:"kind"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description,omitempty"`
	ReferenceID *string                `json:"referenceId,omitempty"`
	CreatedByID string                 `json:"createdById"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Kind:        t.Kind,
		Amount:      t.Amount,
		Description: t.Description,
		ReferenceID: t.ReferenceID,
		CreatedByID: t.CreatedByID,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// CreditResponse represents the outcome of an assign or revoke call.
type CreditResponse struct {
	Success       bool                 `json:"success"`
	Transaction   *TransactionResponse `json:"transaction"`
	CreditBalance decimal.Decimal      `json:"creditBalance"`
}

// CreditFromResult converts a usecase credit result to a response. The
// transaction shown is the target's row; creditBalance is the target's
// balance after the event.
func CreditFromResult(result *usecase.CreditResult) *CreditResponse {
	return &CreditResponse{
		Success:       true,
		Transaction:   TransactionFromDomain(result.Transactions[0]),
		CreditBalance: result.TargetBalance,
	}
}

// RateResponse represents a carrier quote in API responses.
type RateResponse struct {
	ID            string          `json:"id"`
	Carrier       string          `json:"carrier"`
	Service       string          `json:"service"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	EstimatedDays int             `json:"estimatedDays,omitempty"`
}

// RatesFromDomain converts domain rates to responses.
func RatesFromDomain(rates []*domain.Rate) []*RateResponse {
	result := make([]*RateResponse, len(rates))
	for i, r := range rates {
		result[i] = &RateResponse{
			ID:            r.ID,
			Carrier:       r.Carrier,
			Service:       r.Service,
			Amount:        r.Amount,
			Currency:      r.Currency,
			EstimatedDays: r.EstimatedDays,
		}
	}
	return result
}

// ShipmentResponse represents a shipment in API responses.
type ShipmentResponse struct {
	ID                    string                `json:"id"`
	AccountID             string                `json:"accountId"`
	BatchID               *string               `json:"batchId,omitempty"`
	ProviderTransactionID string                `json:"providerTransactionId"`
	TrackingNumber        string                `json:"trackingNumber,omitempty"`
	LabelURL              string                `json:"labelUrl,omitempty"`
	Cost                  decimal.Decimal       `json:"cost"`
	Carrier               string                `json:"carrier"`
	Service               string                `json:"service"`
	AddressFrom           domain.Address        `json:"addressFrom"`
	AddressTo             domain.Address        `json:"addressTo"`
	Parcel                domain.Parcel         `json:"parcel"`
	Status                domain.ShipmentStatus `json:"status"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

// ShipmentFromDomain converts a domain shipment to a response.
func ShipmentFromDomain(s *domain.Shipment) *ShipmentResponse {
	return &ShipmentResponse{
		ID:                    s.ID,
		AccountID:             s.AccountID,
		BatchID:               s.BatchID,
		ProviderTransactionID: s.ProviderTransactionID,
		TrackingNumber:        s.TrackingNumber,
		LabelURL:              s.LabelURL,
		Cost:                  s.Cost,
		Carrier:               s.Carrier,
		Service:               s.Service,
		AddressFrom:           s.AddressFrom,
		AddressTo:             s.AddressTo,
		Parcel:                s.Parcel,
		Status:                s.Status,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

// ShipmentsFromDomain converts domain shipments to responses.
func ShipmentsFromDomain(shipments []*domain.Shipment) []*ShipmentResponse {
	result := make([]*ShipmentResponse, len(shipments))
	for i, s := range shipments {
		result[i] = ShipmentFromDomain(s)
	}
	return result
}

// PurchaseResponse represents a successful label purchase.
type PurchaseResponse struct {
	Success       bool                 `json:"success"`
	Shipment      *ShipmentResponse    `json:"shipment"`
	Transaction   *TransactionResponse `json:"transaction"`
	CreditBalance string               `json:"creditBalance"`
}

// RefundResponse represents a successful label refund.
type RefundResponse struct {
	Success       bool                 `json:"success"`
	Shipment      *ShipmentResponse    `json:"shipment"`
	Transaction   *TransactionResponse `json:"transaction"`
	CreditBalance string               `json:"creditBalance"`
}

// AddressValidationResponse represents the provider's verdict on an
// address.
type AddressValidationResponse struct {
	IsValid  bool     `json:"isValid"`
	Messages []string `json:"messages,omitempty"`
}

// BatchResponse represents a batch in API responses.
type BatchResponse struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"accountId"`
	Status        domain.BatchStatus `json:"status"`
	TotalRows     int                `json:"totalRows"`
	ProcessedRows int                `json:"processedRows"`
	FailedRows    int                `json:"failedRows"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// BatchFromDomain converts a domain batch to a response.
func BatchFromDomain(b *domain.Batch) *BatchResponse {
	return &BatchResponse{
		ID:            b.ID,
		AccountID:     b.AccountID,
		Status:        b.Status,
		TotalRows:     b.TotalRows,
		ProcessedRows: b.ProcessedRows,
		FailedRows:    b.FailedRows,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// BatchesFromDomain converts domain batches to responses.
func BatchesFromDomain(batches []*domain.Batch) []*BatchResponse {
	result := make([]*BatchResponse, len(batches))
	for i, b := range batches {
		result[i] = BatchFromDomain(b)
	}
	return result
}

// ReconciliationResponse represents one account's reconciliation check.
type ReconciliationResponse struct {
	AccountID         string          `json:"accountId"`
	RecordedBalance   decimal.Decimal `json:"recordedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"isReconciled"`
	LastChecked       time.Time       `json:"lastChecked"`
}

// ReconciliationFromResult converts a usecase result to a response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ErrorResponse represents an error in API responses. Code is a stable
// machine-readable error class; Message is human-readable detail.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
