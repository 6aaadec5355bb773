package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdatePassword(ctx context.Context, id string, hashedPassword string, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*domain.Account, error)
	ListIDsByCreator(ctx context.Context, creatorID string) ([]string, error)
}

// TransactionRepository defines data access for the append-only ledger.
// Rows are only ever inserted, never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// ShipmentRepository defines data access for shipments.
type ShipmentRepository interface {
	Create(ctx context.Context, tx Transaction, shipment *domain.Shipment) error
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	GetByProviderTransactionID(ctx context.Context, providerTxID string) (*domain.Shipment, error)
	GetByProviderTransactionIDForUpdate(ctx context.Context, tx Transaction, providerTxID string) (*domain.Shipment, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.ShipmentStatus, updatedAt time.Time) error
	ListByAccounts(ctx context.Context, accountIDs []string, limit, offset int) ([]*domain.Shipment, error)
	ListByBatch(ctx context.Context, batchID string) ([]*domain.Shipment, error)
}

// BatchRepository defines data access for bulk-upload jobs.
type BatchRepository interface {
	Create(ctx context.Context, batch *domain.Batch) error
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
	UpdateProgress(ctx context.Context, id string, processed, failed int, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.BatchStatus, updatedAt time.Time) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Batch, error)
}

// ShippingProvider is the external rate/label/refund service.
type ShippingProvider interface {
	GetRates(ctx context.Context, from, to domain.Address, parcel domain.Parcel) ([]*domain.Rate, error)
	ValidateAddress(ctx context.Context, address domain.Address) (*domain.AddressValidation, error)
	// Purchase materializes a label from a previously quoted rate. It is
	// never retried automatically: an ambiguous response must be treated
	// as not-purchased and left to reconciliation.
	Purchase(ctx context.Context, rateID, labelFormat string) (*domain.ProviderLabel, error)
	Refund(ctx context.Context, providerTxID string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient database errors such as
// deadlocks and serialization failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a claimed key so the request can be retried.
	Delete(ctx context.Context, key string) error
}
