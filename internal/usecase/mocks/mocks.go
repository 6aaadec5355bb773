package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdatePasswordFunc    func(ctx context.Context, id string, hashedPassword string, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByCreatorFunc     func(ctx context.Context, creatorID string, limit, offset int) ([]*domain.Account, error)
	ListIDsByCreatorFunc  func(ctx context.Context, creatorID string) ([]string, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed inserts accounts directly into the in-memory store.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Email == email {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			copied := *acc
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.CreditBalance = balance
		acc.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrAccountNotFound
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id string, hashedPassword string, updatedAt time.Time) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, hashedPassword, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.HashedPassword = hashedPassword
		acc.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		copied := *acc
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListByCreatorFunc != nil {
		return m.ListByCreatorFunc(ctx, creatorID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.ID == creatorID || acc.IsCreatedBy(creatorID) {
			copied := *acc
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListIDsByCreator(ctx context.Context, creatorID string) ([]string, error) {
	if m.ListIDsByCreatorFunc != nil {
		return m.ListIDsByCreatorFunc(ctx, creatorID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for _, acc := range m.accounts {
		if acc.IsCreatedBy(creatorID) {
			ids = append(ids, acc.ID)
		}
	}
	return ids, nil
}

// Balance returns the current in-memory balance for assertions.
func (m *MockAccountRepository) Balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc.CreditBalance
	}
	return decimal.Zero
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Transaction, error)
	ListFunc         func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	SumByAccountFunc func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Enforce the (kind, reference_id) uniqueness the database carries.
	if txn.ReferenceID != nil {
		for _, existing := range m.transactions {
			if existing.Kind == txn.Kind && existing.ReferenceID != nil && *existing.ReferenceID == *txn.ReferenceID {
				return domain.ErrDuplicateReference
			}
		}
	}
	m.transactions = append(m.transactions, txn)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.transactions {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	scope := map[string]bool{}
	for _, id := range filter.AccountIDs {
		scope[id] = true
	}

	var result []*domain.Transaction
	for _, txn := range m.transactions {
		if len(scope) > 0 && !scope[txn.AccountID] {
			continue
		}
		if filter.Kind != nil && txn.Kind != *filter.Kind {
			continue
		}
		result = append(result, txn)
	}
	return result, nil
}

func (m *MockTransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range m.transactions {
		if txn.AccountID == accountID {
			sum = sum.Add(txn.SignedAmount())
		}
	}
	return sum, nil
}

// All returns every recorded row for assertions.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transaction(nil), m.transactions...)
}

// MockShipmentRepository is a mock implementation of ShipmentRepository.
type MockShipmentRepository struct {
	mu        sync.RWMutex
	shipments map[string]*domain.Shipment

	CreateFunc                              func(ctx context.Context, tx usecase.Transaction, shipment *domain.Shipment) error
	GetByIDFunc                             func(ctx context.Context, id string) (*domain.Shipment, error)
	GetByProviderTransactionIDFunc          func(ctx context.Context, providerTxID string) (*domain.Shipment, error)
	GetByProviderTransactionIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, providerTxID string) (*domain.Shipment, error)
	UpdateStatusFunc                        func(ctx context.Context, tx usecase.Transaction, id string, status domain.ShipmentStatus, updatedAt time.Time) error
	ListByAccountsFunc                      func(ctx context.Context, accountIDs []string, limit, offset int) ([]*domain.Shipment, error)
	ListByBatchFunc                         func(ctx context.Context, batchID string) ([]*domain.Shipment, error)
}

func NewMockShipmentRepository() *MockShipmentRepository {
	return &MockShipmentRepository{shipments: make(map[string]*domain.Shipment)}
}

func (m *MockShipmentRepository) Seed(shipments ...*domain.Shipment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range shipments {
		m.shipments[s.ID] = s
	}
}

func (m *MockShipmentRepository) Create(ctx context.Context, tx usecase.Transaction, shipment *domain.Shipment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, shipment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.shipments {
		if existing.ProviderTransactionID == shipment.ProviderTransactionID {
			return domain.ErrDuplicateReference
		}
	}
	m.shipments[shipment.ID] = shipment
	return nil
}

func (m *MockShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.shipments[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrShipmentNotFound
}

func (m *MockShipmentRepository) GetByProviderTransactionID(ctx context.Context, providerTxID string) (*domain.Shipment, error) {
	if m.GetByProviderTransactionIDFunc != nil {
		return m.GetByProviderTransactionIDFunc(ctx, providerTxID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.shipments {
		if s.ProviderTransactionID == providerTxID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, domain.ErrShipmentNotFound
}

func (m *MockShipmentRepository) GetByProviderTransactionIDForUpdate(ctx context.Context, tx usecase.Transaction, providerTxID string) (*domain.Shipment, error) {
	if m.GetByProviderTransactionIDForUpdateFunc != nil {
		return m.GetByProviderTransactionIDForUpdateFunc(ctx, tx, providerTxID)
	}
	return m.GetByProviderTransactionID(ctx, providerTxID)
}

func (m *MockShipmentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ShipmentStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shipments[id]; ok {
		s.Status = status
		s.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrShipmentNotFound
}

func (m *MockShipmentRepository) ListByAccounts(ctx context.Context, accountIDs []string, limit, offset int) ([]*domain.Shipment, error) {
	if m.ListByAccountsFunc != nil {
		return m.ListByAccountsFunc(ctx, accountIDs, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	scope := map[string]bool{}
	for _, id := range accountIDs {
		scope[id] = true
	}

	var result []*domain.Shipment
	for _, s := range m.shipments {
		if len(scope) > 0 && !scope[s.AccountID] {
			continue
		}
		copied := *s
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockShipmentRepository) ListByBatch(ctx context.Context, batchID string) ([]*domain.Shipment, error) {
	if m.ListByBatchFunc != nil {
		return m.ListByBatchFunc(ctx, batchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Shipment
	for _, s := range m.shipments {
		if s.BatchID != nil && *s.BatchID == batchID {
			copied := *s
			result = append(result, &copied)
		}
	}
	return result, nil
}

// MockBatchRepository is a mock implementation of BatchRepository.
type MockBatchRepository struct {
	mu      sync.RWMutex
	batches map[string]*domain.Batch

	CreateFunc         func(ctx context.Context, batch *domain.Batch) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Batch, error)
	UpdateProgressFunc func(ctx context.Context, id string, processed, failed int, updatedAt time.Time) error
	UpdateStatusFunc   func(ctx context.Context, id string, status domain.BatchStatus, updatedAt time.Time) error
	ListByAccountFunc  func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Batch, error)
}

func NewMockBatchRepository() *MockBatchRepository {
	return &MockBatchRepository{batches: make(map[string]*domain.Batch)}
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *domain.Batch) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, batch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *batch
	m.batches[batch.ID] = &copied
	return nil
}

func (m *MockBatchRepository) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.batches[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, domain.ErrBatchNotFound
}

func (m *MockBatchRepository) UpdateProgress(ctx context.Context, id string, processed, failed int, updatedAt time.Time) error {
	if m.UpdateProgressFunc != nil {
		return m.UpdateProgressFunc(ctx, id, processed, failed, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.batches[id]; ok {
		b.ProcessedRows = processed
		b.FailedRows = failed
		b.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrBatchNotFound
}

func (m *MockBatchRepository) UpdateStatus(ctx context.Context, id string, status domain.BatchStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.batches[id]; ok {
		b.Status = status
		b.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrBatchNotFound
}

func (m *MockBatchRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Batch, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Batch
	for _, b := range m.batches {
		if b.AccountID == accountID {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

// MockShippingProvider is a mock implementation of ShippingProvider.
type MockShippingProvider struct {
	GetRatesFunc        func(ctx context.Context, from, to domain.Address, parcel domain.Parcel) ([]*domain.Rate, error)
	ValidateAddressFunc func(ctx context.Context, address domain.Address) (*domain.AddressValidation, error)
	PurchaseFunc        func(ctx context.Context, rateID, labelFormat string) (*domain.ProviderLabel, error)
	RefundFunc          func(ctx context.Context, providerTxID string) error

	mu          sync.Mutex
	RefundCalls []string
}

func NewMockShippingProvider() *MockShippingProvider {
	return &MockShippingProvider{}
}

func (m *MockShippingProvider) GetRates(ctx context.Context, from, to domain.Address, parcel domain.Parcel) ([]*domain.Rate, error) {
	if m.GetRatesFunc != nil {
		return m.GetRatesFunc(ctx, from, to, parcel)
	}
	return nil, nil
}

func (m *MockShippingProvider) ValidateAddress(ctx context.Context, address domain.Address) (*domain.AddressValidation, error) {
	if m.ValidateAddressFunc != nil {
		return m.ValidateAddressFunc(ctx, address)
	}
	return &domain.AddressValidation{IsValid: true}, nil
}

func (m *MockShippingProvider) Purchase(ctx context.Context, rateID, labelFormat string) (*domain.ProviderLabel, error) {
	if m.PurchaseFunc != nil {
		return m.PurchaseFunc(ctx, rateID, labelFormat)
	}
	return nil, domain.ErrRateNotFound
}

func (m *MockShippingProvider) Refund(ctx context.Context, providerTxID string) error {
	m.mu.Lock()
	m.RefundCalls = append(m.RefundCalls, providerTxID)
	m.mu.Unlock()
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, providerTxID)
	}
	return nil
}

// MockTransaction is a mock database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu   sync.Mutex
	Last *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Last = &MockTransaction{}
	return m.Last, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + strconv.Itoa(m.counter)
}
