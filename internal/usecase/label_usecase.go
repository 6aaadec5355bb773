package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/labelpay/labelpay/internal/domain"
)

// LabelUseCase bridges the credit ledger with the external shipping
// provider. Balance mutations are applied only after the provider call's
// result is known, and never twice for one provider transaction id.
type LabelUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	txnRepo      TransactionRepository
	shipmentRepo ShipmentRepository
	provider     ShippingProvider
	idGen        IDGenerator
	logger       zerolog.Logger
}

// NewLabelUseCase creates a new LabelUseCase.
func NewLabelUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	shipmentRepo ShipmentRepository,
	provider ShippingProvider,
	idGen IDGenerator,
	logger zerolog.Logger,
) *LabelUseCase {
	return &LabelUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		shipmentRepo: shipmentRepo,
		provider:     provider,
		idGen:        idGen,
		logger:       logger,
	}
}

// GetRates quotes carrier rates for a shipment.
func (uc *LabelUseCase) GetRates(ctx context.Context, actor *domain.Account, from, to domain.Address, parcel domain.Parcel) ([]*domain.Rate, error) {
	if actor == nil {
		return nil, domain.Authorize(nil, domain.OpViewShipment, nil)
	}

	rates, err := uc.provider.GetRates(ctx, from, to, parcel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	return rates, nil
}

// ValidateAddress asks the provider to verify a postal address.
func (uc *LabelUseCase) ValidateAddress(ctx context.Context, actor *domain.Account, address domain.Address) (*domain.AddressValidation, error) {
	if actor == nil {
		return nil, domain.Authorize(nil, domain.OpViewShipment, nil)
	}

	result, err := uc.provider.ValidateAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	return result, nil
}

// PurchaseInput represents input for purchasing a label.
type PurchaseInput struct {
	RateID      string
	LabelFormat string
	BatchID     *string
}

// PurchaseResult reports a successful label purchase.
type PurchaseResult struct {
	Shipment      *domain.Shipment
	Transaction   *domain.Transaction
	CreditBalance string
}

// Purchase materializes a label from a quoted rate, then debits the
// actor and records the LABEL_PURCHASE row and the shipment in one
// database transaction. If the debit cannot be applied after the
// provider purchase succeeded, a compensating refund is requested from
// the provider so no label exists without a matching debit.
func (uc *LabelUseCase) Purchase(ctx context.Context, actor *domain.Account, input PurchaseInput) (*PurchaseResult, error) {
	if actor == nil {
		return nil, domain.Authorize(nil, domain.OpViewShipment, nil)
	}

	if input.RateID == "" {
		return nil, fmt.Errorf("%w: missing rate id", domain.ErrRateNotFound)
	}

	if input.LabelFormat == "" {
		input.LabelFormat = DefaultLabelFormat
	}

	label, err := uc.provider.Purchase(ctx, input.RateID, input.LabelFormat)
	if err != nil {
		// No mutation has happened; the caller just sees the provider
		// error. Ambiguous responses count as not-purchased.
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	result, err := uc.settlePurchase(ctx, actor, input, label)
	if err != nil {
		uc.compensate(ctx, actor.ID, label.TransactionID, err)
		return nil, err
	}

	return result, nil
}

// settlePurchase applies the debit, the ledger row and the shipment row
// as one unit.
func (uc *LabelUseCase) settlePurchase(ctx context.Context, actor *domain.Account, input PurchaseInput, label *domain.ProviderLabel) (*PurchaseResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDebit(label.Cost); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	shipment := &domain.Shipment{
		ID:                    uc.idGen.Generate(),
		AccountID:             account.ID,
		BatchID:               input.BatchID,
		ProviderTransactionID: label.TransactionID,
		ProviderObjectID:      label.ObjectID,
		TrackingNumber:        label.TrackingNumber,
		LabelURL:              label.LabelURL,
		Cost:                  label.Cost,
		Carrier:               label.Carrier,
		Service:               label.Service,
		AddressFrom:           label.AddressFrom,
		AddressTo:             label.AddressTo,
		Parcel:                label.Parcel,
		Status:                domain.ShipmentPurchased,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := uc.shipmentRepo.Create(ctx, tx, shipment); err != nil {
		return nil, err
	}

	ref := label.TransactionID
	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		Kind:        domain.KindLabelPurchase,
		Amount:      label.Cost,
		Description: fmt.Sprintf("label purchase %s %s", label.Carrier, label.Service),
		ReferenceID: &ref,
		CreatedByID: actor.ID,
		CreatedAt:   now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	newBalance := account.ApplyDebit(label.Cost)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &PurchaseResult{
		Shipment:      shipment,
		Transaction:   txn,
		CreditBalance: newBalance.String(),
	}, nil
}

// compensate reverses a provider purchase whose debit could not be
// recorded. If the provider refund also fails the books and the
// provider disagree, which must page a human, not vanish into a 500.
func (uc *LabelUseCase) compensate(ctx context.Context, accountID, providerTxID string, cause error) {
	if refundErr := uc.provider.Refund(ctx, providerTxID); refundErr != nil {
		uc.logger.Error().
			Str("alert", "ledger_provider_inconsistency").
			Str("account_id", accountID).
			Str("provider_transaction_id", providerTxID).
			AnErr("settle_error", cause).
			AnErr("refund_error", refundErr).
			Msg("label purchased at provider but debit not recorded; manual reconciliation required")
		return
	}

	uc.logger.Warn().
		Str("account_id", accountID).
		Str("provider_transaction_id", providerTxID).
		AnErr("settle_error", cause).
		Msg("compensating provider refund issued after failed settlement")
}

// RefundResult reports a successful label refund.
type RefundResult struct {
	Shipment      *domain.Shipment
	Transaction   *domain.Transaction
	CreditBalance string
}

// Refund reverses a purchased label: the provider refund is requested
// first, then the owner's credit and the LABEL_REFUND row and the
// status transition commit together. Retries against an already
// refunded shipment fail with a conflict and never double-credit.
func (uc *LabelUseCase) Refund(ctx context.Context, actor *domain.Account, providerTxID string) (*RefundResult, error) {
	shipment, err := uc.shipmentRepo.GetByProviderTransactionID(ctx, providerTxID)
	if err != nil {
		return nil, err
	}

	owner, err := uc.accountRepo.GetByID(ctx, shipment.AccountID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actor, domain.OpRefundLabel, owner); err != nil {
		return nil, err
	}

	if err := shipment.ValidateRefund(); err != nil {
		return nil, err
	}

	if err := uc.provider.Refund(ctx, providerTxID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	result, err := uc.settleRefund(ctx, actor, providerTxID)
	if err != nil {
		// The provider accepted the refund but the credit was not
		// recorded. This is the one state that demands active
		// reconciliation rather than silent loss.
		uc.logger.Error().
			Str("alert", "ledger_provider_inconsistency").
			Str("account_id", shipment.AccountID).
			Str("provider_transaction_id", providerTxID).
			AnErr("settle_error", err).
			Msg("provider refund succeeded but credit not recorded; manual reconciliation required")
		return nil, err
	}

	return result, nil
}

func (uc *LabelUseCase) settleRefund(ctx context.Context, actor *domain.Account, providerTxID string) (*RefundResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	shipment, err := uc.shipmentRepo.GetByProviderTransactionIDForUpdate(ctx, tx, providerTxID)
	if err != nil {
		return nil, err
	}

	// Re-checked under the row lock: a concurrent refund that won the
	// race flips the status first and this call conflicts.
	if err := shipment.ValidateRefund(); err != nil {
		return nil, err
	}

	owner, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, shipment.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	ref := providerTxID
	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   owner.ID,
		Kind:        domain.KindLabelRefund,
		Amount:      shipment.Cost,
		Description: fmt.Sprintf("label refund %s %s", shipment.Carrier, shipment.Service),
		ReferenceID: &ref,
		CreatedByID: actor.ID,
		CreatedAt:   now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	newBalance := owner.ApplyCredit(shipment.Cost)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, owner.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.shipmentRepo.UpdateStatus(ctx, tx, shipment.ID, domain.ShipmentRefunded, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	shipment.Status = domain.ShipmentRefunded
	shipment.UpdatedAt = now

	return &RefundResult{
		Shipment:      shipment,
		Transaction:   txn,
		CreditBalance: newBalance.String(),
	}, nil
}

// GetShipment retrieves a shipment, enforcing visibility.
func (uc *LabelUseCase) GetShipment(ctx context.Context, actor *domain.Account, id string) (*domain.Shipment, error) {
	shipment, err := uc.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := uc.accountRepo.GetByID(ctx, shipment.AccountID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actor, domain.OpViewShipment, owner); err != nil {
		return nil, err
	}

	return shipment, nil
}

// ListShipments lists shipments visible to the actor.
func (uc *LabelUseCase) ListShipments(ctx context.Context, actor *domain.Account, limit, offset int) ([]*domain.Shipment, error) {
	if actor == nil {
		return nil, domain.Authorize(nil, domain.OpViewShipment, nil)
	}

	scope, err := visibleAccountIDs(ctx, uc.accountRepo, actor)
	if err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.shipmentRepo.ListByAccounts(ctx, scope, limit, offset)
}
