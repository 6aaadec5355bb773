package usecase

import (
	"context"
	"time"

	"github.com/labelpay/labelpay/internal/domain"
)

// BatchUseCase drives bulk label purchases. Each row goes through the
// same purchase path as a single label, carrying the batch id so
// shipments reference their batch by foreign key.
type BatchUseCase struct {
	batchRepo    BatchRepository
	shipmentRepo ShipmentRepository
	accountRepo  AccountRepository
	labelUC      *LabelUseCase
	idGen        IDGenerator
}

// NewBatchUseCase creates a new BatchUseCase.
func NewBatchUseCase(batchRepo BatchRepository, shipmentRepo ShipmentRepository, accountRepo AccountRepository, labelUC *LabelUseCase, idGen IDGenerator) *BatchUseCase {
	return &BatchUseCase{
		batchRepo:    batchRepo,
		shipmentRepo: shipmentRepo,
		accountRepo:  accountRepo,
		labelUC:      labelUC,
		idGen:        idGen,
	}
}

// BatchRow is one label purchase within a batch.
type BatchRow struct {
	RateID      string
	LabelFormat string
}

// CreateBatch purchases labels for every row. Rows fail independently;
// the batch completes as long as it was not cancelled mid-run, and
// fails only when every row failed.
func (uc *BatchUseCase) CreateBatch(ctx context.Context, actor *domain.Account, rows []BatchRow) (*domain.Batch, error) {
	if actor == nil {
		return nil, domain.Authorize(nil, domain.OpViewShipment, nil)
	}

	now := time.Now().UTC()
	batch := &domain.Batch{
		ID:        uc.idGen.Generate(),
		AccountID: actor.ID,
		Status:    domain.BatchProcessing,
		TotalRows: len(rows),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	processed, failed := 0, 0
	for _, row := range rows {
		current, err := uc.batchRepo.GetByID(ctx, batch.ID)
		if err == nil && current.Status == domain.BatchCancelled {
			batch.Status = domain.BatchCancelled
			break
		}

		_, err = uc.labelUC.Purchase(ctx, actor, PurchaseInput{
			RateID:      row.RateID,
			LabelFormat: row.LabelFormat,
			BatchID:     &batch.ID,
		})
		if err != nil {
			failed++
		}
		processed++

		if err := uc.batchRepo.UpdateProgress(ctx, batch.ID, processed, failed, time.Now().UTC()); err != nil {
			return nil, err
		}
	}

	batch.ProcessedRows = processed
	batch.FailedRows = failed

	if batch.Status != domain.BatchCancelled {
		batch.Status = domain.BatchCompleted
		if len(rows) > 0 && failed == len(rows) {
			batch.Status = domain.BatchFailed
		}
	}

	batch.UpdatedAt = time.Now().UTC()
	if err := uc.batchRepo.UpdateStatus(ctx, batch.ID, batch.Status, batch.UpdatedAt); err != nil {
		return nil, err
	}

	return batch, nil
}

// GetBatch retrieves a batch, enforcing ownership visibility.
func (uc *BatchUseCase) GetBatch(ctx context.Context, actor *domain.Account, id string) (*domain.Batch, error) {
	batch, err := uc.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Visibility follows the shipment rules; resellers see batches of
	// accounts they created.
	owner, err := uc.accountRepo.GetByID(ctx, batch.AccountID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actor, domain.OpViewShipment, owner); err != nil {
		return nil, err
	}

	return batch, nil
}

// ListBatches lists the actor's own batches, newest first.
func (uc *BatchUseCase) ListBatches(ctx context.Context, actor *domain.Account, limit, offset int) ([]*domain.Batch, error) {
	if actor == nil {
		return nil, domain.Authorize(nil, domain.OpViewShipment, nil)
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.batchRepo.ListByAccount(ctx, actor.ID, limit, offset)
}

// Cancel stops a batch that is still processing.
func (uc *BatchUseCase) Cancel(ctx context.Context, actor *domain.Account, id string) (*domain.Batch, error) {
	batch, err := uc.GetBatch(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if batch.IsTerminal() {
		return nil, domain.ErrBatchNotActive
	}

	now := time.Now().UTC()
	if err := uc.batchRepo.UpdateStatus(ctx, id, domain.BatchCancelled, now); err != nil {
		return nil, err
	}

	batch.Status = domain.BatchCancelled
	batch.UpdatedAt = now

	return batch, nil
}

// ListBatchShipments lists the shipments a batch produced.
func (uc *BatchUseCase) ListBatchShipments(ctx context.Context, actor *domain.Account, batchID string) ([]*domain.Shipment, error) {
	if _, err := uc.GetBatch(ctx, actor, batchID); err != nil {
		return nil, err
	}

	return uc.shipmentRepo.ListByBatch(ctx, batchID)
}
