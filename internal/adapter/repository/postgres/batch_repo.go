package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labelpay/labelpay/internal/domain"
)

const batchColumns = `id, account_id, status, total_rows, processed_rows, failed_rows, created_at, updated_at`

// BatchRepository implements usecase.BatchRepository.
type BatchRepository struct {
	pool *pgxpool.Pool
}

// NewBatchRepository creates a new BatchRepository.
func NewBatchRepository(pool *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{pool: pool}
}

// Create inserts a new batch.
func (r *BatchRepository) Create(ctx context.Context, batch *domain.Batch) error {
	query := `
		INSERT INTO batches (id, account_id, status, total_rows, processed_rows, failed_rows, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		batch.ID,
		batch.AccountID,
		string(batch.Status),
		batch.TotalRows,
		batch.ProcessedRows,
		batch.FailedRows,
		batch.CreatedAt,
		batch.UpdatedAt,
	)

	return err
}

// GetByID retrieves a batch by ID.
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`

	batch, err := scanBatch(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBatchNotFound
	}

	return batch, err
}

// UpdateProgress updates the row counters of a running batch.
func (r *BatchRepository) UpdateProgress(ctx context.Context, id string, processed, failed int, updatedAt time.Time) error {
	query := `UPDATE batches SET processed_rows = $2, failed_rows = $3, updated_at = $4 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, processed, failed, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}

	return nil
}

// UpdateStatus updates the status of a batch.
func (r *BatchRepository) UpdateStatus(ctx context.Context, id string, status domain.BatchStatus, updatedAt time.Time) error {
	query := `UPDATE batches SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}

	return nil
}

// ListByAccount retrieves batches owned by an account, newest first.
func (r *BatchRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*domain.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	return batches, rows.Err()
}

func scanBatch(row pgx.Row) (*domain.Batch, error) {
	var (
		batch  domain.Batch
		status string
	)

	err := row.Scan(
		&batch.ID,
		&batch.AccountID,
		&status,
		&batch.TotalRows,
		&batch.ProcessedRows,
		&batch.FailedRows,
		&batch.CreatedAt,
		&batch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	batch.Status = domain.BatchStatus(status)

	return &batch, nil
}
