package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

const shipmentColumns = `id, account_id, batch_id, provider_transaction_id, provider_object_id, tracking_number, label_url, cost, carrier, service, address_from, address_to, parcel, status, created_at, updated_at`

// ShipmentRepository implements usecase.ShipmentRepository. Address and
// parcel snapshots are stored as jsonb; they are frozen at purchase time
// and never queried by field.
type ShipmentRepository struct {
	pool *pgxpool.Pool
}

// NewShipmentRepository creates a new ShipmentRepository.
func NewShipmentRepository(pool *pgxpool.Pool) *ShipmentRepository {
	return &ShipmentRepository{pool: pool}
}

// Create inserts a shipment inside the caller's transaction. The unique
// index on provider_transaction_id rejects a second shipment for the
// same provider purchase.
func (r *ShipmentRepository) Create(ctx context.Context, tx usecase.Transaction, shipment *domain.Shipment) error {
	pgxTx := tx.(*Tx).PgxTx()

	addressFrom, err := json.Marshal(shipment.AddressFrom)
	if err != nil {
		return err
	}
	addressTo, err := json.Marshal(shipment.AddressTo)
	if err != nil {
		return err
	}
	parcel, err := json.Marshal(shipment.Parcel)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO shipments (id, account_id, batch_id, provider_transaction_id, provider_object_id, tracking_number, label_url, cost, carrier, service, address_from, address_to, parcel, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = pgxTx.Exec(ctx, query,
		shipment.ID,
		shipment.AccountID,
		shipment.BatchID,
		shipment.ProviderTransactionID,
		shipment.ProviderObjectID,
		shipment.TrackingNumber,
		shipment.LabelURL,
		decimalToNumeric(shipment.Cost),
		shipment.Carrier,
		shipment.Service,
		addressFrom,
		addressTo,
		parcel,
		string(shipment.Status),
		shipment.CreatedAt,
		shipment.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return domain.ErrDuplicateReference
	}

	return err
}

// GetByID retrieves a shipment by ID.
func (r *ShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`

	shipment, err := scanShipment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrShipmentNotFound
	}

	return shipment, err
}

// GetByProviderTransactionID retrieves a shipment by its provider
// transaction id.
func (r *ShipmentRepository) GetByProviderTransactionID(ctx context.Context, providerTxID string) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE provider_transaction_id = $1`

	shipment, err := scanShipment(r.pool.QueryRow(ctx, query, providerTxID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrShipmentNotFound
	}

	return shipment, err
}

// GetByProviderTransactionIDForUpdate locks the shipment row for the
// refund settlement; concurrent refunds of the same label serialize
// here.
func (r *ShipmentRepository) GetByProviderTransactionIDForUpdate(ctx context.Context, tx usecase.Transaction, providerTxID string) (*domain.Shipment, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE provider_transaction_id = $1 FOR UPDATE`

	shipment, err := scanShipment(pgxTx.QueryRow(ctx, query, providerTxID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrShipmentNotFound
	}

	return shipment, err
}

// UpdateStatus updates the status of a shipment.
func (r *ShipmentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ShipmentStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `UPDATE shipments SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrShipmentNotFound
	}

	return nil
}

// ListByAccounts retrieves shipments for a visibility scope, newest
// first. An empty scope means unrestricted.
func (r *ShipmentRepository) ListByAccounts(ctx context.Context, accountIDs []string, limit, offset int) ([]*domain.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments
		WHERE ($1::text[] IS NULL OR account_id = ANY($1))
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var scope any
	if len(accountIDs) > 0 {
		scope = accountIDs
	}

	return r.queryShipments(ctx, query, scope, limit, offset)
}

// ListByBatch retrieves every shipment a batch produced.
func (r *ShipmentRepository) ListByBatch(ctx context.Context, batchID string) ([]*domain.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments
		WHERE batch_id = $1
		ORDER BY created_at ASC
	`

	return r.queryShipments(ctx, query, batchID)
}

func (r *ShipmentRepository) queryShipments(ctx context.Context, query string, args ...any) ([]*domain.Shipment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shipments []*domain.Shipment
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, shipment)
	}

	return shipments, rows.Err()
}

func scanShipment(row pgx.Row) (*domain.Shipment, error) {
	var (
		shipment    domain.Shipment
		cost        pgtype.Numeric
		status      string
		addressFrom []byte
		addressTo   []byte
		parcel      []byte
	)

	err := row.Scan(
		&shipment.ID,
		&shipment.AccountID,
		&shipment.BatchID,
		&shipment.ProviderTransactionID,
		&shipment.ProviderObjectID,
		&shipment.TrackingNumber,
		&shipment.LabelURL,
		&cost,
		&shipment.Carrier,
		&shipment.Service,
		&addressFrom,
		&addressTo,
		&parcel,
		&status,
		&shipment.CreatedAt,
		&shipment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	shipment.Cost = numericToDecimal(cost)
	shipment.Status = domain.ShipmentStatus(status)

	if err := json.Unmarshal(addressFrom, &shipment.AddressFrom); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addressTo, &shipment.AddressTo); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(parcel, &shipment.Parcel); err != nil {
		return nil, err
	}

	return &shipment, nil
}
