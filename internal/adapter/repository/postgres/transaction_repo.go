package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

const transactionColumns = `id, account_id, kind, amount, description, reference_id, created_by_id, created_at`

// TransactionRepository implements usecase.TransactionRepository. The
// transactions table is append-only; there are no update or delete
// statements here on purpose.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a ledger row inside the caller's transaction. The
// partial unique index on (kind, reference_id) turns a replayed label
// purchase or refund into ErrDuplicateReference.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		INSERT INTO transactions (id, account_id, kind, amount, description, reference_id, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.AccountID,
		string(txn.Kind),
		decimalToNumeric(txn.Amount),
		txn.Description,
		txn.ReferenceID,
		txn.CreatedByID,
		txn.CreatedAt,
	)

	if isUniqueViolation(err) {
		return domain.ErrDuplicateReference
	}

	return err
}

// GetByID retrieves a ledger row by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}

	return txn, err
}

// List retrieves ledger rows matching the filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`

	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.AccountIDs) > 0 {
		query += ` AND account_id = ANY(` + arg(filter.AccountIDs) + `)`
	}
	if filter.Kind != nil {
		query += ` AND kind = ` + arg(string(*filter.Kind))
	}
	if filter.From != nil {
		query += ` AND created_at >= ` + arg(*filter.From)
	}
	if filter.To != nil {
		query += ` AND created_at < ` + arg(*filter.To)
	}

	query += ` ORDER BY created_at DESC LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// SumByAccount computes the signed sum of an account's ledger rows.
// CREDIT_ASSIGN and LABEL_REFUND count positive, CREDIT_REVOKE and
// LABEL_PURCHASE negative.
func (r *TransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN kind IN ('CREDIT_ASSIGN', 'LABEL_REFUND') THEN amount ELSE -amount END
		), 0)
		FROM transactions
		WHERE account_id = $1
	`

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn    domain.Transaction
		kind   string
		amount pgtype.Numeric
	)

	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&kind,
		&amount,
		&txn.Description,
		&txn.ReferenceID,
		&txn.CreatedByID,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Kind = domain.TransactionKind(kind)
	txn.Amount = numericToDecimal(amount)

	return &txn, nil
}
