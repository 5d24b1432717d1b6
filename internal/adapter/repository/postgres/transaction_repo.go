package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/usecase"
)

const transactionColumns = `id, account_id, asset_id, type, quantity, price, fee, occurred_at, created_at, updated_at`

// TransactionRepository implements transaction persistence.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(pool *pgxpool.Pool, retrier *Retrier) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		retrier: retrier,
	}
}

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, insertTransactionSQL, insertTransactionArgs(txn)...)
		return err
	})
}

// CreateTx inserts a new transaction within a database transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, insertTransactionSQL, insertTransactionArgs(txn)...)
	return err
}

// UpdateTx updates the mutable fields of a transaction within a database
// transaction.
func (r *TransactionRepository) UpdateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET quantity = $2, price = $3, fee = $4, updated_at = $5
		WHERE id = $1
	`

	_, err = pgxTx.Exec(ctx, query,
		txn.ID,
		txn.Quantity,
		txn.Price,
		txn.Fee,
		txn.UpdatedAt,
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// FindByNaturalKey retrieves the transaction matching the full natural key.
// Returns (nil, nil) when no transaction matches. Decimal columns are
// compared numerically, so textual variants of the same value match.
func (r *TransactionRepository) FindByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		  AND asset_id = $2
		  AND type = $3
		  AND quantity = $4
		  AND price = $5
		  AND fee = $6
		  AND occurred_at = $7
		LIMIT 1
	`

	txn, err := scanTransaction(r.pool.QueryRow(ctx, query,
		key.AccountID,
		key.AssetID,
		key.Type,
		key.Quantity,
		key.Price,
		key.Fee,
		key.OccurredAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// List retrieves transactions with pagination, newest first.
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListRecent retrieves the most recently recorded transactions.
func (r *TransactionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Delete deletes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM transactions WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Count returns the number of transactions.
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	return count, err
}

const insertTransactionSQL = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func insertTransactionArgs(txn *domain.Transaction) []any {
	return []any{
		txn.ID,
		txn.AccountID,
		txn.AssetID,
		txn.Type,
		txn.Quantity,
		txn.Price,
		txn.Fee,
		txn.OccurredAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&txn.AssetID,
		&txn.Type,
		&txn.Quantity,
		&txn.Price,
		&txn.Fee,
		&txn.OccurredAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
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

func unwrapTx(tx usecase.Transaction) (pgx.Tx, error) {
	wrapped, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", tx)
	}

	return wrapped.PgxTx(), nil
}
