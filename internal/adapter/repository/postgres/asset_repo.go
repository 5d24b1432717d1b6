package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/boglefolio/internal/domain"
)

// AssetRepository implements asset persistence.
type AssetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates a new asset repository.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

// Create inserts a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, symbol, name, currency, data_source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.Symbol,
		asset.Name,
		asset.Currency,
		asset.DataSource,
		asset.CreatedAt,
		asset.UpdatedAt,
	)

	return err
}

// GetByID retrieves an asset by ID.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `
		SELECT id, symbol, name, currency, data_source, created_at, updated_at
		FROM assets
		WHERE id = $1
	`

	asset, err := r.scanOne(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// GetBySymbol retrieves an asset by symbol. Returns (nil, nil) when no asset
// has the symbol.
func (r *AssetRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	query := `
		SELECT id, symbol, name, currency, data_source, created_at, updated_at
		FROM assets
		WHERE symbol = $1
	`

	asset, err := r.scanOne(r.pool.QueryRow(ctx, query, symbol))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// List retrieves assets with pagination.
func (r *AssetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Asset, error) {
	query := `
		SELECT id, symbol, name, currency, data_source, created_at, updated_at
		FROM assets
		ORDER BY symbol
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		var asset domain.Asset
		err := rows.Scan(
			&asset.ID,
			&asset.Symbol,
			&asset.Name,
			&asset.Currency,
			&asset.DataSource,
			&asset.CreatedAt,
			&asset.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		assets = append(assets, &asset)
	}

	return assets, rows.Err()
}

// Update updates an asset.
func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET name = $2, currency = $3, data_source = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.Name,
		asset.Currency,
		asset.DataSource,
		asset.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}

	return nil
}

// Delete deletes an asset.
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM assets WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Count returns the number of assets.
func (r *AssetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assets`).Scan(&count)
	return count, err
}

func (r *AssetRepository) scanOne(row pgx.Row) (*domain.Asset, error) {
	var asset domain.Asset
	err := row.Scan(
		&asset.ID,
		&asset.Symbol,
		&asset.Name,
		&asset.Currency,
		&asset.DataSource,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &asset, nil
}
