package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/boglefolio/internal/domain"
)

// AssetUseCase handles asset business logic and quote lookups.
type AssetUseCase struct {
	assetRepo  AssetRepository
	quotes     QuoteProvider
	quoteCache Cache
	cacheTTL   time.Duration
	idGen      IDGenerator
	logger     zerolog.Logger
}

// NewAssetUseCase creates a new AssetUseCase.
func NewAssetUseCase(
	assetRepo AssetRepository,
	quotes QuoteProvider,
	quoteCache Cache,
	cacheTTL time.Duration,
	idGen IDGenerator,
	logger zerolog.Logger,
) *AssetUseCase {
	return &AssetUseCase{
		assetRepo:  assetRepo,
		quotes:     quotes,
		quoteCache: quoteCache,
		cacheTTL:   cacheTTL,
		idGen:      idGen,
		logger:     logger,
	}
}

// CreateAssetInput represents input for creating an asset.
type CreateAssetInput struct {
	Symbol     string
	Name       string
	Currency   string
	DataSource domain.DataSource
}

// CreateAsset creates a new asset. The symbol must be unique.
func (uc *AssetUseCase) CreateAsset(ctx context.Context, input CreateAssetInput) (*domain.Asset, error) {
	if err := domain.ValidateSymbol(input.Symbol); err != nil {
		return nil, err
	}

	if input.Currency == "" {
		input.Currency = "USD"
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if input.DataSource == "" {
		input.DataSource = domain.DataSourceYahoo
	}

	if !input.DataSource.IsValid() {
		return nil, domain.ErrInvalidDataSource
	}

	existing, err := uc.assetRepo.GetBySymbol(ctx, input.Symbol)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, domain.ErrDuplicateSymbol
	}

	now := time.Now().UTC()

	asset := &domain.Asset{
		ID:         uc.idGen.Generate(),
		Symbol:     input.Symbol,
		Name:       input.Name,
		Currency:   input.Currency,
		DataSource: input.DataSource,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// GetAsset retrieves an asset by ID.
func (uc *AssetUseCase) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	return uc.assetRepo.GetByID(ctx, id)
}

// ListAssetsInput represents input for listing assets.
type ListAssetsInput struct {
	Limit  int
	Offset int
}

// ListAssets lists assets with pagination.
func (uc *AssetUseCase) ListAssets(ctx context.Context, input ListAssetsInput) ([]*domain.Asset, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.assetRepo.List(ctx, limit, offset)
}

// UpdateAssetInput represents input for a partial asset update.
type UpdateAssetInput struct {
	ID         string
	Name       *string
	Currency   *string
	DataSource *domain.DataSource
}

// UpdateAsset applies a partial update to an asset.
func (uc *AssetUseCase) UpdateAsset(ctx context.Context, input UpdateAssetInput) (*domain.Asset, error) {
	asset, err := uc.assetRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		asset.Name = *input.Name
	}

	if input.Currency != nil {
		if err := domain.ValidateCurrency(*input.Currency); err != nil {
			return nil, err
		}
		asset.Currency = *input.Currency
	}

	if input.DataSource != nil {
		if !input.DataSource.IsValid() {
			return nil, domain.ErrInvalidDataSource
		}
		asset.DataSource = *input.DataSource
	}

	asset.UpdatedAt = time.Now().UTC()

	if err := uc.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// DeleteAsset deletes an asset by ID.
func (uc *AssetUseCase) DeleteAsset(ctx context.Context, id string) error {
	if _, err := uc.assetRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.assetRepo.Delete(ctx, id)
}

// GetPrice returns the latest quote for an asset. Quotes are served from the
// cache when fresh; only yahoo-sourced assets have automated quotes.
func (uc *AssetUseCase) GetPrice(ctx context.Context, id string) (*Quote, error) {
	asset, err := uc.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if asset.DataSource != domain.DataSourceYahoo {
		return nil, domain.ErrNoAutomatedQuotes
	}

	cacheKey := "quote:" + asset.Symbol

	if cached, err := uc.quoteCache.Get(ctx, cacheKey); err == nil && cached != nil {
		var quote Quote
		if err := json.Unmarshal(cached, &quote); err == nil {
			return &quote, nil
		}
	}

	quote, err := uc.quotes.LatestPrice(ctx, asset.Symbol)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(quote); err == nil {
		if err := uc.quoteCache.Set(ctx, cacheKey, payload, uc.cacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("symbol", asset.Symbol).Msg("failed to cache quote")
		}
	}

	return quote, nil
}

// HistoryInput represents input for a price-history lookup.
type HistoryInput struct {
	AssetID  string
	Start    time.Time
	End      time.Time
	Interval domain.Interval
}

// GetHistory returns the price history for an asset.
func (uc *AssetUseCase) GetHistory(ctx context.Context, input HistoryInput) ([]Bar, error) {
	asset, err := uc.assetRepo.GetByID(ctx, input.AssetID)
	if err != nil {
		return nil, err
	}

	if asset.DataSource != domain.DataSourceYahoo {
		return nil, domain.ErrNoAutomatedQuotes
	}

	if input.Interval == "" {
		input.Interval = domain.IntervalDay
	}

	if !input.Interval.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidInterval, input.Interval)
	}

	if input.End.IsZero() {
		input.End = time.Now().UTC()
	}

	bars, err := uc.quotes.History(ctx, asset.Symbol, input.Start, input.End, input.Interval)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, domain.ErrQuoteNotFound
	}

	return bars, nil
}
