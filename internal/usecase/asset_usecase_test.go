package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/usecase"
	"github.com/iho/boglefolio/internal/usecase/mocks"
)

func newAssetUseCase(
	repo *mocks.MockAssetRepository,
	quotes *mocks.MockQuoteProvider,
	cache *mocks.MockCache,
) *usecase.AssetUseCase {
	return usecase.NewAssetUseCase(repo, quotes, cache, 5*time.Minute, mocks.NewMockIDGenerator(), zerolog.Nop())
}

func TestAssetUseCase_CreateAsset(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAssetInput
		setupMocks  func(*mocks.MockAssetRepository)
		expectError error
		check       func(t *testing.T, asset *domain.Asset)
	}{
		{
			name:       "defaults applied",
			input:      usecase.CreateAssetInput{Symbol: "VTI", Name: "Total Market ETF"},
			setupMocks: func(repo *mocks.MockAssetRepository) {},
			check: func(t *testing.T, asset *domain.Asset) {
				if asset.Currency != "USD" {
					t.Errorf("expected default currency USD, got %q", asset.Currency)
				}
				if asset.DataSource != domain.DataSourceYahoo {
					t.Errorf("expected default data source yahoo, got %q", asset.DataSource)
				}
			},
		},
		{
			name:  "duplicate symbol",
			input: usecase.CreateAssetInput{Symbol: "VTI"},
			setupMocks: func(repo *mocks.MockAssetRepository) {
				repo.Create(context.Background(), &domain.Asset{ID: "asset-1", Symbol: "VTI"})
			},
			expectError: domain.ErrDuplicateSymbol,
		},
		{
			name:        "empty symbol",
			input:       usecase.CreateAssetInput{Symbol: "  "},
			setupMocks:  func(repo *mocks.MockAssetRepository) {},
			expectError: domain.ErrInvalidSymbol,
		},
		{
			name:        "bad currency",
			input:       usecase.CreateAssetInput{Symbol: "VTI", Currency: "dollars"},
			setupMocks:  func(repo *mocks.MockAssetRepository) {},
			expectError: domain.ErrInvalidCurrency,
		},
		{
			name:        "unknown data source",
			input:       usecase.CreateAssetInput{Symbol: "VTI", DataSource: "bloomberg"},
			setupMocks:  func(repo *mocks.MockAssetRepository) {},
			expectError: domain.ErrInvalidDataSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAssetRepository()
			tt.setupMocks(repo)

			uc := newAssetUseCase(repo, mocks.NewMockQuoteProvider(), mocks.NewMockCache())
			asset, err := uc.CreateAsset(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Errorf("expected %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, asset)
			}
		})
	}
}

func TestAssetUseCase_UpdateAsset(t *testing.T) {
	repo := mocks.NewMockAssetRepository()
	repo.Create(context.Background(), &domain.Asset{
		ID:         "asset-1",
		Symbol:     "VTI",
		Name:       "old name",
		Currency:   "USD",
		DataSource: domain.DataSourceYahoo,
	})

	uc := newAssetUseCase(repo, mocks.NewMockQuoteProvider(), mocks.NewMockCache())

	newName := "Vanguard Total Stock Market"
	manual := domain.DataSourceManual

	asset, err := uc.UpdateAsset(context.Background(), usecase.UpdateAssetInput{
		ID:         "asset-1",
		Name:       &newName,
		DataSource: &manual,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if asset.Name != newName {
		t.Errorf("expected name %q, got %q", newName, asset.Name)
	}
	if asset.DataSource != domain.DataSourceManual {
		t.Errorf("expected data source manual, got %q", asset.DataSource)
	}
	// Untouched fields survive a partial update.
	if asset.Currency != "USD" {
		t.Errorf("expected currency USD, got %q", asset.Currency)
	}

	badCurrency := "us dollars"
	if _, err := uc.UpdateAsset(context.Background(), usecase.UpdateAssetInput{
		ID:       "asset-1",
		Currency: &badCurrency,
	}); !errors.Is(err, domain.ErrInvalidCurrency) {
		t.Errorf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestAssetUseCase_GetPrice(t *testing.T) {
	asset := &domain.Asset{
		ID:         "asset-1",
		Symbol:     "VTI",
		DataSource: domain.DataSourceYahoo,
	}

	t.Run("cache miss fetches and caches", func(t *testing.T) {
		repo := mocks.NewMockAssetRepository()
		repo.Create(context.Background(), asset)

		quotes := mocks.NewMockQuoteProvider()
		calls := 0
		quotes.LatestPriceFunc = func(ctx context.Context, symbol string) (*usecase.Quote, error) {
			calls++
			return &usecase.Quote{
				Symbol: symbol,
				Price:  decimal.RequireFromString("231.42"),
				Time:   time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC),
			}, nil
		}

		uc := newAssetUseCase(repo, quotes, mocks.NewMockCache())

		quote, err := uc.GetPrice(context.Background(), "asset-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !quote.Price.Equal(decimal.RequireFromString("231.42")) {
			t.Errorf("expected price 231.42, got %s", quote.Price)
		}

		// Second lookup is served from the cache.
		if _, err := uc.GetPrice(context.Background(), "asset-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 provider call, got %d", calls)
		}
	})

	t.Run("manual asset has no automated quotes", func(t *testing.T) {
		repo := mocks.NewMockAssetRepository()
		repo.Create(context.Background(), &domain.Asset{
			ID:         "asset-2",
			Symbol:     "HOUSE",
			DataSource: domain.DataSourceManual,
		})

		uc := newAssetUseCase(repo, mocks.NewMockQuoteProvider(), mocks.NewMockCache())

		if _, err := uc.GetPrice(context.Background(), "asset-2"); !errors.Is(err, domain.ErrNoAutomatedQuotes) {
			t.Errorf("expected ErrNoAutomatedQuotes, got %v", err)
		}
	})

	t.Run("provider error is propagated", func(t *testing.T) {
		repo := mocks.NewMockAssetRepository()
		repo.Create(context.Background(), asset)

		uc := newAssetUseCase(repo, mocks.NewMockQuoteProvider(), mocks.NewMockCache())

		if _, err := uc.GetPrice(context.Background(), "asset-1"); !errors.Is(err, domain.ErrQuoteNotFound) {
			t.Errorf("expected ErrQuoteNotFound, got %v", err)
		}
	})
}

func TestAssetUseCase_GetHistory(t *testing.T) {
	repo := mocks.NewMockAssetRepository()
	repo.Create(context.Background(), &domain.Asset{
		ID:         "asset-1",
		Symbol:     "VTI",
		DataSource: domain.DataSourceYahoo,
	})

	quotes := mocks.NewMockQuoteProvider()
	var gotInterval domain.Interval
	quotes.HistoryFunc = func(ctx context.Context, symbol string, start, end time.Time, interval domain.Interval) ([]usecase.Bar, error) {
		gotInterval = interval
		return []usecase.Bar{
			{Time: start, Close: decimal.RequireFromString("230")},
		}, nil
	}

	uc := newAssetUseCase(repo, quotes, mocks.NewMockCache())

	bars, err := uc.GetHistory(context.Background(), usecase.HistoryInput{
		AssetID: "asset-1",
		Start:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if gotInterval != domain.IntervalDay {
		t.Errorf("expected default interval 1d, got %q", gotInterval)
	}

	if _, err := uc.GetHistory(context.Background(), usecase.HistoryInput{
		AssetID:  "asset-1",
		Interval: "45m",
	}); !errors.Is(err, domain.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}

	quotes.HistoryFunc = func(ctx context.Context, symbol string, start, end time.Time, interval domain.Interval) ([]usecase.Bar, error) {
		return nil, nil
	}
	if _, err := uc.GetHistory(context.Background(), usecase.HistoryInput{AssetID: "asset-1"}); !errors.Is(err, domain.ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound for empty history, got %v", err)
	}
}
