package usecase

import (
	"context"

	"github.com/iho/boglefolio/internal/domain"
)

// StatsUseCase aggregates the numbers shown on the dashboard.
type StatsUseCase struct {
	userRepo        UserRepository
	accountRepo     AccountRepository
	assetRepo       AssetRepository
	transactionRepo TransactionRepository
}

// NewStatsUseCase creates a new StatsUseCase.
func NewStatsUseCase(
	userRepo UserRepository,
	accountRepo AccountRepository,
	assetRepo AssetRepository,
	transactionRepo TransactionRepository,
) *StatsUseCase {
	return &StatsUseCase{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
	}
}

// DashboardStats holds entity counts and the most recent transactions.
type DashboardStats struct {
	Users              int64
	Accounts           int64
	Assets             int64
	Transactions       int64
	RecentTransactions []*domain.Transaction
}

// Dashboard collects counts and the five most recent transactions.
func (uc *StatsUseCase) Dashboard(ctx context.Context) (*DashboardStats, error) {
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	assets, err := uc.assetRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.transactionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := uc.transactionRepo.ListRecent(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Users:              users,
		Accounts:           accounts,
		Assets:             assets,
		Transactions:       transactions,
		RecentTransactions: recent,
	}, nil
}
