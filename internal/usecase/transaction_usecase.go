package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/boglefolio/internal/domain"
)

// TransactionUseCase handles transaction business logic.
type TransactionUseCase struct {
	transactionRepo TransactionRepository
	accountRepo     AccountRepository
	assetRepo       AssetRepository
	idGen           IDGenerator
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	transactionRepo TransactionRepository,
	accountRepo AccountRepository,
	assetRepo AssetRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		assetRepo:       assetRepo,
		idGen:           idGen,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	AccountID  string
	AssetID    string
	Type       domain.TransactionType
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Fee        decimal.Decimal
	OccurredAt *time.Time
}

// CreateTransaction creates a new transaction. The referenced account and
// asset must exist.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	if _, err := uc.assetRepo.GetByID(ctx, input.AssetID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	txn := &domain.Transaction{
		ID:         uc.idGen.Generate(),
		AccountID:  input.AccountID,
		AssetID:    input.AssetID,
		Type:       input.Type,
		Quantity:   input.Quantity,
		Price:      input.Price,
		Fee:        input.Fee,
		OccurredAt: occurredAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	Limit  int
	Offset int
}

// ListTransactions lists transactions with pagination, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transactionRepo.List(ctx, limit, offset)
}

// DeleteTransaction deletes a transaction by ID.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := uc.transactionRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.transactionRepo.Delete(ctx, id)
}
