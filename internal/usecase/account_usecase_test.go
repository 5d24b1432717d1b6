package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/usecase"
	"github.com/iho/boglefolio/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		setupMocks  func(*mocks.MockAccountRepository, *mocks.MockIDGenerator)
		expectError bool
	}{
		{
			name: "successful account creation",
			input: usecase.CreateAccountInput{
				Name:    "brokerage",
				Balance: decimal.RequireFromString("1000.50"),
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				idGen.GenerateFunc = func() string { return "test-id-123" }
			},
			expectError: false,
		},
		{
			name:  "empty name is rejected",
			input: usecase.CreateAccountInput{Name: "   "},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				repo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
					t.Fatal("Create should not be called for invalid input")
					return nil
				}
			},
			expectError: true,
		},
		{
			name:  "repository error is propagated",
			input: usecase.CreateAccountInput{Name: "brokerage"},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				repo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
					return errors.New("connection refused")
				}
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			idGen := mocks.NewMockIDGenerator()
			tt.setupMocks(repo, idGen)

			uc := usecase.NewAccountUseCase(repo, idGen)
			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if account == nil {
					t.Fatal("expected account, got nil")
				}
				if account.Name != tt.input.Name {
					t.Errorf("expected name %q, got %q", tt.input.Name, account.Name)
				}
				if !account.Balance.Equal(tt.input.Balance) {
					t.Errorf("expected balance %s, got %s", tt.input.Balance, account.Balance)
				}
			}
		})
	}
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	tests := []struct {
		name        string
		accountID   string
		setupMocks  func(*mocks.MockAccountRepository)
		expectError error
	}{
		{
			name:      "get existing account",
			accountID: "test-id-123",
			setupMocks: func(repo *mocks.MockAccountRepository) {
				repo.Create(context.Background(), &domain.Account{ID: "test-id-123", Name: "brokerage"})
			},
		},
		{
			name:        "get non-existent account",
			accountID:   "missing",
			setupMocks:  func(repo *mocks.MockAccountRepository) {},
			expectError: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			tt.setupMocks(repo)

			uc := usecase.NewAccountUseCase(repo, mocks.NewMockIDGenerator())
			account, err := uc.GetAccount(context.Background(), tt.accountID)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Errorf("expected %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.ID != tt.accountID {
				t.Errorf("expected ID %q, got %q", tt.accountID, account.ID)
			}
		})
	}
}

func TestAccountUseCase_DeleteAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.Create(context.Background(), &domain.Account{ID: "acc-1", Name: "brokerage"})

	uc := usecase.NewAccountUseCase(repo, mocks.NewMockIDGenerator())

	if err := uc.DeleteAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.DeleteAccount(context.Background(), "acc-1"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound after delete, got %v", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.Create(context.Background(), &domain.Account{ID: "acc-1", Name: "brokerage"})
	repo.Create(context.Background(), &domain.Account{ID: "acc-2", Name: "retirement"})

	var gotLimit, gotOffset int
	repo.ListFunc = func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}

	uc := usecase.NewAccountUseCase(repo, mocks.NewMockIDGenerator())

	// Out-of-range pagination is clamped before hitting the repository.
	if _, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Limit: -5, Offset: -1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 100 || gotOffset != 0 {
		t.Errorf("expected clamped pagination (100, 0), got (%d, %d)", gotLimit, gotOffset)
	}

	repo.ListFunc = nil
	accounts, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(accounts))
	}
}
