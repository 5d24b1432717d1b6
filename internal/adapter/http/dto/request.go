package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:    r.Name,
		Balance: r.Balance,
	}
}

// CreateAssetRequest represents a request to create an asset.
type CreateAssetRequest struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Currency   string `json:"currency"`
	DataSource string `json:"data_source"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAssetRequest) ToUseCaseInput() usecase.CreateAssetInput {
	return usecase.CreateAssetInput{
		Symbol:     r.Symbol,
		Name:       r.Name,
		Currency:   r.Currency,
		DataSource: domain.DataSource(r.DataSource),
	}
}

// UpdateAssetRequest represents a partial asset update. Absent fields are
// left unchanged.
type UpdateAssetRequest struct {
	Name       *string `json:"name,omitempty"`
	Currency   *string `json:"currency,omitempty"`
	DataSource *string `json:"data_source,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAssetRequest) ToUseCaseInput(id string) usecase.UpdateAssetInput {
	input := usecase.UpdateAssetInput{
		ID:       id,
		Name:     r.Name,
		Currency: r.Currency,
	}

	if r.DataSource != nil {
		ds := domain.DataSource(*r.DataSource)
		input.DataSource = &ds
	}

	return input
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	AccountID  string          `json:"account_id"`
	AssetID    string          `json:"asset_id"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Fee        decimal.Decimal `json:"fee"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		AccountID:  r.AccountID,
		AssetID:    r.AssetID,
		Type:       domain.TransactionType(r.Type),
		Quantity:   r.Quantity,
		Price:      r.Price,
		Fee:        r.Fee,
		OccurredAt: r.OccurredAt,
	}
}

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest represents a credentials login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest represents a partial user update.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput(id string) usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		ID:       id,
		Email:    r.Email,
		Password: r.Password,
	}
}
