package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// AssetResponse represents an asset in API responses.
type AssetResponse struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Name       string    `json:"name"`
	Currency   string    `json:"currency"`
	DataSource string    `json:"data_source"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AssetFromDomain converts a domain asset to a response.
func AssetFromDomain(a *domain.Asset) *AssetResponse {
	return &AssetResponse{
		ID:         a.ID,
		Symbol:     a.Symbol,
		Name:       a.Name,
		Currency:   a.Currency,
		DataSource: string(a.DataSource),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AssetsFromDomain converts domain assets to responses.
func AssetsFromDomain(assets []*domain.Asset) []*AssetResponse {
	result := make([]*AssetResponse, len(assets))
	for i, a := range assets {
		result[i] = AssetFromDomain(a)
	}
	return result
}

// ListAssetsResponse wraps a page of assets.
type ListAssetsResponse struct {
	Assets []*AssetResponse `json:"assets"`
	Total  int64            `json:"total"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	AssetID    string          `json:"asset_id"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Fee        decimal.Decimal `json:"fee"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:         t.ID,
		AccountID:  t.AccountID,
		AssetID:    t.AssetID,
		Type:       string(t.Type),
		Quantity:   t.Quantity,
		Price:      t.Price,
		Fee:        t.Fee,
		OccurredAt: t.OccurredAt,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// TokenResponse carries a freshly minted API token.
type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// QuoteResponse represents a latest-price quote.
type QuoteResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Time   time.Time       `json:"time"`
}

// QuoteFromUseCase converts a usecase quote to a response.
func QuoteFromUseCase(q *usecase.Quote) *QuoteResponse {
	return &QuoteResponse{
		Symbol: q.Symbol,
		Price:  q.Price,
		Time:   q.Time,
	}
}

// BarResponse represents one candle of price history.
type BarResponse struct {
	Time   time.Time       `json:"time"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// HistoryResponse wraps a price-history series.
type HistoryResponse struct {
	Symbol string        `json:"symbol"`
	Bars   []BarResponse `json:"bars"`
}

// BarsFromUseCase converts usecase bars to responses.
func BarsFromUseCase(bars []usecase.Bar) []BarResponse {
	result := make([]BarResponse, len(bars))
	for i, b := range bars {
		result[i] = BarResponse{
			Time:   b.Time,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return result
}

// ImportJobResponse acknowledges an accepted background import.
type ImportJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
