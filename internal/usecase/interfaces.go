package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/boglefolio/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// AssetRepository defines data access for assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	// GetBySymbol returns (nil, nil) when no asset has the symbol.
	GetBySymbol(ctx context.Context, symbol string) (*domain.Asset, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	CreateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	UpdateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// FindByNaturalKey returns (nil, nil) when no transaction matches the key.
	FindByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByUsername and GetByEmail return (nil, nil) when no user matches.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Quote is a single price observation for a symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	Time   time.Time
}

// Bar is one candle of price history.
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// QuoteProvider fetches market data for a ticker symbol.
type QuoteProvider interface {
	// LatestPrice returns domain.ErrQuoteNotFound when the provider has no
	// quote for the symbol.
	LatestPrice(ctx context.Context, symbol string) (*Quote, error)
	History(ctx context.Context, symbol string, start, end time.Time, interval domain.Interval) ([]Bar, error)
}

// Cache defines caching operations.
type Cache interface {
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SessionStore persists login sessions keyed by an opaque token.
type SessionStore interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (string, error)
	// Get returns domain.ErrSessionExpired for unknown or expired tokens.
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
