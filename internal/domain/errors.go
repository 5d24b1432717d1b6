package domain

import "errors"

var (
	// Lookup errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")

	// Asset errors
	ErrDuplicateSymbol   = errors.New("asset with this symbol already exists")
	ErrInvalidDataSource = errors.New("invalid data source")
	ErrNoAutomatedQuotes = errors.New("asset data source has no automated quotes")

	// Transaction errors
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrNegativeQuantity       = errors.New("quantity must not be negative")
	ErrNegativePrice          = errors.New("price must not be negative")
	ErrNegativeFee            = errors.New("fee must not be negative")

	// User errors
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")

	// Market data errors
	ErrQuoteNotFound   = errors.New("no quote available for symbol")
	ErrInvalidInterval = errors.New("invalid history interval")

	// Authentication errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrSessionExpired = errors.New("session not found or expired")
)
