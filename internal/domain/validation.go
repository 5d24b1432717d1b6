package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidSymbol      = errors.New("invalid ticker symbol")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxSymbolLength      = 32
	MinUsernameLength    = 3
	MaxUsernameLength    = 64
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidateAccountName validates an account name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateSymbol validates a ticker symbol.
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(symbol)

	if symbol == "" {
		return fmt.Errorf("%w: symbol cannot be empty", ErrInvalidSymbol)
	}

	if len(symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: symbol exceeds %d characters", ErrInvalidSymbol, MaxSymbolLength)
	}

	return nil
}

// ValidateCurrency validates an ISO 4217 style currency code.
func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("%w: %q is not a three-letter currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateUsername validates a login name.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidUsername, MinUsernameLength)
	}

	if len(username) > MaxUsernameLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrInvalidUsername, MaxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: only letters, digits, '_', '.' and '-' are allowed", ErrInvalidUsername)
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 100

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
