package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAccountName(t *testing.T) {
	if err := ValidateAccountName("Brokerage"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateAccountName("   "); !errors.Is(err, ErrInvalidAccountName) {
		t.Errorf("expected ErrInvalidAccountName for blank name, got %v", err)
	}

	long := strings.Repeat("a", MaxAccountNameLength+1)
	if err := ValidateAccountName(long); !errors.Is(err, ErrInvalidAccountName) {
		t.Errorf("expected ErrInvalidAccountName for long name, got %v", err)
	}
}

func TestValidateSymbol(t *testing.T) {
	if err := ValidateSymbol("BRK-B"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateSymbol(""); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol for empty symbol, got %v", err)
	}

	long := strings.Repeat("X", MaxSymbolLength+1)
	if err := ValidateSymbol(long); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol for long symbol, got %v", err)
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, valid := range []string{"USD", "EUR", "JPY"} {
		if err := ValidateCurrency(valid); err != nil {
			t.Errorf("expected %q to validate, got %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "usd", "DOLLARS", "US"} {
		if err := ValidateCurrency(invalid); !errors.Is(err, ErrInvalidCurrency) {
			t.Errorf("expected ErrInvalidCurrency for %q, got %v", invalid, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, invalid := range []string{"", "alice", "alice@", "@example.com", "alice@example"} {
		if err := ValidateEmail(invalid); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected ErrInvalidEmail for %q, got %v", invalid, err)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	for _, valid := range []string{"alice", "bob_2", "carol.d", "x-y-z"} {
		if err := ValidateUsername(valid); err != nil {
			t.Errorf("expected %q to validate, got %v", valid, err)
		}
	}

	if err := ValidateUsername("ab"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("expected ErrInvalidUsername for short name, got %v", err)
	}

	if err := ValidateUsername("has space"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("expected ErrInvalidUsername for space, got %v", err)
	}

	long := strings.Repeat("a", MaxUsernameLength+1)
	if err := ValidateUsername(long); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("expected ErrInvalidUsername for long name, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("correct horse battery"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidatePassword("short"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Errorf("expected ErrPasswordTooWeak for short password, got %v", err)
	}

	long := strings.Repeat("p", MaxPasswordLength+1)
	if err := ValidatePassword(long); !errors.Is(err, ErrPasswordTooWeak) {
		t.Errorf("expected ErrPasswordTooWeak for long password, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{10, 5, 10, 5},
		{0, 0, 100, 0},
		{-1, -1, 100, 0},
		{5000, 10, 1000, 10},
	}

	for _, tt := range tests {
		limit, offset := ValidatePagination(tt.limit, tt.offset)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
