package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input   string
		want    TransactionType
		wantErr bool
	}{
		{"buy", TransactionBuy, false},
		{"sell", TransactionSell, false},
		{"dividend", TransactionDividend, false},
		{"transfer", TransactionTransfer, false},
		{"BUY", "", true},
		{"withdrawal", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransactionType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransactionType) {
					t.Fatalf("expected ErrInvalidTransactionType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseDataSource(t *testing.T) {
	for _, valid := range []string{"yahoo", "manual", "other"} {
		if _, err := ParseDataSource(valid); err != nil {
			t.Errorf("expected %q to parse, got %v", valid, err)
		}
	}

	if _, err := ParseDataSource("bloomberg"); !errors.Is(err, ErrInvalidDataSource) {
		t.Errorf("expected ErrInvalidDataSource, got %v", err)
	}
}

func TestTransaction_Validate(t *testing.T) {
	base := func() *Transaction {
		return &Transaction{
			Type:     TransactionBuy,
			Quantity: decimal.NewFromInt(10),
			Price:    decimal.NewFromFloat(99.5),
			Fee:      decimal.Zero,
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("expected valid transaction, got %v", err)
	}

	tx := base()
	tx.Quantity = decimal.NewFromInt(-1)
	if err := tx.Validate(); !errors.Is(err, ErrNegativeQuantity) {
		t.Errorf("expected ErrNegativeQuantity, got %v", err)
	}

	tx = base()
	tx.Price = decimal.NewFromInt(-1)
	if err := tx.Validate(); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("expected ErrNegativePrice, got %v", err)
	}

	tx = base()
	tx.Fee = decimal.NewFromInt(-1)
	if err := tx.Validate(); !errors.Is(err, ErrNegativeFee) {
		t.Errorf("expected ErrNegativeFee, got %v", err)
	}

	tx = base()
	tx.Type = "unknown"
	if err := tx.Validate(); !errors.Is(err, ErrInvalidTransactionType) {
		t.Errorf("expected ErrInvalidTransactionType, got %v", err)
	}
}

func TestNaturalKey_String_NormalizesDecimals(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	a := Transaction{
		AccountID:  "acc",
		AssetID:    "ast",
		Type:       TransactionBuy,
		Quantity:   decimal.RequireFromString("1.50"),
		Price:      decimal.RequireFromString("100.00"),
		Fee:        decimal.RequireFromString("0"),
		OccurredAt: at,
	}
	b := a
	b.Quantity = decimal.RequireFromString("1.5")
	b.Price = decimal.RequireFromString("100")
	b.Fee = decimal.RequireFromString("0.0")

	if a.NaturalKey().String() != b.NaturalKey().String() {
		t.Errorf("expected equal keys, got %q vs %q", a.NaturalKey().String(), b.NaturalKey().String())
	}

	c := a
	c.Fee = decimal.RequireFromString("0.5")
	if a.NaturalKey().String() == c.NaturalKey().String() {
		t.Error("expected different keys for different fees")
	}
}
