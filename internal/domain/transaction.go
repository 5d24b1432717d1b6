package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of supported transaction kinds.
type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionDividend TransactionType = "dividend"
	TransactionTransfer TransactionType = "transfer"
)

var validTransactionTypes = map[TransactionType]bool{
	TransactionBuy:      true,
	TransactionSell:     true,
	TransactionDividend: true,
	TransactionTransfer: true,
}

// IsValid checks if the transaction type is one of the known values.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// ParseTransactionType parses a string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	tt := TransactionType(s)
	if !tt.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}

	return tt, nil
}

// Transaction records a single buy/sell/dividend/transfer against an
// account and an asset.
type Transaction struct {
	ID         string
	AccountID  string
	AssetID    string
	Type       TransactionType
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Fee        decimal.Decimal
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the transaction's field invariants.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}

	if t.Quantity.IsNegative() {
		return ErrNegativeQuantity
	}

	if t.Price.IsNegative() {
		return ErrNegativePrice
	}

	if t.Fee.IsNegative() {
		return ErrNegativeFee
	}

	return nil
}

// NaturalKey is the tuple that identifies a transaction for deduplication:
// two transactions agreeing on all seven fields are the same logical
// transaction.
type NaturalKey struct {
	AccountID  string
	AssetID    string
	Type       TransactionType
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Fee        decimal.Decimal
	OccurredAt time.Time
}

// NaturalKey computes the transaction's deduplication key.
func (t *Transaction) NaturalKey() NaturalKey {
	return NaturalKey{
		AccountID:  t.AccountID,
		AssetID:    t.AssetID,
		Type:       t.Type,
		Quantity:   t.Quantity,
		Price:      t.Price,
		Fee:        t.Fee,
		OccurredAt: t.OccurredAt,
	}
}

// String renders the key in a canonical form usable as a map key. Decimal
// fields are normalized so "1.50" and "1.5" collide as they should.
func (k NaturalKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d",
		k.AccountID,
		k.AssetID,
		k.Type,
		k.Quantity.String(),
		k.Price.String(),
		k.Fee.String(),
		k.OccurredAt.UTC().UnixNano(),
	)
}
