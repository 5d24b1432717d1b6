package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents an investment account that holds transactions.
type Account struct {
	ID        string
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
