package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a user in the database
type User struct {
	ID       int64
	Username string
	Cash     decimal.Decimal
}

// Transaction represents one buy or sell in a user's transaction log.
//
// Shares is signed: positive counts are buys and negative counts are sells.
// Rows are only ever appended, never updated or deleted.
type Transaction struct {
	ID     int64
	UserID int64
	Symbol string
	Shares int64
	Price  decimal.Decimal
	Time   time.Time
}

// Holding represents the net shares a user holds for one symbol.
//
// Holdings are derived from the transaction log on demand and never stored.
type Holding struct {
	Symbol string
	Shares int64
}

// Quote represents a price snapshot for a symbol from the quote provider
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}
