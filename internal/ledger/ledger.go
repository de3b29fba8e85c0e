// Package ledger implements the portfolio bookkeeping engine.
//
// Share ownership is derived entirely from an append-only transaction log.
// Every buy or sell debits or credits the user's cash and appends one
// transaction row as a single atomic unit, so cash can never be observed
// without its matching transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/dense-analysis/stockwarp/internal/quote"
	"github.com/shopspring/decimal"
)

// Store persists users and their transaction logs.
type Store interface {
	// Cash returns a user's current cash balance.
	Cash(ctx context.Context, userID int64) (decimal.Decimal, error)
	// Holdings returns net shares per symbol, restricted to positive counts.
	Holdings(ctx context.Context, userID int64) ([]model.Holding, error)
	// Position returns cash and holdings as one consistent snapshot. A
	// trade committing during the read must not be half-visible.
	Position(ctx context.Context, userID int64) (decimal.Decimal, []model.Holding, error)
	// HoldingShares returns the net shares a user holds for one symbol.
	HoldingShares(ctx context.Context, userID int64, symbol string) (int64, error)
	// History returns all of a user's transactions, most recent first.
	History(ctx context.Context, userID int64) ([]model.Transaction, error)
	// ApplyTrade atomically adjusts cash by -shares*price and appends the
	// transaction row. It must return ErrInsufficientFunds or
	// ErrInsufficientShares without applying either effect when the cash or
	// share balance cannot cover the trade.
	ApplyTrade(ctx context.Context, userID int64, symbol string, shares int64, price decimal.Decimal) (model.Transaction, error)
	// AddCash credits cash and returns the new balance.
	AddCash(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
}

// Engine exposes the portfolio operations for one ledger store.
//
// The engine is stateless. Every operation takes the acting user as an
// explicit argument rather than reading it from any ambient context.
type Engine struct {
	store  Store
	quotes quote.Provider
}

// NewEngine creates an Engine over a store and a quote provider.
func NewEngine(store Store, quotes quote.Provider) *Engine {
	return &Engine{store: store, quotes: quotes}
}

// Holdings returns the user's active holdings, derived from the log.
func (engine *Engine) Holdings(ctx context.Context, userID int64) ([]model.Holding, error) {
	return engine.store.Holdings(ctx, userID)
}

// History returns the user's transactions, most recent first.
func (engine *Engine) History(ctx context.Context, userID int64) ([]model.Transaction, error) {
	return engine.store.History(ctx, userID)
}

// StockValue is one priced holding inside a Valuation.
type StockValue struct {
	Symbol string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

// Valuation is a user's portfolio priced at current quotes.
type Valuation struct {
	Stocks     []StockValue
	Cash       decimal.Decimal
	TotalValue decimal.Decimal
	GrandTotal decimal.Decimal
}

// Valuation prices every active holding at the current quote.
//
// If any held symbol cannot be priced the whole valuation fails with
// ErrQuoteUnavailable. Silently dropping the holding would understate the
// portfolio.
func (engine *Engine) Valuation(ctx context.Context, userID int64) (Valuation, error) {
	var valuation Valuation

	cash, holdingList, err := engine.store.Position(ctx, userID)

	if err != nil {
		return valuation, err
	}

	valuation.Cash = cash
	valuation.TotalValue = decimal.Zero
	valuation.Stocks = make([]StockValue, 0, len(holdingList))

	for _, holding := range holdingList {
		stockQuote, err := engine.quotes.Lookup(ctx, holding.Symbol)

		if err != nil {
			return Valuation{}, fmt.Errorf("%w: %s: %s", ErrQuoteUnavailable, holding.Symbol, err)
		}

		value := stockQuote.Price.Mul(decimal.NewFromInt(holding.Shares))
		valuation.Stocks = append(valuation.Stocks, StockValue{
			Symbol: holding.Symbol,
			Shares: holding.Shares,
			Price:  stockQuote.Price,
			Value:  value,
		})
		valuation.TotalValue = valuation.TotalValue.Add(value)
	}

	valuation.GrandTotal = valuation.Cash.Add(valuation.TotalValue)

	return valuation, nil
}

// Buy purchases shares of a symbol at the current quote.
func (engine *Engine) Buy(ctx context.Context, userID int64, symbol string, shares int64) (model.Transaction, error) {
	symbol, err := validateTrade(symbol, shares)

	if err != nil {
		return model.Transaction{}, err
	}

	stockQuote, err := engine.quotes.Lookup(ctx, symbol)

	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return model.Transaction{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
		}

		return model.Transaction{}, fmt.Errorf("%w: %s: %s", ErrQuoteUnavailable, symbol, err)
	}

	return engine.store.ApplyTrade(ctx, userID, symbol, shares, stockQuote.Price)
}

// Sell sells shares of a held symbol at the current quote.
func (engine *Engine) Sell(ctx context.Context, userID int64, symbol string, shares int64) (model.Transaction, error) {
	symbol, err := validateTrade(symbol, shares)

	if err != nil {
		return model.Transaction{}, err
	}

	held, err := engine.store.HoldingShares(ctx, userID, symbol)

	if err != nil {
		return model.Transaction{}, err
	}

	if held <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	if shares > held {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrInsufficientShares, symbol)
	}

	// Prices can disappear even for a symbol the user already holds.
	stockQuote, err := engine.quotes.Lookup(ctx, symbol)

	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return model.Transaction{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
		}

		return model.Transaction{}, fmt.Errorf("%w: %s: %s", ErrQuoteUnavailable, symbol, err)
	}

	return engine.store.ApplyTrade(ctx, userID, symbol, -shares, stockQuote.Price)
}

// AddCash credits a whole-dollar amount to the user's balance.
//
// Deposits are out-of-band of the trading ledger and add no transaction row.
func (engine *Engine) AddCash(ctx context.Context, userID int64, amount int64) (decimal.Decimal, error) {
	if amount <= 0 {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	return engine.store.AddCash(ctx, userID, decimal.NewFromInt(amount))
}

func validateTrade(symbol string, shares int64) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if symbol == "" {
		return "", ErrInvalidSymbol
	}

	if shares <= 0 {
		return "", ErrInvalidShares
	}

	return symbol, nil
}
