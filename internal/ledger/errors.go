package ledger

import "errors"

// Business-rule failures reported to callers as typed values.
//
// The presentation layer decides how to surface each one. Storage failures
// are not listed here: they propagate as ordinary wrapped errors and are
// never retried inside the engine.
var (
	ErrInvalidShares      = errors.New("share count must be a positive whole number")
	ErrInvalidSymbol      = errors.New("symbol must not be empty")
	ErrInvalidAmount      = errors.New("amount must be a positive whole number")
	ErrSymbolNotFound     = errors.New("symbol not found")
	ErrQuoteUnavailable   = errors.New("quote unavailable")
	ErrInsufficientFunds  = errors.New("insufficient cash")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrUnknownSymbol      = errors.New("symbol not held")
)
