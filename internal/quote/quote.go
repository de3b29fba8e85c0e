// Package quote looks up current stock prices from a quote API.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the provider cannot price a symbol.
var ErrNotFound = errors.New("symbol not found")

// Provider defines an interface for looking up a price for a stock symbol.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (model.Quote, error)
}

// Client is a Provider backed by an HTTP quote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for a quote API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Quote lookups must never hang a buy or sell.
			Timeout: time.Second * 5,
		},
	}
}

type quoteResult struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	LatestPrice json.RawMessage `json:"latestPrice"`
}

// Lookup fetches the current quote for a symbol.
//
// Symbols are upper-cased before lookup. ErrNotFound is returned when the
// API does not know the symbol.
func (client *Client) Lookup(ctx context.Context, symbol string) (model.Quote, error) {
	var quote model.Quote

	symbol = strings.ToUpper(symbol)
	requestURL := client.baseURL + "/quote?symbol=" + url.QueryEscape(symbol)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)

	if err != nil {
		return quote, err
	}

	response, err := client.httpClient.Do(request)

	if err != nil {
		return quote, err
	}

	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return quote, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	if response.StatusCode != http.StatusOK {
		return quote, fmt.Errorf("quote api returned status %d", response.StatusCode)
	}

	content, err := io.ReadAll(response.Body)

	if err != nil {
		return quote, err
	}

	var result quoteResult

	if err := json.Unmarshal(content, &result); err != nil {
		return quote, fmt.Errorf("quote api returned unexpected response: %s", string(content))
	}

	if result.Symbol == "" || len(result.LatestPrice) == 0 {
		return quote, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	quote.Symbol = result.Symbol
	quote.Name = result.CompanyName

	// Prices arrive as JSON numbers. Parsing the raw text with decimal
	// keeps the exact value instead of rounding through a float64.
	if err := quote.Price.UnmarshalJSON(result.LatestPrice); err != nil {
		return quote, fmt.Errorf("quote api returned invalid price for %s: %s", symbol, result.LatestPrice)
	}

	if quote.Price.LessThanOrEqual(decimal.Zero) {
		return quote, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	return quote, nil
}
