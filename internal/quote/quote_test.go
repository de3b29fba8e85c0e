package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Query().Get("symbol") {
		case "AAPL":
			writer.Write([]byte(`{"symbol": "AAPL", "companyName": "Apple Inc.", "latestPrice": 187.43}`))
		case "BRK.A":
			// Some APIs quote prices as strings.
			writer.Write([]byte(`{"symbol": "BRK.A", "companyName": "Berkshire Hathaway", "latestPrice": "621500.01"}`))
		case "BROKEN":
			writer.Write([]byte(`{"symbol": "BROKEN", "companyName": "Broken", "latestPrice": "not a price"}`))
		case "HALTED":
			writer.Write([]byte(`{"symbol": "HALTED", "companyName": "Halted", "latestPrice": 0}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
			writer.Write([]byte(`{"error": "Unknown symbol"}`))
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func TestLookup(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	quote, err := client.Lookup(ctx, "AAPL")

	if err != nil {
		t.Fatalf("lookup error: %s", err)
	}

	if quote.Symbol != "AAPL" || quote.Name != "Apple Inc." {
		t.Errorf("quote = %+v", quote)
	}

	if !quote.Price.Equal(decimal.RequireFromString("187.43")) {
		t.Errorf("price = %s, want 187.43", quote.Price)
	}
}

func TestLookupUpperCasesSymbols(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	quote, err := client.Lookup(context.Background(), "aapl")

	if err != nil {
		t.Fatalf("lookup error: %s", err)
	}

	if quote.Symbol != "AAPL" {
		t.Errorf("symbol = %s, want AAPL", quote.Symbol)
	}
}

func TestLookupStringPrice(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	quote, err := client.Lookup(context.Background(), "BRK.A")

	if err != nil {
		t.Fatalf("lookup error: %s", err)
	}

	if !quote.Price.Equal(decimal.RequireFromString("621500.01")) {
		t.Errorf("price = %s, want 621500.01", quote.Price)
	}
}

func TestLookupNotFound(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	testCases := []string{"ZZZZ", "HALTED"}

	for _, symbol := range testCases {
		if _, err := client.Lookup(context.Background(), symbol); !errors.Is(err, ErrNotFound) {
			t.Errorf("error for %s = %v, want ErrNotFound", symbol, err)
		}
	}
}

func TestLookupInvalidPrice(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	_, err := client.Lookup(context.Background(), "BROKEN")

	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want a parse failure", err)
	}
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL)

	_, err := client.Lookup(context.Background(), "AAPL")

	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want a transport failure distinct from ErrNotFound", err)
	}
}
