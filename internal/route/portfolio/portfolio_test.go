package portfolio

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTradeRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()

	request := httptest.NewRequest(
		http.MethodPost,
		"/buy",
		strings.NewReader(form.Encode()),
	)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return request
}

func TestParseTradeForm(t *testing.T) {
	testCases := []struct {
		name       string
		symbol     string
		shares     string
		wantOK     bool
		wantSymbol string
		wantShares int64
	}{
		{name: "valid", symbol: "AAPL", shares: "10", wantOK: true, wantSymbol: "AAPL", wantShares: 10},
		{name: "lowercase symbol", symbol: "aapl", shares: "1", wantOK: true, wantSymbol: "AAPL", wantShares: 1},
		{name: "padded symbol", symbol: " msft ", shares: "3", wantOK: true, wantSymbol: "MSFT", wantShares: 3},
		{name: "missing symbol", symbol: "", shares: "10"},
		{name: "missing shares", symbol: "AAPL", shares: ""},
		{name: "zero shares", symbol: "AAPL", shares: "0"},
		{name: "negative shares", symbol: "AAPL", shares: "-4"},
		{name: "fractional shares", symbol: "AAPL", shares: "1.5"},
		{name: "non-numeric shares", symbol: "AAPL", shares: "ten"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("symbol", tc.symbol)
			form.Set("shares", tc.shares)

			recorder := httptest.NewRecorder()
			trade, ok := parseTradeForm(recorder, newTradeRequest(t, form))

			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}

			if !tc.wantOK {
				if recorder.Code != http.StatusBadRequest {
					t.Errorf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
				}

				return
			}

			if trade.Symbol != tc.wantSymbol {
				t.Errorf("symbol = %s, want %s", trade.Symbol, tc.wantSymbol)
			}

			if trade.Shares != tc.wantShares {
				t.Errorf("shares = %d, want %d", trade.Shares, tc.wantShares)
			}
		})
	}
}
