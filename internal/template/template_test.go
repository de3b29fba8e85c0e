package template

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestUSD(t *testing.T) {
	testCases := []struct {
		value string
		want  string
	}{
		{value: "0", want: "$0.00"},
		{value: "0.5", want: "$0.50"},
		{value: "123", want: "$123.00"},
		{value: "1234.56", want: "$1,234.56"},
		{value: "10000", want: "$10,000.00"},
		{value: "1000000", want: "$1,000,000.00"},
		{value: "621500.015", want: "$621,500.02"},
		{value: "-1234.5", want: "-$1,234.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			if got := USD(decimal.RequireFromString(tc.value)); got != tc.want {
				t.Errorf("USD(%s) = %s, want %s", tc.value, got, tc.want)
			}
		})
	}
}
