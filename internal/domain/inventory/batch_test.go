package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestQuantityFits(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"12.5", true},
		{"0.001", true},
		{"0.2500", true},
		{"99999999999.999", true},
		{"0.0004", false},
		{"1.2345", false},
		{"100000000000", false},
		{"-100000000000", false},
	}
	for _, tc := range cases {
		if got := QuantityFits(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("QuantityFits(%s) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
