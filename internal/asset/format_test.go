package asset

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "typical price", in: "43210.1234567", want: "$43,210.12"},
		{name: "rounds half away from zero", in: "1.005", want: "$1.01"},
		{name: "pads fraction", in: "0.5", want: "$0.50"},
		{name: "integer", in: "1", want: "$1.00"},
		{name: "zero", in: "0", want: "$0.00"},
		{name: "sub cent rounds to zero", in: "0.0000123", want: "$0.00"},
		{name: "millions", in: "1234567.891", want: "$1,234,567.89"},
		{name: "negative", in: "-1234.5", want: "-$1,234.50"},
		{name: "negative rounding to zero has no sign", in: "-0.001", want: "$0.00"},
		{name: "beyond int64", in: "12345678901234567890123.4", want: "$12,345,678,901,234,567,890,123.40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCompactCurrency(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "zero", in: "0", want: "$0"},
		{name: "below one keeps two significant digits", in: "0.123", want: "$0.12"},
		{name: "tiny value", in: "0.0012345", want: "$0.0012"},
		{name: "single digit keeps one decimal", in: "1.5", want: "$1.5"},
		{name: "two digits round to integer", in: "12.5", want: "$13"},
		{name: "hundreds", in: "999", want: "$999"},
		{name: "hundreds rounding into thousands", in: "999.5", want: "$1K"},
		{name: "thousands single digit", in: "1234", want: "$1.2K"},
		{name: "thousands two digits", in: "45678", want: "$46K"},
		{name: "rounds up to next unit", in: "999999", want: "$1M"},
		{name: "tens of billions", in: "12345678901.5", want: "$12B"},
		{name: "billions", in: "1234567890", want: "$1.2B"},
		{name: "trailing zero dropped", in: "1000000000", want: "$1B"},
		{name: "hundreds of billions", in: "843500000000.1234", want: "$844B"},
		{name: "trillions", in: "2500000000000", want: "$2.5T"},
		{name: "thousands of trillions stay in T", in: "1500000000000000", want: "$1500T"},
		{name: "tens of thousands of trillions are grouped", in: "15000000000000000", want: "$15,000T"},
		{name: "negative", in: "-1234", want: "-$1.2K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCompactCurrency(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupInteger(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0"},
		{in: "123", want: "123"},
		{in: "1234", want: "1,234"},
		{in: "1234567890", want: "1,234,567,890"},
		{in: "123456789012345678901", want: "123,456,789,012,345,678,901"},
		{in: "99999999999999999999", want: "99,999,999,999,999,999,999"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, groupInteger(tt.in))
		})
	}
}
