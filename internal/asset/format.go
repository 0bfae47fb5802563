package asset

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups integer digits the en-US way.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.AmericanEnglish)

const (
	currencySymbol = "$"
	// currencyPlaces is the USD minor-unit precision used by standard notation.
	currencyPlaces = 2
	// compactSignificant is the precision kept for single-digit compact values.
	compactSignificant = 2
	// maxSignificantShift bounds the search for the first significant digit.
	maxSignificantShift = 64
	// compactMinGrouping is the shortest compact integer part that gets separators.
	compactMinGrouping = 5
)

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	ten      = decimal.NewFromInt(10)
	thousand = decimal.NewFromInt(1000)

	compactUnits = []struct {
		exp    int32
		suffix string
	}{
		{0, ""},
		{3, "K"},
		{6, "M"},
		{9, "B"},
		{12, "T"},
	}
)

// FormatCurrency formats d as en-US USD in standard notation: two fraction
// digits, comma grouping, half-away-from-zero rounding. Example: "$43,210.12".
func FormatCurrency(d decimal.Decimal) string {
	rounded := d.Round(currencyPlaces)
	fixed := rounded.Abs().StringFixed(currencyPlaces)
	return signOf(rounded) + currencySymbol + groupDecimal(fixed)
}

// FormatCompactCurrency formats d as en-US USD in compact notation, e.g. "$1.2B".
//
// Scaled values below 10 keep two significant digits, larger ones round to an
// integer, and trailing zeros are dropped. A value that rounds up to 1000 moves
// to the next suffix.
func FormatCompactCurrency(d decimal.Decimal) string {
	abs := d.Abs()

	idx := 0
	for idx < len(compactUnits)-1 && abs.GreaterThanOrEqual(decimal.New(1, compactUnits[idx+1].exp)) {
		idx++
	}

	rounded := roundCompact(abs.Shift(-compactUnits[idx].exp))
	if idx < len(compactUnits)-1 && rounded.GreaterThanOrEqual(thousand) {
		idx++
		rounded = roundCompact(abs.Shift(-compactUnits[idx].exp))
	}

	sign := ""
	if d.IsNegative() && !rounded.IsZero() {
		sign = "-"
	}
	return sign + currencySymbol + groupCompact(rounded.String()) + compactUnits[idx].suffix
}

// groupCompact groups like groupDecimal but leaves four-digit integers alone,
// so 1500 trillion is "1500T" and 15000 trillion is "15,000T".
func groupCompact(s string) string {
	intPart, _, _ := strings.Cut(s, ".")
	if len(intPart) < compactMinGrouping {
		return s
	}
	return groupDecimal(s)
}

// roundCompact applies compact rounding to a non-negative scaled value.
func roundCompact(v decimal.Decimal) decimal.Decimal {
	if v.IsZero() || v.GreaterThanOrEqual(ten) {
		return v.Round(0)
	}
	places := int32(compactSignificant - 1)
	for places < maxSignificantShift && v.Shift(places).LessThan(ten) {
		places++
	}
	return v.Round(places)
}

func signOf(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return ""
}

// groupDecimal inserts thousands separators into the integer part of an
// unsigned decimal string.
func groupDecimal(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	grouped := groupInteger(intPart)
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}

func groupInteger(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return printer.Sprintf("%d", n)
	}

	// Beyond int64: group by hand.
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
