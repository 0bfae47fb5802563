// Package asset turns raw CoinCap assets into display-ready values: en-US/USD
// currency strings, a rounded 24h change with a profit/loss tag, and the icon URL.
package asset

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rshade/coinfocus/internal/coincap"
)

// DefaultIconURLTemplate is the CoinCap icon host; %s is the lowercased symbol.
const DefaultIconURLTemplate = "https://assets.coincap.io/assets/icons/%s@2x.png"

// ErrInvalidAsset is wrapped by every NewDisplayAsset failure.
var ErrInvalidAsset = errors.New("invalid asset")

// Accepted numeric range. Formatting expands a decimal to its full digit
// string, so exponents are bounded before any arithmetic touches the value.
const (
	maxExponent  = 64
	maxMagnitude = 30
)

//nolint:gochecknoglobals // Read-only bound.
var magnitudeLimit = decimal.New(1, maxMagnitude)

// Style tags the sign of the 24h change.
type Style string

// Change styles, matching the stylesheet class names.
const (
	StyleProfit Style = "profit"
	StyleLoss   Style = "loss"
)

// Change is the 24h change percentage prepared for rendering.
type Change struct {
	Value decimal.Decimal
	// Text is Value rounded to two places, always with two fraction digits.
	Text  string
	Style Style
}

// ChangeOf rounds d to two places and tags it profit when d >= 0, loss otherwise.
func ChangeOf(d decimal.Decimal) Change {
	style := StyleProfit
	if d.IsNegative() {
		style = StyleLoss
	}
	return Change{
		Value: d,
		// Rounding to zero drops the sign: -0.001 is "0.00" tagged loss.
		Text:  d.StringFixed(2),
		Style: style,
	}
}

// IconURL interpolates the lowercased symbol into template.
func IconURL(template, symbol string) string {
	if template == "" {
		template = DefaultIconURLTemplate
	}
	return fmt.Sprintf(template, url.PathEscape(strings.ToLower(strings.TrimSpace(symbol))))
}

// DisplayAsset is a RawAsset plus its derived display fields. It is built once
// per successful fetch and never modified.
type DisplayAsset struct {
	raw       coincap.RawAsset
	price     decimal.Decimal
	marketCap decimal.Decimal
	volume    decimal.Decimal
	change    Change

	formattedPrice     string
	formattedMarketCap string
	formattedVolume    string
	iconURL            string
}

// Option configures NewDisplayAsset.
type Option func(*options)

type options struct {
	iconTemplate string
}

// WithIconTemplate overrides DefaultIconURLTemplate.
func WithIconTemplate(template string) Option {
	return func(o *options) {
		if template != "" {
			o.iconTemplate = template
		}
	}
}

// NewDisplayAsset validates raw and derives the display fields. Name and symbol
// must be present and the four numeric fields must parse as decimals no larger
// than 1e30 in magnitude.
func NewDisplayAsset(raw coincap.RawAsset, opts ...Option) (DisplayAsset, error) {
	o := options{iconTemplate: DefaultIconURLTemplate}
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(raw.Name) == "" {
		return DisplayAsset{}, fmt.Errorf("%w: name is empty", ErrInvalidAsset)
	}
	if strings.TrimSpace(raw.Symbol) == "" {
		return DisplayAsset{}, fmt.Errorf("%w: symbol is empty", ErrInvalidAsset)
	}

	price, err := parseNumber("priceUsd", raw.PriceUsd)
	if err != nil {
		return DisplayAsset{}, err
	}
	marketCap, err := parseNumber("marketCapUsd", raw.MarketCapUsd)
	if err != nil {
		return DisplayAsset{}, err
	}
	volume, err := parseNumber("volumeUsd24Hr", raw.VolumeUsd24Hr)
	if err != nil {
		return DisplayAsset{}, err
	}
	change, err := parseNumber("changePercent24Hr", raw.ChangePercent24Hr)
	if err != nil {
		return DisplayAsset{}, err
	}

	return DisplayAsset{
		raw:                raw,
		price:              price,
		marketCap:          marketCap,
		volume:             volume,
		change:             ChangeOf(change),
		formattedPrice:     FormatCurrency(price),
		formattedMarketCap: FormatCompactCurrency(marketCap),
		formattedVolume:    FormatCompactCurrency(volume),
		iconURL:            IconURL(o.iconTemplate, raw.Symbol),
	}, nil
}

func parseNumber(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q is not a number: %w", ErrInvalidAsset, field, value, err)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent || d.Abs().GreaterThan(magnitudeLimit) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q is out of range", ErrInvalidAsset, field, value)
	}
	return d, nil
}

// Raw returns the asset as received.
func (a DisplayAsset) Raw() coincap.RawAsset { return a.raw }

// ID returns the API identifier.
func (a DisplayAsset) ID() string { return a.raw.ID }

// Name returns the asset name.
func (a DisplayAsset) Name() string { return a.raw.Name }

// Symbol returns the ticker symbol as received.
func (a DisplayAsset) Symbol() string { return a.raw.Symbol }

// Price returns the parsed USD price.
func (a DisplayAsset) Price() decimal.Decimal { return a.price }

// MarketCap returns the parsed USD market cap.
func (a DisplayAsset) MarketCap() decimal.Decimal { return a.marketCap }

// Volume returns the parsed 24h USD volume.
func (a DisplayAsset) Volume() decimal.Decimal { return a.volume }

// Change returns the 24h change prepared for rendering.
func (a DisplayAsset) Change() Change { return a.change }

// FormattedPrice is the price in standard currency notation.
func (a DisplayAsset) FormattedPrice() string { return a.formattedPrice }

// FormattedMarketCap is the market cap in compact currency notation.
func (a DisplayAsset) FormattedMarketCap() string { return a.formattedMarketCap }

// FormattedVolume is the 24h volume in compact currency notation.
func (a DisplayAsset) FormattedVolume() string { return a.formattedVolume }

// IconURL is the asset icon location.
func (a DisplayAsset) IconURL() string { return a.iconURL }

// IsZero reports whether a is the zero DisplayAsset.
func (a DisplayAsset) IsZero() bool { return a.formattedPrice == "" }
