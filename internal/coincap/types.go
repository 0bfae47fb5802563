package coincap

// RawAsset is an asset exactly as the CoinCap v2 API returns it. Numeric values
// arrive as JSON strings and are left unparsed here.
type RawAsset struct {
	ID                string `json:"id"`
	Rank              string `json:"rank"`
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Supply            string `json:"supply"`
	MaxSupply         string `json:"maxSupply"`
	MarketCapUsd      string `json:"marketCapUsd"`
	VolumeUsd24Hr     string `json:"volumeUsd24Hr"`
	PriceUsd          string `json:"priceUsd"`
	ChangePercent24Hr string `json:"changePercent24Hr"`
	Vwap24Hr          string `json:"vwap24Hr"`
	Explorer          string `json:"explorer"`
}

// assetEnvelope is the response body of GET /assets/{id}. Exactly one of Data or
// Error is expected; Error is kept raw so that its presence can be detected even
// when the value is not a string.
type assetEnvelope struct {
	Data      *RawAsset `json:"data"`
	Error     rawField  `json:"error"`
	Timestamp int64     `json:"timestamp"`
}

// rawField records whether a key was present in the JSON object.
type rawField struct {
	present bool
	value   []byte
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *rawField) UnmarshalJSON(b []byte) error {
	f.present = true
	f.value = append(f.value[:0], b...)
	return nil
}
