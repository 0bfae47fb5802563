package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/coinfocus/internal/asset"
	"github.com/rshade/coinfocus/internal/coincap"
	"github.com/rshade/coinfocus/internal/detail"
)

type mapFetcher struct {
	mu     sync.Mutex
	assets map[string]coincap.RawAsset
	calls  []string
}

func (f *mapFetcher) FetchAsset(_ context.Context, identifier string) coincap.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, identifier)
	if raw, ok := f.assets[identifier]; ok {
		return coincap.Ok(raw)
	}
	return coincap.Err(&coincap.Error{Kind: coincap.KindAPI, Identifier: identifier, Message: "not found"})
}

func (f *mapFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testServer(t *testing.T, opts ...Option) (*Server, *mapFetcher) {
	t.Helper()
	f := &mapFetcher{assets: map[string]coincap.RawAsset{
		"bitcoin": {
			ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC",
			PriceUsd: "43210.1234", MarketCapUsd: "844000000000", VolumeUsd24Hr: "1234567890",
			ChangePercent24Hr: "5",
		},
		"ethereum": {
			ID: "ethereum", Name: "Ethereum", Symbol: "ETH",
			PriceUsd: "2000", MarketCapUsd: "240000000000", VolumeUsd24Hr: "45678",
			ChangePercent24Hr: "-3.2",
		},
		"broken": {
			ID: "broken", Name: "Broken", Symbol: "BRK",
			PriceUsd: "", MarketCapUsd: "1", VolumeUsd24Hr: "1", ChangePercent24Hr: "1",
		},
	}}
	srv, err := NewServer(f, opts...)
	require.NoError(t, err)
	return srv, f
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestNewServerNilFetcher(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestHandleHome(t *testing.T) {
	srv, f := testServer(t)

	rec := get(t, srv, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `action="/detail"`)
	assert.Contains(t, body, `name="cripto"`)
	assert.Zero(t, f.callCount())
}

func TestHandleDetailReady(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		contains    []string
		changeClass string
	}{
		{
			name: "profit",
			path: "/detail/bitcoin",
			contains: []string{
				"Bitcoin | BTC",
				"$43,210.12",
				"$844B",
				"$1.2B",
				"5.00",
				"https://assets.coincap.io/assets/icons/btc@2x.png",
			},
			changeClass: `class="profit"`,
		},
		{
			name: "loss",
			path: "/detail/ethereum",
			contains: []string{
				"Ethereum | ETH",
				"$2,000.00",
				"$240B",
				"$46K",
				"-3.20",
				"eth@2x.png",
			},
			changeClass: `class="loss"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, f := testServer(t)

			rec := get(t, srv, tt.path)

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
			assert.Contains(t, body, tt.changeClass)
			assert.Equal(t, 1, f.callCount(), "one fetch per request")
		})
	}
}

func TestHandleDetailRedirectsToRoot(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "unknown asset", path: "/detail/not-a-coin"},
		{name: "malformed numbers", path: "/detail/broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, f := testServer(t)

			rec := get(t, srv, tt.path)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, RootPath, rec.Header().Get("Location"))
			assert.NotContains(t, rec.Body.String(), "$")
			assert.Equal(t, 1, f.callCount())
		})
	}
}

func TestHandleDetailQuery(t *testing.T) {
	srv, f := testServer(t)

	rec := get(t, srv, "/detail?cripto=+bitcoin+")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/detail/bitcoin", rec.Header().Get("Location"))

	rec = get(t, srv, "/detail?cripto=")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, RootPath, rec.Header().Get("Location"))

	assert.Zero(t, f.callCount(), "the query form never fetches")
}

func TestHandleDetailDecodesPathOnce(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{target: "/detail/usd%20coin", want: "usd coin"},
		{target: "/detail/a%2541", want: "a%41"},
		{target: "/detail/a%2Fb", want: "a/b"},
		{target: "/detail/a%2F%2541", want: "a/%41"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			srv, f := testServer(t)

			get(t, srv, tt.target)

			require.Equal(t, 1, f.callCount())
			assert.Equal(t, tt.want, f.calls[0])
		})
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := testServer(t, WithVersion("1.2.3"))

	rec := get(t, srv, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestCORS(t *testing.T) {
	srv, _ := testServer(t, WithCORSOrigins("https://allowed.test"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://allowed.test")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, "https://allowed.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://other.test")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	srv, _ := testServer(t, WithLogger(zerolog.New(&buf)))

	get(t, srv, "/detail/not-a-coin")

	out := buf.String()
	assert.Contains(t, out, `"message":"http request"`)
	assert.Contains(t, out, `"status":302`)
	assert.Contains(t, out, `"trace_id"`)
	assert.Contains(t, out, `"kind":"api"`)

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Equal(t, 1, strings.Count(line, `"component":`), line)
	}
	assert.Contains(t, out, `"component":"web"`)
	assert.Contains(t, out, `"component":"detail"`)
}

func TestWithViewOptions(t *testing.T) {
	srv, _ := testServer(t, WithViewOptions(
		detail.WithAssetOptions(asset.WithIconTemplate("https://icons.test/%s.svg")),
	))

	rec := get(t, srv, "/detail/bitcoin")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://icons.test/btc.svg")
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, _ := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	assert.NoError(t, <-done)
}
