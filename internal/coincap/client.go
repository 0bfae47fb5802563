// Package coincap is a minimal client for the CoinCap v2 asset endpoint.
package coincap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/coinfocus/internal/logging"
)

// DefaultBaseURL is the public CoinCap v2 API root.
const DefaultBaseURL = "https://api.coincap.io/v2"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// errEmptyIdentifier is reported when FetchAsset is called without an identifier.
var errEmptyIdentifier = errors.New("identifier is empty")

// Client fetches single assets. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a mirror or a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the fallback logger used when the request context carries none.
// l must not already carry a component field.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.ComponentLogger(l, "coincap")
	}
}

// NewClient creates a Client. No request timeout is applied; the API's own
// behaviour bounds latency.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		userAgent:  "coinfocus",
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AssetURL returns the endpoint URL for identifier.
func (c *Client) AssetURL(identifier string) string {
	return c.baseURL + "/assets/" + url.PathEscape(identifier)
}

// FetchAsset issues exactly one GET for identifier and classifies the outcome.
// It never returns a Go error; failures are carried in the Result.
func (c *Client) FetchAsset(ctx context.Context, identifier string) Result {
	identifier = strings.TrimSpace(identifier)
	logger := c.loggerFor(ctx).With().Str("identifier", identifier).Logger()

	if identifier == "" {
		return c.fail(logger, &Error{Kind: KindAPI, Identifier: identifier, Err: errEmptyIdentifier})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AssetURL(identifier), nil)
	if err != nil {
		return c.fail(logger, &Error{Kind: KindTransport, Identifier: identifier, Err: err})
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	logger.Debug().Str("url", req.URL.String()).Msg("fetching asset")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(logger, &Error{Kind: KindTransport, Identifier: identifier, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.fail(logger, &Error{
			Kind: KindTransport, Identifier: identifier, Status: resp.StatusCode, Err: err,
		})
	}

	result := decodeAsset(identifier, resp.StatusCode, body)
	if !result.IsOk() {
		return c.fail(logger, result.Reason())
	}

	logger.Debug().Int("status", resp.StatusCode).Msg("asset fetched")
	return result
}

// decodeAsset turns a response into a Result. An "error" key wins over the status
// code; a non-2xx status without one is still an API failure.
func decodeAsset(identifier string, status int, body []byte) Result {
	var env assetEnvelope
	decodeErr := json.Unmarshal(body, &env)

	if decodeErr == nil && env.Error.present {
		return Err(&Error{
			Kind:       KindAPI,
			Identifier: identifier,
			Status:     status,
			Message:    errorMessage(env.Error.value),
		})
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return Err(&Error{
			Kind:       KindAPI,
			Identifier: identifier,
			Status:     status,
			Message:    http.StatusText(status),
		})
	}

	if decodeErr != nil {
		return Err(&Error{
			Kind: KindMalformed, Identifier: identifier, Status: status,
			Err: fmt.Errorf("decoding body: %w", decodeErr),
		})
	}

	if env.Data == nil {
		return Err(&Error{
			Kind: KindMalformed, Identifier: identifier, Status: status,
			Message: "response has no data",
		})
	}

	return Ok(*env.Data)
}

// errorMessage renders the raw "error" value; strings are unquoted.
func errorMessage(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (c *Client) fail(logger zerolog.Logger, err error) Result {
	kind, _ := KindOf(err)
	logger.Warn().Err(err).Str("kind", kind.String()).Msg("asset fetch failed")
	return Err(err)
}

func (c *Client) loggerFor(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return logging.ComponentLogger(*logging.FromContext(ctx), "coincap")
	}
	return c.logger
}
