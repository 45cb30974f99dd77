package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"stockpipe/internal/domain"
)

// ErrUnavailable marks a quote that could not be fetched: transport failure,
// non-2xx status, or a missing/empty payload section. Callers skip the symbol.
var ErrUnavailable = errors.New("quote unavailable")

const defaultBaseURL = "https://www.alphavantage.co/query"

// Client fetches GLOBAL_QUOTE snapshots from the Alpha Vantage REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(apiKey string, timeout time.Duration, options ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

// Fetch issues one GET for the symbol. No retry: the orchestrator owns the
// decision of what to do with an unavailable symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) (domain.RawQuote, error) {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	log.Info().Str("symbol", symbol).Msg("fetching quote")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Str("symbol", symbol).Msg("fetch failed")
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("decode failed")
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	if len(payload.GlobalQuote) == 0 {
		log.Warn().Str("symbol", symbol).Msg("no data available")
		return nil, fmt.Errorf("%w: empty payload", ErrUnavailable)
	}

	return domain.RawQuote(payload.GlobalQuote), nil
}
