// Package covidapi is the data access layer for the COVID-19 sentiment
// backend. Every call is memoized per (endpoint, parameters) for the lifetime
// of the Client.
package covidapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Client provides cached access to the backend JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used to report failed requests.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithCache shares an existing cache between clients.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient creates a client for the API rooted at baseURL (e.g.
// "http://localhost:5000/api").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      NewCache(),
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Cache exposes the client's response cache.
func (c *Client) Cache() *Cache { return c.cache }

// URL returns the request URL for an endpoint call.
func (c *Client) URL(endpoint string, params Params) string {
	u := c.baseURL + "/" + endpoint
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// Fetch returns the JSON body for endpoint+params, serving it from the cache
// when the same call has succeeded before. Failures are logged, returned and
// never cached.
func (c *Client) Fetch(ctx context.Context, endpoint string, params Params) (json.RawMessage, error) {
	key := CacheKey(endpoint, params)
	if body, ok := c.cache.Get(key); ok {
		return body, nil
	}

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		c.log.Error("fetching data", "endpoint", endpoint, "params", params.Encode(), "error", err)
		return nil, err
	}
	return c.cache.Put(key, body), nil
}

// FetchInto fetches endpoint+params and decodes the body into v.
func (c *Client) FetchInto(ctx context.Context, endpoint string, params Params, v any) error {
	body, err := c.Fetch(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params Params) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint, params), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	if !sonic.Valid(body) {
		return nil, fmt.Errorf("decoding %s: response is not valid JSON", endpoint)
	}
	return json.RawMessage(body), nil
}
