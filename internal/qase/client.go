package qase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public Qase TestOps API endpoint.
const DefaultBaseURL = "https://api.qase.io/v1"

// defaultPageLimit is the maximum page size the API accepts.
const defaultPageLimit = 100

// Client is a high-level client for the Qase API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// New creates a new Client for the given Qase instance. The token is sent
// as a Token header on every request.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("qase: baseURL is required")
	}
	if token == "" {
		return nil, fmt.Errorf("qase: token is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// Project returns a scope for project-level operations (test cases,
// external issue links) under the given project code.
func (c *Client) Project(code string) *ProjectScope {
	return &ProjectScope{client: c, code: code}
}

// envelope is the wrapper Qase puts around every response body.
type envelope struct {
	Status       bool            `json:"status"`
	Result       json.RawMessage `json:"result"`
	ErrorMessage string          `json:"errorMessage"`
}

// paged is the result shape of every list endpoint.
type paged[T any] struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Count    int `json:"count"`
	Entities []T `json:"entities"`
}

// doJSON executes an HTTP request and decodes the enveloped JSON response
// into dst. Error statuses and status:false envelopes return an *APIError.
func (c *Client) doJSON(ctx context.Context, method, url, operation string, body io.Reader, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Token", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "API request", "operation", operation, "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var env envelope
		if json.Unmarshal(respBody, &env) == nil && env.ErrorMessage != "" {
			return newAPIError(operation, resp.StatusCode, env.ErrorMessage)
		}
		msg := string(respBody)
		if msg == "" {
			msg = resp.Status
		}
		return newAPIError(operation, resp.StatusCode, msg)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if !env.Status {
		msg := env.ErrorMessage
		if msg == "" {
			msg = "API returned status=false"
		}
		return newAPIError(operation, resp.StatusCode, msg)
	}

	if dst != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, dst); err != nil {
			return fmt.Errorf("%s: decode result: %w", operation, err)
		}
	}
	return nil
}

// listAll pages through a list endpoint until the running offset covers the
// reported total or a page comes back empty.
func listAll[T any](ctx context.Context, c *Client, urlFn func(limit, offset int) string, operation string) ([]T, error) {
	var all []T
	offset := 0

	for {
		var page paged[T]
		if err := c.doJSON(ctx, http.MethodGet, urlFn(defaultPageLimit, offset), operation, nil, &page); err != nil {
			return nil, err
		}

		all = append(all, page.Entities...)
		c.logger.DebugContext(ctx, "page fetched",
			"operation", operation, "offset", offset, "count", page.Count, "total", page.Total)

		if offset+page.Count >= page.Total || len(page.Entities) == 0 {
			return all, nil
		}
		offset += page.Count
	}
}
