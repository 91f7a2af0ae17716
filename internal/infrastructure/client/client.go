// Package client talks to the MetaBooks REST backend. It implements the
// record transport and lookup source used by the CLI tables.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "metabooks-cli/1.0"

// RetryConfig configures retry behavior. Only GET requests are retried.
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		RetryDelay: 200 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
	}
}

// Client is the REST client of the backend
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiPrefix  string
	headers    map[string]string
	retry      RetryConfig
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry replaces the retry configuration
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithRateLimit throttles requests to rps per second; 0 disables it
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithHeader adds a default header to every request
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithLogger sets the logger used for retry diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the backend at baseURL with the API served
// below apiPrefix (e.g. "/api/v1")
func New(baseURL, apiPrefix string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    u,
		apiPrefix:  "/" + strings.Trim(apiPrefix, "/"),
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": userAgent,
		},
		retry:  DefaultRetryConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig creates a client from the client section of the config
func NewFromConfig(cfg config.ClientConfig, log *zap.Logger) (*Client, error) {
	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	if cfg.RetryBackoff > 0 {
		retry.RetryDelay = cfg.RetryBackoff
	}
	return New(cfg.BaseURL, cfg.APIPrefix,
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithRetry(retry),
		WithRateLimit(cfg.RateLimit),
		WithLogger(log),
	)
}

// List implements records.Transport
func (c *Client) List(ctx context.Context, resourcePath string, out any) error {
	return c.do(ctx, http.MethodGet, resourcePath, nil, nil, out)
}

// Search lists the records matching query using the server side filter
func (c *Client) Search(ctx context.Context, resourcePath, query string, out any) error {
	return c.do(ctx, http.MethodGet, resourcePath, url.Values{"search": {query}}, nil, out)
}

// Get fetches one record
func (c *Client) Get(ctx context.Context, resourcePath string, id uint, out any) error {
	return c.do(ctx, http.MethodGet, itemPath(resourcePath, id), nil, nil, out)
}

// Create implements records.Transport
func (c *Client) Create(ctx context.Context, resourcePath string, payload records.Payload, out any) error {
	return c.do(ctx, http.MethodPost, resourcePath, nil, payload, out)
}

// Update implements records.Transport
func (c *Client) Update(ctx context.Context, resourcePath string, id uint, payload records.Payload, out any) error {
	return c.do(ctx, http.MethodPut, itemPath(resourcePath, id), nil, payload, out)
}

// Delete implements records.Transport
func (c *Client) Delete(ctx context.Context, resourcePath string, id uint) error {
	return c.do(ctx, http.MethodDelete, itemPath(resourcePath, id), nil, nil, nil)
}

// Lookup implements records.LookupSource
func (c *Client) Lookup(ctx context.Context, resource string) (shared.References, error) {
	var refs shared.References
	if err := c.do(ctx, http.MethodGet, "lookups/"+resource, nil, nil, &refs); err != nil {
		return nil, err
	}
	if refs == nil {
		refs = shared.References{}
	}
	return refs, nil
}

// Modules fetches the resource catalogue
func (c *Client) Modules(ctx context.Context, out any) error {
	return c.do(ctx, http.MethodGet, "modules", nil, nil, out)
}

func itemPath(resourcePath string, id uint) string {
	return resourcePath + "/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) buildURL(p string, query url.Values) string {
	u := *c.baseURL
	u.Path = path.Join("/", c.baseURL.Path, c.apiPrefix, p)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one logical request. GETs are retried on network errors, 5xx
// and 429; writes are sent exactly once.
func (c *Client) do(ctx context.Context, method, p string, query url.Values, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}
	target := c.buildURL(p, query)

	attempts := 1
	if method == http.MethodGet {
		attempts += max(c.retry.MaxRetries, 0)
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			c.logger.Debug("retrying request",
				zap.String("method", method),
				zap.String("url", target),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		status, data, err := c.send(ctx, method, target, payload)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%s %s: %w", method, target, err)
			continue
		}
		if status >= 200 && status < 300 {
			return decode(data, out)
		}

		apiErr := newAPIError(status, data)
		if !apiErr.Temporary() {
			return apiErr
		}
		lastErr = apiErr
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}
	}

	// a fresh reader per attempt, a retried request must resend the body
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := float64(c.retry.RetryDelay) * math.Pow(c.retry.Multiplier, float64(attempt-1))
	if c.retry.MaxDelay > 0 && delay > float64(c.retry.MaxDelay) {
		delay = float64(c.retry.MaxDelay)
	}
	// ±25% jitter
	jitter := delay * 0.25
	return time.Duration(delay + (rand.Float64()*2-1)*jitter)
}

// decode accepts the {success, data} envelope or a bare JSON value
func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Success != nil {
		data = envelope.Data
		if len(data) == 0 {
			return nil
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
