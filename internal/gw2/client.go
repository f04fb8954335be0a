package gw2

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

const (
	// DefaultBaseURL is the public v2 API root
	DefaultBaseURL = "https://api.guildwars2.com/v2"

	// MaxIDsPerRequest is the API's cap on comma-joined id lists
	MaxIDsPerRequest = 200

	userAgent = "gw2catalog/1.0"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=gw2_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ domain.RemoteSource = (*Client)(nil)

// Client reads from the game data API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     *slog.Logger
	limiter    *rate.Limiter
	memo       *RequestCache
	maxIDs     int
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL sets the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit paces network calls to rps with the given burst. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRequestCache memoizes successful responses by canonical URL.
func WithRequestCache(memo *RequestCache) Option {
	return func(c *Client) {
		c.memo = memo
	}
}

// WithMaxIDsPerRequest overrides the chunk size for id lists.
func WithMaxIDsPerRequest(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxIDs = n
		}
	}
}

// NewClient creates an API client. Without WithRequestCache every call hits the network.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxIDs:     MaxIDsPerRequest,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestCache returns the response memo, or nil
func (c *Client) RequestCache() *RequestCache {
	return c.memo
}

// requestURL builds the canonical URL: url.Values.Encode sorts keys.
func (c *Client) requestURL(path string, query url.Values) string {
	if len(query) == 0 {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + query.Encode()
}

// doRequest performs a GET, going through the memo when one is configured.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.requestURL(path, query)
	if c.memo == nil {
		return c.send(ctx, path, reqURL)
	}

	body, cached, err := c.memo.Do(ctx, reqURL, func(ctx context.Context) ([]byte, error) {
		return c.send(ctx, path, reqURL)
	})
	if cached {
		c.logger.Debug("gw2 request memo hit", "url", reqURL)
	}
	return body, err
}

func (c *Client) send(ctx context.Context, path, reqURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("gw2 request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(endpointLabel(path), "error").Inc()
		c.logger.Error("gw2 request failed", "error", err, "url", reqURL)
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(endpointLabel(path), "error").Inc()
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrRemoteUnavailable, err)
	}

	// 206 means some of the requested ids were invalid; the body holds the rest
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		requestsTotal.WithLabelValues(endpointLabel(path), statusLabel(resp.StatusCode)).Inc()
		if resp.StatusCode != http.StatusNotFound {
			c.logger.Error("gw2 request error", "status", resp.StatusCode, "url", reqURL, "body", string(body))
		}
		return nil, &domain.APIError{Endpoint: path, Status: resp.StatusCode}
	}

	requestsTotal.WithLabelValues(endpointLabel(path), "ok").Inc()
	return body, nil
}
