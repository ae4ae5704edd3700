// Package transport provides the HTTP client shared by the query service
// and the authority adapters. It sets a descriptive User-Agent, applies
// an optional per-client request limit, and caches ok responses for the
// lifetime of one invocation.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Response is the status and body of a completed request.
type Response struct {
	OK         bool
	StatusCode int
	Body       []byte
}

// Client performs GET requests against one endpoint family.
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	cache     *Cache
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit caps requests per second. Zero or negative disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithCache caches ok responses by URL and Accept header.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: constants.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url with the given Accept header. A non-2xx status is not
// an error: it is reported through Response.OK so that callers decide how
// to surface it. Errors are returned only when no response was received.
func (c *Client) Get(ctx context.Context, url, accept string) (*Response, error) {
	key := accept + " " + url
	if c.cache != nil {
		if resp, ok := c.cache.Get(key); ok {
			logging.FromContext(ctx).Trace().Str("url", url).Msg("Response cache hit")
			return resp, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapValidation("url", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapIO("get", url, err)
	}
	defer func() {
		if cerr := httpResp.Body.Close(); cerr != nil {
			logging.FromContext(ctx).Warn().Err(cerr).Str("url", url).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	resp := &Response{
		OK:         httpResp.StatusCode >= 200 && httpResp.StatusCode < 300,
		StatusCode: httpResp.StatusCode,
		Body:       body,
	}
	logging.FromContext(ctx).Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("HTTP GET")

	if resp.OK && c.cache != nil {
		c.cache.Set(key, resp)
	}
	return resp, nil
}
