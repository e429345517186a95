// Package jsonfetch executes GET requests against JSON catalog endpoints
// and image hosts.
package jsonfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pru/pkg/errors"
	"pru/pkg/logger"
)

// DefaultUserAgent identifies pru to the catalog.
const DefaultUserAgent = "pru/1.0 (+raw image utilities)"

// Waiter paces requests per URL.
type Waiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	limiter    Waiter
	logger     logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter paces every request through w
func WithLimiter(w Waiter) Option {
	return func(c *Client) { c.limiter = w }
}

// WithHeader sets a header sent on every request
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient creates a client with the given request timeout
func NewClient(timeout time.Duration, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
			"Accept":     "application/json, image/*;q=0.9, */*;q=0.8",
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchString GETs baseURL with params and returns the raw body.
func (c *Client) FetchString(ctx context.Context, baseURL string, params url.Values) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", &errors.Error{Type: errors.ErrorTypeUnknown, Message: "invalid base URL", Err: err}
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	body, err := c.get(ctx, u.String())
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchBytes GETs rawURL and returns the body, e.g. an image.
func (c *Client) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return nil, &errors.Error{Type: errors.ErrorTypeRateLimit, Message: "waiting for rate limiter", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &errors.Error{Type: errors.ErrorTypeUnknown, Message: "failed to create request", Err: err}
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}
	return body, nil
}

// doRequest performs an HTTP request with the configured headers. Failures
// are returned, never logged here; only timing goes to the debug log.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.Error{Type: errors.ErrorTypeNetwork, Message: "request failed", Err: err}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	return resp, nil
}

func checkResponseStatus(resp *http.Response) error {
	if !errors.IsStatusError(resp.StatusCode) {
		return nil
	}
	return &errors.Error{
		Type:    errors.TypeForStatus(resp.StatusCode),
		Message: fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, resp.Request.URL.Redacted()),
		Code:    resp.StatusCode,
	}
}
