package extractfavicon

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client performs the network side of discovery and probing: reachability
// checks and streaming fetches. It wraps a shared *http.Client so callers
// can inject their own transport (proxies, custom TLS, test servers).
//
// A Client is safe for concurrent use; it holds no mutable state beyond the
// underlying http.Client's connection pool.
type Client struct {
	// hc is the underlying HTTP client. Redirect following is left to it.
	hc *http.Client

	// userAgent is sent on every request.
	userAgent string

	// maxBodySize caps how much of a page body is read when fetching
	// markup. Probing has its own, much smaller, byte budget.
	maxBodySize int64

	// logger receives debug-level request outcomes.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client. Use this to route
// requests through a proxy or to set custom timeouts.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize caps the number of page bytes read when fetching markup.
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithLogger sets the logger used for request-level debug output.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client with sane defaults: a 30 second request
// timeout, a browser-like User-Agent, and a 5MB page cap.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		hc:          &http.Client{Timeout: 30 * time.Second},
		userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		maxBodySize: 5 * 1024 * 1024,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckResult is the outcome of one reachability check.
type CheckResult struct {
	// Success is true for any 2xx response.
	Success bool

	// StatusCode is the final HTTP status, -1 when the request failed
	// below the HTTP layer.
	StatusCode int

	// FinalURL is the URL after following redirects.
	FinalURL string

	// Redirected reports whether the final URL differs from the
	// requested one.
	Redirected bool
}

// Check performs a lightweight existence check for a URL. With headOnly it
// issues a HEAD request and falls back to GET when the server rejects HEAD
// (405 or 501); otherwise it issues a GET and discards the body.
func (c *Client) Check(ctx context.Context, rawURL string, headOnly bool) CheckResult {
	method := http.MethodGet
	if headOnly {
		method = http.MethodHead
	}

	resp, err := c.do(ctx, method, rawURL)
	if err != nil {
		c.logger.Debug("availability check failed", "url", rawURL, "error", err)
		return CheckResult{Success: false, StatusCode: -1, FinalURL: rawURL}
	}

	// Some servers refuse HEAD outright; retry once with GET.
	if headOnly && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		drain(resp)
		resp, err = c.do(ctx, http.MethodGet, rawURL)
		if err != nil {
			c.logger.Debug("availability check failed", "url", rawURL, "error", err)
			return CheckResult{Success: false, StatusCode: -1, FinalURL: rawURL}
		}
	}
	defer drain(resp)

	final := resp.Request.URL.String()
	return CheckResult{
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		FinalURL:   final,
		Redirected: final != rawURL,
	}
}

// open starts a streaming GET. The caller owns the response body and must
// close it; closing early aborts the transfer, which is how probing bounds
// its byte usage.
func (c *Client) open(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.hc.Do(req)
}

// do issues a request and returns the response with its body still open.
func (c *Client) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.hc.Do(req)
}

// drain discards any remaining body bytes and closes the response so the
// underlying connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 32*1024))
	_ = resp.Body.Close()
}
