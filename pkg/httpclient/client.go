// Package httpclient fetches remote lesson banks over HTTP
// with timeouts and retry with backoff. The catalog loader
// uses it to load banks referenced by URL.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Option configures a BankClient via functional options.
type Option func(*BankClient)

// BankClient wraps net/http.Client for fetching lesson bank
// files. Defaults are suitable for small catalog files, so
// callers can use NewBankClient() with zero options.
type BankClient struct {
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	headers    map[string]string
	maxSize    int64
}

// NewBankClient creates a bank client. Pass Option values to
// override defaults.
func NewBankClient(opts ...Option) *BankClient {
	c := &BankClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retries: 3,
		backoff: 500 * time.Millisecond,
		headers: make(map[string]string),
		maxSize: 4 << 20, // 4 MiB is far beyond any sane bank
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *BankClient) { c.httpClient.Timeout = d }
}

// WithRetries overrides how many attempts are made before
// giving up.
func WithRetries(n int) Option {
	return func(c *BankClient) {
		if n > 0 {
			c.retries = n
		}
	}
}

// WithBackoff overrides the base delay between attempts. The
// delay doubles after each failure.
func WithBackoff(d time.Duration) Option {
	return func(c *BankClient) { c.backoff = d }
}

// WithHeader adds a header sent on every request (e.g. an
// authorization token for a private bank).
func WithHeader(key, value string) Option {
	return func(c *BankClient) { c.headers[key] = value }
}

// Fetch retrieves the bank at url. Network failures and 5xx
// responses are retried with doubling backoff; 4xx responses
// fail immediately.
func (c *BankClient) Fetch(
	ctx context.Context,
	url string,
) ([]byte, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		data, retriable, err := c.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retriable {
			return nil, err
		}
	}

	return nil, fmt.Errorf(
		"fetch %s: %d attempts failed: %w",
		url, c.retries, lastErr,
	)
}

// fetchOnce performs a single request. The second return value
// reports whether the failure is worth retrying.
func (c *BankClient) fetchOnce(
	ctx context.Context,
	url string,
) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, url, nil,
	)
	if err != nil {
		return nil, false, fmt.Errorf(
			"create request: %w", err,
		)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf(
			"server error: %s", resp.Status,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf(
			"unexpected status: %s", resp.Status,
		)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return data, false, nil
}
