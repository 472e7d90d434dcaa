// Package transport provides a tuned HTTP client for Coral server
// requests: connection pooling, retries on transient failures, and rate
// limiting.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options configures the HTTP client.
type Options struct {
	Timeout      time.Duration
	RetryMax     int
	RetryBackoff time.Duration
	MaxIdleConns int
	IdleConnTTL  time.Duration
	Headers      map[string]string
	// RequestsPerSecond throttles outgoing requests. Zero disables
	// throttling.
	RequestsPerSecond float64
}

// Client is a tuned HTTP client with retry logic.
type Client struct {
	client  *http.Client
	opts    Options
	limiter *Limiter
}

// New creates a new HTTP client with the specified options.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryMax == 0 {
		opts.RetryMax = 3
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Second
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 10
	}
	if opts.IdleConnTTL == 0 {
		opts.IdleConnTTL = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConns,
		IdleConnTimeout:     opts.IdleConnTTL,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts:    opts,
		limiter: NewLimiter(opts.RequestsPerSecond),
	}
}

// Do performs an HTTP request with rate limiting and retries on 5xx and
// 429 responses.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}

	var lastErr error
	for attempt := 0; attempt <= c.opts.RetryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.opts.RetryBackoff * time.Duration(attempt)):
			}
			// The body was consumed by the previous attempt.
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				req.Body = body
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req.WithContext(ctx))
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close() // retrying, close errors are irrelevant
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			continue
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("request failed after %d retries", c.opts.RetryMax)
	}
	return nil, lastErr
}

// GetJSON performs a GET request and decodes the JSON response into out
// when out is non-nil. It returns the HTTP status code.
func (c *Client) GetJSON(ctx context.Context, url string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	return c.doJSON(ctx, req, out)
}

// PostJSON performs a POST request with a JSON body and decodes the JSON
// response into out when out is non-nil. It returns the HTTP status code.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return 0, err
	}
	return c.doJSON(ctx, req, out)
}

// doJSON executes the request and decodes a JSON body.
func (c *Client) doJSON(ctx context.Context, req *http.Request, out any) (int, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}
