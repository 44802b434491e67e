package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBodySize bounds the feed script read into memory. A full
// general-election payload with every riding is a few hundred kilobytes.
const maxResponseBodySize = 8 << 20 // 8MiB

// one feed host, one request in flight
const (
	defaultMaxIdleConns        = 4
	defaultMaxIdleConnsPerHost = 2
	defaultMaxConnsPerHost     = 2
	defaultIdleConnTimeout     = 60 * time.Second
)

// Response holds the result of an HTTP request made by [Client].
type Response struct {
	// Body contains the HTTP response body, limited to 8MiB.
	Body []byte

	// StatusCode is the HTTP status code.
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the total time taken for the request.
	Latency time.Duration

	// Error contains any error that occurred during the request.
	// nil indicates the request completed (though status may indicate an error).
	Error error
}

// Client is an HTTP client wrapper for fetching the results feed.
//
// Client uses per-request timeouts via context rather than a global timeout.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new feed [Client].
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// Fetch performs a GET request and returns a structured [Response].
//
// The timeout is applied via context cancellation. Fetch always returns a
// Response; errors are captured in the Error field rather than returned
// separately.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string, timeout time.Duration) Response {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
