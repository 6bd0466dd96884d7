// Package client reads a running LivePlot instance over its JSON API.
//
// It is used by the watch command to follow a remote dashboard from a
// terminal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

const (
	defaultTimeout         = 5 * time.Second
	defaultMaxIdleConns    = 10
	defaultIdleConnTimeout = 60 * time.Second
)

// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Series is the decoded body of GET /api/series.
type Series struct {
	Capacity int       `json:"capacity"`
	Indices  []int64   `json:"indices"`
	SeriesA  []int     `json:"series_a"`
	SeriesB  []float64 `json:"series_b"`
}

// Len returns the number of retained samples.
func (s Series) Len() int {
	return len(s.Indices)
}

// Latest returns the newest sample's index and values. ok is false when the
// series is empty.
func (s Series) Latest() (index int64, valueA int, valueB float64, ok bool) {
	n := len(s.Indices)
	if n == 0 || len(s.SeriesA) != n || len(s.SeriesB) != n {
		return 0, 0, 0, false
	}
	return s.Indices[n-1], s.SeriesA[n-1], s.SeriesB[n-1], true
}

// Client is an HTTP client for one LivePlot base URL.
//
// Client applies a per-request timeout via context rather than a global
// client timeout. Response bodies are limited to 1MB.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a [Client] for baseURL, e.g. "http://localhost:8080".
//
// A timeout of zero or less uses 5 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConns,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// Series fetches the current snapshot.
func (c *Client) Series(ctx context.Context) (Series, error) {
	var s Series
	if err := c.do(ctx, http.MethodGet, "/api/series", nil, &s); err != nil {
		return Series{}, err
	}
	return s, nil
}

type messageBody struct {
	Message string `json:"message"`
}

// Message fetches the current banner message.
func (c *Client) Message(ctx context.Context) (string, error) {
	var m messageBody
	if err := c.do(ctx, http.MethodGet, "/api/message", nil, &m); err != nil {
		return "", err
	}
	return m.Message, nil
}

// SetMessage replaces the banner message and returns the stored value.
func (c *Client) SetMessage(ctx context.Context, msg string) (string, error) {
	body, err := json.Marshal(messageBody{Message: msg})
	if err != nil {
		return "", err
	}
	var m messageBody
	if err := c.do(ctx, http.MethodPost, "/api/message", body, &m); err != nil {
		return "", err
	}
	return m.Message, nil
}

// do performs one request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	limited := io.LimitReader(resp.Body, maxResponseBodySize)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, limited)
		return fmt.Errorf("%w: %s %s returned %d", ErrUnexpectedStatus, method, path, resp.StatusCode)
	}

	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	// drain so the connection goes back to the pool
	_, _ = io.Copy(io.Discard, limited)
	return nil
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
