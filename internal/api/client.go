// Package api is a typed JSON client for the sponsor wall backend.
//
// Every call is a single request: there are no retries, no client-side
// timeouts and no caching. Callers bound a call with the context they pass.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is where the backend listens in development.
const DefaultBaseURL = "http://localhost:3001"

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

// Observer is told about every finished request. status is 0 when the
// request never got a response.
type Observer func(method, path string, status int, elapsed time.Duration)

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	observe Observer
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

// New returns a client for the backend at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do issues one request. A nil out discards the response body, which is how
// endpoints without a meaningful body (DELETE, 204) are called.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Method: method, Path: path, Err: fmt.Errorf("encode request: %w", err)}
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return &RequestError{Method: method, Path: path, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.notify(method, path, 0, time.Since(start))
		logger.Warn("API request failed", zap.Error(err))
		return &RequestError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	c.notify(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Warn("API request returned an error status", zap.Int("status", resp.StatusCode))
		return &RequestError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Debug("API request done", zap.Int("status", resp.StatusCode))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn("API response could not be decoded", zap.Error(err))
		return &RequestError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	logger.Debug("API request done", zap.Int("status", resp.StatusCode))
	return nil
}

func (c *Client) notify(method, path string, status int, elapsed time.Duration) {
	if c.observe != nil {
		c.observe(method, path, status, elapsed)
	}
}

func escape(id string) string { return url.PathEscape(id) }
