// Package api wraps the Teamized REST API: a thin JSON-over-HTTP transport
// plus typed endpoint wrappers. Responses arrive in envelopes keyed by
// entity name ({"team": {...}}) or plural entity name ({"teams": [...]}),
// optionally carrying an "alert" presentation hint.
package api

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

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// RequestError is a failed API call: a transport-level error or a non-2xx
// response with the server's message/error fields attached.
type RequestError struct {
	Status     int
	StatusText string
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.StatusText)
}

// errorBody is the JSON shape of non-2xx responses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client is a Teamized API client bound to one base URL and session token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the client's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API at baseURL authenticated with the
// given session token. An already-expired token is logged immediately so
// the failure mode is visible before the first request.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if exp, ok := TokenExpiry(token); ok && exp.Before(time.Now()) {
		c.logger.Warn("session token is expired", zap.Time("expired_at", exp))
	}
	return c
}

// Get performs a GET request and decodes the response envelope into out.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post performs a POST request with a JSON payload.
func (c *Client) Post(ctx context.Context, endpoint string, payload, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, payload, out)
}

// Put performs a PUT request with a JSON payload.
func (c *Client) Put(ctx context.Context, endpoint string, payload, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, payload, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encoding %s %s payload: %w", method, endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("api: building %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, endpoint, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("closing response body", zap.Error(cerr))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: reading %s %s response: %w", method, endpoint, err)
	}

	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &RequestError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
		var eb errorBody
		if jsonErr := json.Unmarshal(data, &eb); jsonErr == nil {
			reqErr.Message = eb.Message
			if reqErr.Message == "" {
				reqErr.Message = eb.Error
			}
		}
		return reqErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decoding %s %s response: %w", method, endpoint, err)
	}
	return nil
}

// IsStatus reports whether err is a RequestError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == status
}
