// Package client is the Go SDK for the patent-intelligence HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const Version = "0.1.0"

// Logger is the minimal logging surface the SDK writes to.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Errorf(string, ...any) {}

// Client talks to one patent-intelligence API server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	search      *SearchClient
	searchOnce  sync.Once
	patents     *PatentsClient
	patentsOnce sync.Once
	trends      *TrendsClient
	trendsOnce  sync.Once
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("patent-intelligence: %s (HTTP %d): %s [request_id=%s]",
		e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool    { return e.StatusCode == http.StatusNotFound }
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 && e.StatusCode < 600 }

// NewClient creates an SDK client for the given server base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("client: baseURL must not be empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("patent-intelligence-go/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search returns the search sub-client.
func (c *Client) Search() *SearchClient {
	c.searchOnce.Do(func() { c.search = &SearchClient{client: c} })
	return c.search
}

// Patents returns the patents sub-client.
func (c *Client) Patents() *PatentsClient {
	c.patentsOnce.Do(func() { c.patents = &PatentsClient{client: c} })
	return c.patents
}

// Trends returns the trends sub-client.
func (c *Client) Trends() *TrendsClient {
	c.trendsOnce.Do(func() { c.trends = &TrendsClient{client: c} })
	return c.trends
}

// do performs one request with retries on network errors and 5xx responses.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			c.logger.Debugf("retry %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("client: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Errorf("request failed: %v", err)
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("client: read response body: %w", err)
		}
		c.logger.Debugf("%s %s %d", method, path, resp.StatusCode)

		if resp.StatusCode >= 400 {
			apiErr := decodeAPIError(resp, respBody)
			lastErr = apiErr
			if apiErr.IsServerError() && attempt < c.retryMax {
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("client: decode response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

func decodeAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = string(body)
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) backoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
	return backoff + jitter
}
