package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/artpar/postdeck/internal/core"
)

// Client executes saved requests over HTTP.
type Client struct {
	httpClient *http.Client
	config     Config
}

// Config holds HTTP client configuration.
type Config struct {
	Timeout        time.Duration
	FollowRedirect bool
	// MaxBodySize caps how much of a response body is read. Zero means no cap.
	MaxBodySize int64
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: Config{
			Timeout:        30 * time.Second,
			FollowRedirect: true,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// WithTransport sets a custom HTTP transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = transport
	}
}

// WithNoRedirects disables automatic redirect following.
func WithNoRedirects() Option {
	return func(c *Client) {
		c.config.FollowRedirect = false
		c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
}

// WithMaxBodySize limits the number of response bytes read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.config.MaxBodySize = n
	}
}

// Execute sends req and returns the response. Disabled headers and headers
// without a key are not sent; the body is sent as-is.
func (c *Client) Execute(ctx context.Context, req core.Request) (*core.Response, error) {
	startTime := time.Now()

	httpReq, err := c.toHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request to %s: %w", req.URL, err)
	}
	defer httpResp.Body.Close()

	var reader io.Reader = httpResp.Body
	if c.config.MaxBodySize > 0 {
		reader = io.LimitReader(httpResp.Body, c.config.MaxBodySize)
	}
	bodyBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return fromHTTPResponse(httpResp, bodyBytes, time.Since(startTime)), nil
}

// toHTTPRequest converts a core.Request to an http.Request.
func (c *Client) toHTTPRequest(ctx context.Context, req core.Request) (*http.Request, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("request %q has no URL", req.Name)
	}

	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, core.NormalizeMethod(req.Method), req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for _, h := range req.EnabledHeaders() {
		httpReq.Header.Add(h.Key, h.Value)
	}

	return httpReq, nil
}

// fromHTTPResponse converts an http.Response to a core.Response.
func fromHTTPResponse(httpResp *http.Response, bodyBytes []byte, elapsed time.Duration) *core.Response {
	keys := make([]string, 0, len(httpResp.Header))
	for key := range httpResp.Header {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var headers []core.Header
	for _, key := range keys {
		for _, value := range httpResp.Header[key] {
			headers = append(headers, core.Header{Key: key, Value: value})
		}
	}

	return &core.Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headers,
		Body:       string(bodyBytes),
		Duration:   elapsed,
		Size:       int64(len(bodyBytes)),
	}
}
