// Package postman talks to the Postman REST API and converts collections to
// and from the request tree.
package postman

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/artpar/postdeck/internal/logging"
)

// DefaultBaseURL is the public Postman API.
const DefaultBaseURL = "https://api.getpostman.com"

// previewLen bounds the body excerpt quoted in parse errors.
const previewLen = 500

var (
	// ErrNoAPIKey is returned by NewClient when the key is empty.
	ErrNoAPIKey = errors.New("postman api key is not set")
	// ErrNotFound is returned when a path or uid does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx reply from the API.
type APIError struct {
	Status string
	Code   int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned error %s: %s", e.Status, e.Body)
}

// Is matches ErrNotFound for 404 replies.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Client is a Postman API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client for apiKey.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListWorkspaces returns every workspace the key can see.
func (c *Client) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	var out struct {
		Workspaces []Workspace `json:"workspaces"`
	}
	if err := c.get(ctx, "/workspaces", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch workspaces: %w", err)
	}
	return out.Workspaces, nil
}

// ListCollections returns the collections of a workspace, or all of them
// when workspaceID is empty.
func (c *Client) ListCollections(ctx context.Context, workspaceID string) ([]CollectionInfo, error) {
	var out struct {
		Collections []CollectionInfo `json:"collections"`
	}
	if err := c.get(ctx, "/collections", workspaceQuery(workspaceID), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}
	return out.Collections, nil
}

// GetCollection fetches a full collection.
func (c *Client) GetCollection(ctx context.Context, uid string) (*Collection, error) {
	var out struct {
		Collection Collection `json:"collection"`
	}
	if err := c.get(ctx, "/collections/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch collection %s: %w", uid, err)
	}
	return &out.Collection, nil
}

// UpdateCollection replaces the items of a collection.
func (c *Client) UpdateCollection(ctx context.Context, uid string, col *Collection) error {
	info := col.Info
	info.Schema = SchemaURL
	payload := map[string]any{
		"collection": Collection{
			Info:     info,
			Item:     col.Item,
			Variable: col.Variable,
			Auth:     col.Auth,
			Event:    col.Event,
		},
	}
	if err := c.send(ctx, http.MethodPut, "/collections/"+url.PathEscape(uid), payload); err != nil {
		return fmt.Errorf("failed to update collection %s: %w", uid, err)
	}
	return nil
}

// UpdateRequest updates a single request in place. Unlike UpdateCollection
// it is not rejected because of unrelated invalid requests.
func (c *Client) UpdateRequest(ctx context.Context, collectionUID, requestID string, it Item) error {
	if it.Request == nil {
		return fmt.Errorf("item %q is not a request", it.Name)
	}
	path := fmt.Sprintf("/collections/%s/requests/%s", url.PathEscape(collectionUID), url.PathEscape(requestID))
	payload := map[string]any{
		"name":    it.Name,
		"request": it.Request,
	}
	if err := c.send(ctx, http.MethodPut, path, payload); err != nil {
		return fmt.Errorf("failed to update request %s: %w", requestID, err)
	}
	return nil
}

// ListEnvironments returns the environments of a workspace, or all of them
// when workspaceID is empty.
func (c *Client) ListEnvironments(ctx context.Context, workspaceID string) ([]EnvironmentInfo, error) {
	var out struct {
		Environments []EnvironmentInfo `json:"environments"`
	}
	if err := c.get(ctx, "/environments", workspaceQuery(workspaceID), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch environments: %w", err)
	}
	return out.Environments, nil
}

// GetEnvironment fetches an environment with its values.
func (c *Client) GetEnvironment(ctx context.Context, uid string) (*Environment, error) {
	var out struct {
		Environment Environment `json:"environment"`
	}
	if err := c.get(ctx, "/environments/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch environment %s: %w", uid, err)
	}
	return &out.Environment, nil
}

// UpdateEnvironment replaces the values of an environment. The API rejects
// empty keys, so those are sent as NOT_SET.
func (c *Client) UpdateEnvironment(ctx context.Context, uid string, env *Environment) error {
	values := make([]Variable, len(env.Values))
	for i, v := range env.Values {
		if strings.TrimSpace(v.Key) == "" {
			v.Key = "NOT_SET"
		}
		values[i] = v
	}
	payload := map[string]any{
		"environment": map[string]any{
			"name":   env.Name,
			"values": values,
		},
	}
	if err := c.send(ctx, http.MethodPut, "/environments/"+url.PathEscape(uid), payload); err != nil {
		return fmt.Errorf("failed to update environment %s: %w", uid, err)
	}
	return nil
}

func workspaceQuery(id string) url.Values {
	if id == "" {
		return nil
	}
	return url.Values{"workspace": {id}}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		preview := string(body)
		if len(preview) > previewLen {
			preview = preview[:previewLen]
		}
		return fmt.Errorf("failed to parse response: %w. Response preview: %s", err, preview)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	_, err = c.do(ctx, method, path, nil, data)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	logging.Debug("postman api call",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.Status, Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
