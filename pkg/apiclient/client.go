// Package apiclient is a typed client for the inventory admin API.
package apiclient

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

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/pkg/listquery"
)

// Client talks to the admin API over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	debug      bool
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDebug logs every request and response body at debug level.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// New constructs a Client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token in use.
func (c *Client) Token() string {
	return c.token
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges admin credentials for a token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// List fetches one page of resource.
func List[T any](ctx context.Context, c *Client, resource string, params listquery.Params) (*listquery.Page[T], error) {
	var page listquery.Page[T]
	if err := c.do(ctx, http.MethodGet, "/"+resource, params.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single resource by id.
func Get[T any](ctx context.Context, c *Client, resource string, id int) (*T, error) {
	var item T
	if err := c.do(ctx, http.MethodGet, itemPath(resource, id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts payload and decodes the created resource.
func Create[T any](ctx context.Context, c *Client, resource string, payload any) (*T, error) {
	var item T
	if err := c.do(ctx, http.MethodPost, "/"+resource, nil, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update patches resource id with payload and decodes the result.
func Update[T any](ctx context.Context, c *Client, resource string, id int, payload any) (*T, error) {
	var item T
	if err := c.do(ctx, http.MethodPatch, itemPath(resource, id), nil, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes resource id.
func Delete(ctx context.Context, c *Client, resource string, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(resource, id), nil, nil, nil)
}

// Message fetches the rendered customer message of a transaction or an
// account user.
func Message(ctx context.Context, c *Client, resource string, id int) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, itemPath(resource, id)+"/message", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func itemPath(resource string, id int) string {
	return fmt.Sprintf("/%s/%d", resource, id)
}

// do sends one request. query may be nil; body is JSON-encoded when not
// nil; result is decoded from 2xx responses when not nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.debug {
		log.Debug().Str("method", method).Str("url", target).Bytes("request", payload).Msg("[API] Outgoing request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().Str("url", target).Int("status_code", resp.StatusCode).Bytes("response", respBody).Msg("[API] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}
	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var decoded struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &decoded) == nil {
		apiErr.Message = decoded.Message
		apiErr.Code = decoded.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed with status %d", status)
	}
	return apiErr
}
