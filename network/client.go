package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	PathHealth     = "/health"
	PathUsers      = "/users"
	PathUser       = "/user"
	PathCreateUser = "/user/create"

	// HeaderRequestID carries a per-request id that the server echoes in its logs.
	HeaderRequestID = "X-Request-ID"
)

// Client talks to the users API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client for the API rooted at baseURL,
// e.g. "http://127.0.0.1:8080".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// applied last on a copy so a caller's *http.Client is never modified
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// ListUsers fetches every user record in server order.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp Response[[]User]
	if err := c.do(ctx, http.MethodGet, PathUsers, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNoPayload
	}
	return *resp.Data, nil
}

// GetUser fetches a single record by id.
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	q := url.Values{}
	q.Set("id", strconv.Itoa(id))
	var resp Response[User]
	if err := c.do(ctx, http.MethodGet, PathUser+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNoPayload
	}
	return resp.Data, nil
}

// CreateUser posts a new record and returns the server's copy of it.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var resp Response[User]
	if err := c.do(ctx, http.MethodPost, PathCreateUser, req, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNoPayload
	}
	return resp.Data, nil
}

// Health queries the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) (*HealthInfo, error) {
	var resp Response[HealthInfo]
	if err := c.do(ctx, http.MethodGet, PathHealth, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNoPayload
	}
	return resp.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s body: %w", ErrTransport, path, err)
	}
	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{Code: res.StatusCode, Message: errorMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s body: %w", ErrTransport, path, err)
	}
	return nil
}

// errorMessage pulls the "message" field out of an error body, falling
// back to the trimmed text for plain responses.
func errorMessage(raw []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return strings.TrimSpace(string(raw))
}
