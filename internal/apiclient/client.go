package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// CredentialStore is the durable home of the bearer token
type CredentialStore interface {
	// Token returns the stored token, or "" when none is stored
	Token(ctx context.Context) (string, error)
	// SaveToken persists a freshly issued token
	SaveToken(ctx context.Context, token string) error
}

// Client is the single chokepoint for all calls to the club backend
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialStore
	logger      *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used to report failed calls
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the backend at baseURL. The returned client has
// no credential store; bind one with WithCredentials.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// No timeout: callers bound calls with their context
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCredentials returns a shallow copy of the client bound to store
func (c *Client) WithCredentials(store CredentialStore) *Client {
	clone := *c
	clone.credentials = store
	return &clone
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Result is the uniform outcome of a Call. Exactly one of Data and Err is
// meaningful: callers must check Err before trusting Data.
type Result struct {
	Status int
	Data   json.RawMessage
	Err    *Error
}

// Call performs a single request against the backend. It never retries and
// never panics; every failure is reported through Result.Err and logged.
func (c *Client) Call(ctx context.Context, path, method string, body any, authRequired bool) Result {
	res := c.call(ctx, path, method, body, authRequired)
	if res.Err != nil {
		c.logger.Warn("api call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", res.Status),
			slog.String("kind", string(res.Err.Kind)),
			slog.String("error", res.Err.Message),
		)
	}
	return res
}

func (c *Client) call(ctx context.Context, path, method string, body any, authRequired bool) Result {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Result{Err: newError(KindMalformed, 0, fmt.Sprintf("failed to marshal request: %v", err))}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return Result{Err: newError(KindTransport, 0, fmt.Sprintf("failed to create request: %v", err))}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if authRequired && c.credentials != nil {
		token, err := c.credentials.Token(ctx)
		if err != nil {
			return Result{Err: newError(KindTransport, 0, fmt.Sprintf("failed to load credential: %v", err))}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Err: newError(KindTransport, 0, fmt.Sprintf("request failed: %v", err))}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Status: resp.StatusCode, Err: newError(KindTransport, resp.StatusCode, fmt.Sprintf("failed to read response: %v", err))}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := KindStatus
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			kind = KindUnauthorized
		}
		return Result{Status: resp.StatusCode, Err: newError(kind, resp.StatusCode, statusMessage(resp.StatusCode, respBody))}
	}

	return Result{Status: resp.StatusCode, Data: respBody}
}

// statusMessage prefers the backend's own message over a bare status line
func statusMessage(status int, body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "{") {
		return text
	}
	return fmt.Sprintf("HTTP error! Status: %d", status)
}

// decode unmarshals a successful result into out
func decode(res Result, out any) error {
	if res.Err != nil {
		return res.Err
	}
	if len(res.Data) == 0 {
		return newError(KindMalformed, res.Status, "empty response body")
	}
	if err := json.Unmarshal(res.Data, out); err != nil {
		return newError(KindMalformed, res.Status, fmt.Sprintf("failed to parse response: %v", err))
	}
	return nil
}

// envelope is the backend's {message, data} wrapper
type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// decodeData unmarshals the data field of an envelope response
func decodeData[T any](res Result) (T, error) {
	var env envelope[T]
	if err := decode(res, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// AsError extracts an *Error from err
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
