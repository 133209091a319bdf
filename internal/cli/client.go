package cli

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
)

// Client talks to the game server's JSON and form endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	trace      io.Writer
}

// NewClient creates a client for baseURL. When trace is non-nil each request
// line and response status is echoed to it.
func NewClient(baseURL string, timeout time.Duration, trace io.Writer) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		trace:      trace,
	}
}

// RemoteError is a failure reported by the server
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// errorBody covers both failure shapes: the coded error object and the
// bare {success:false, message} acknowledgement
type errorBody struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Get decodes the JSON answer of a GET into result
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.send(ctx, http.MethodGet, path, "", nil, result)
}

// Post sends body as JSON and decodes the answer into result, which may be nil
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.send(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), result)
}

// PostForm sends a url-encoded form
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, result any) error {
	return c.send(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), result)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.tracef("> %s %s\n", method, req.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.tracef("< %d %s\n", resp.StatusCode, resp.Header.Get("X-Request-ID"))

	if resp.StatusCode >= http.StatusBadRequest {
		return remoteError(resp.StatusCode, data)
	}
	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) tracef(format string, args ...any) {
	if c.trace != nil {
		_, _ = fmt.Fprintf(c.trace, format, args...)
	}
}

func remoteError(status int, data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error.Code != "" {
			return &RemoteError{Status: status, Code: body.Error.Code, Message: body.Error.Message}
		}
		if body.Message != "" {
			return &RemoteError{Status: status, Message: body.Message}
		}
	}
	return &RemoteError{Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(string(data)))}
}
