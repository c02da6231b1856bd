package xmnote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultPort is where the device listens unless a custom port is configured.
	DefaultPort = 8080

	sendPath       = "/send"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 1024
)

// Target identifies the device that receives exports.
type Target struct {
	IPAddr string
	Port   int
}

// URL returns the device's import endpoint.
func (t Target) URL() string {
	port := t.Port
	if port == 0 {
		port = DefaultPort
	}
	return "http://" + net.JoinHostPort(t.IPAddr, strconv.Itoa(port)) + sendPath
}

// Response is the raw JSON answer of the device. The protocol does not fix its
// shape, so any JSON value is accepted.
type Response = json.RawMessage

// Client sends documents to a device. It makes exactly one attempt per call.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client with the given timeout; zero uses the default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithHTTP wraps an existing http.Client, e.g. one from httptest.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Send posts doc to the target. Transport failures come back as *NetworkError,
// non-2xx answers as *StatusError.
func (c *Client) Send(ctx context.Context, target Target, doc *Document) (Response, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	url := target.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("failed to decode response: invalid JSON %q", truncate(raw))
	}
	return Response(raw), nil
}

func truncate(raw []byte) []byte {
	if len(raw) > maxErrorBody {
		return raw[:maxErrorBody]
	}
	return raw
}
