// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client shared across stages. One Client
// is built per command run, handed to every stage that talks to RCSB, and
// closed when the run ends.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/xtaltools/pkg/types"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultUserAgent    = "xtaltools/0.1"
	defaultIdlePerHost  = 10
	maxErrorBodySnippet = 256
)

// StatusError reports a response whose status code was not accepted.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client wraps a pooled http.Client and the User-Agent sent with every
// request. It is safe for concurrent use.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// NewClient builds a Client from cfg. The transport keeps up to
// cfg.MaxIdleConnsPerHost idle connections per host so parallel workers
// reuse connections instead of dialing per request.
func NewClient(cfg types.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	idle := cfg.MaxIdleConnsPerHost
	if idle <= 0 {
		idle = defaultIdlePerHost
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = idle
	if transport.MaxIdleConns < idle {
		transport.MaxIdleConns = idle
	}

	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: ua,
	}
}

// Wrap returns a Client around an existing http.Client, as used by tests
// with httptest servers.
func Wrap(c *http.Client, userAgent string) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{HTTP: c, UserAgent: userAgent}
}

// Close releases idle pooled connections.
func (c *Client) Close() {
	c.HTTP.CloseIdleConnections()
}

// GetJSON fetches url and decodes the JSON body into v. Numbers are decoded
// as json.Number so their source text survives.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, url, nil, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(url, resp)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// GetText fetches url and returns the body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil, "text/plain")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(url, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response from %s: %w", url, err)
	}
	return string(data), nil
}

// PostJSON sends body as JSON to url and decodes a 200 response into v.
// A 204 No Content response leaves v untouched. The status code is
// returned so callers can tell the two apart.
func (c *Client) PostJSON(ctx context.Context, url string, body, v any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encoding request body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, url, bytes.NewReader(payload), "application/json")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return resp.StatusCode, nil
	case http.StatusOK:
	default:
		return resp.StatusCode, statusError(url, resp)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	return resp, nil
}

// statusError drains a short snippet of the body for the error message.
func statusError(url string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySnippet))
	return &StatusError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       string(bytes.TrimSpace(snippet)),
	}
}
