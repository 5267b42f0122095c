// Package sse implements the client side of the server-push transport: a
// long-lived GET request whose response body carries server-sent events.
// Each subscription owns one connection and one read goroutine; events
// surface on a channel in arrival order. No retry or backoff policy lives
// here; a broken connection simply ends the subscription with an error
// for the session to react to.
package sse

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	defaultEndpoint   = "http://localhost:8000/stream"
	defaultQueryParam = "question"
	defaultBufferSize = 32
)

// Config holds transport parameters.
type Config struct {
	// Endpoint is the fixed stream URL; the query text is attached as a
	// URL parameter, there is no request body.
	Endpoint string `json:"endpoint,omitempty"`
	// QueryParam names the URL parameter carrying the query text.
	QueryParam string `json:"query_param,omitempty"`
	// BufferSize is the event channel capacity per subscription.
	BufferSize int `json:"buffer_size,omitempty"`
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:   defaultEndpoint,
		QueryParam: defaultQueryParam,
		BufferSize: defaultBufferSize,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Endpoint != "" {
		c.Endpoint = source.Endpoint
	}
	if source.QueryParam != "" {
		c.QueryParam = source.QueryParam
	}
	if source.BufferSize > 0 {
		c.BufferSize = source.BufferSize
	}
}

// Event is one server-sent event: the declared event name (or "message"
// when the server named none) and the raw data payload.
type Event struct {
	Name string
	Data string
}

// Well-known event names.
const (
	EventMessage = "message"
	EventDone    = "done"
)

// Client opens stream subscriptions against a fixed endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a transport client. A nil httpClient falls back to
// http.DefaultClient; the stream request itself must not carry a client
// timeout since it stays open for the life of the session.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Subscribe opens the stream for a query. The query text is URL-encoded
// into the configured parameter. The returned Subscription is live until
// the server finishes, the connection breaks, or Close is called.
func (c *Client) Subscribe(ctx context.Context, query string) (*Subscription, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", c.cfg.Endpoint, err)
	}
	values := u.Query()
	values.Set(c.cfg.QueryParam, query)
	u.RawQuery = values.Encode()

	subCtx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(subCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("stream endpoint returned status %d", resp.StatusCode)
	}

	sub := newSubscription(subCtx, cancel, c.cfg.BufferSize)
	go sub.readLoop(resp.Body)
	return sub, nil
}
