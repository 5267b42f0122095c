// Package stream implements the incremental assembly engine: a Client
// submits a natural language query over the push transport, and the
// resulting Session folds typed fragments into render-correct answer
// and query views as they arrive.
//
// The client initializes from configuration via NewClient. Functional
// options allow test overrides of the transport, observer, and
// per-channel transforms.
//
//	c, err := stream.NewClient(&cfg)
//	sess, err := c.Start(ctx, "cheapest flights from Hanoi?")
//	for snap := range sess.Subscribe() { ... }
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/airstream/core/envelope"
	"github.com/tailored-agentic-units/airstream/history"
	"github.com/tailored-agentic-units/airstream/observability"
	"github.com/tailored-agentic-units/airstream/render"
	"github.com/tailored-agentic-units/airstream/sse"
)

// Option configures a Client after config-driven initialization.
type Option func(*Client)

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithHTTPClient overrides the transport's HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTransform overrides the registry-provided transform for one
// channel on this client only.
func WithTransform(ch envelope.Channel, fn render.Transform) Option {
	return func(c *Client) { c.transforms[ch] = fn }
}

// WithHistoryStore overrides the config-created history store.
func WithHistoryStore(s history.Store) Option {
	return func(c *Client) { c.history = s }
}

// Client submits queries and manages the single active session. Starting
// a new query cancels the previous session: ownership of the consumer's
// attention transfers to the newest query.
type Client struct {
	cfg        Config
	observer   observability.Observer
	httpClient *http.Client
	transforms map[envelope.Channel]render.Transform
	history    history.Store

	mu        sync.Mutex
	transport *sse.Client
	current   *Session

	archives sync.WaitGroup
}

// NewClient creates a Client from configuration. The default transforms
// come from the render registry (markdown normalization for the answer
// channel, SQL pretty-printing for the query channel).
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	render.Bootstrap()

	transforms := make(map[envelope.Channel]render.Transform)
	for _, ch := range []envelope.Channel{envelope.ChannelAnswer, envelope.ChannelQuery} {
		fn, ok := render.Get(ch)
		if !ok {
			return nil, fmt.Errorf("no transform registered for channel %q", ch)
		}
		transforms[ch] = fn
	}

	store, err := history.NewStore(&cfg.History)
	if err != nil {
		return nil, fmt.Errorf("failed to create history store: %w", err)
	}

	observer, err := resolveObservers(cfg.Observers)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        *cfg,
		observer:   observer,
		transforms: transforms,
		history:    store,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.transport = sse.NewClient(c.cfg.Transport, c.httpClient)
	return c, nil
}

// resolveObservers builds the config-selected observer. No names means
// the default slog observer; one name resolves from the observer
// registry; several fan out through a MultiObserver.
func resolveObservers(names []string) (observability.Observer, error) {
	if len(names) == 0 {
		return observability.NewSlogObserver(slog.Default()), nil
	}

	resolved := make([]observability.Observer, 0, len(names))
	for _, name := range names {
		obs, err := observability.GetObserver(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		resolved = append(resolved, obs)
	}

	if len(resolved) == 1 {
		return resolved[0], nil
	}
	return observability.NewMultiObserver(resolved...), nil
}

// Start validates and submits a query, returning the new active session.
// Any previous session is cancelled first. A blank query is rejected
// with a ValidationError before any network activity. The dial happens
// outside the client lock so a concurrent Cancel stays immediate; when
// two Starts race, the last one to install wins and the displaced
// session is cancelled.
func (c *Client) Start(ctx context.Context, query string) (*Session, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Reason: "query is empty or whitespace-only"}
	}

	c.mu.Lock()
	prev := c.current
	c.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	sub, err := c.transport.Subscribe(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	sess := newSession(ctx, query, sub, c.observer, c.transforms, c.cfg.SnapshotBuffer)

	c.mu.Lock()
	displaced := c.current
	c.current = sess
	c.mu.Unlock()

	if displaced != nil && displaced != prev {
		displaced.Cancel()
	}
	go sess.run()
	if c.history != nil {
		c.archives.Add(1)
		go func() {
			defer c.archives.Done()
			c.archive(sess)
		}()
	}

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventSessionStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "stream.Client",
		Data: map[string]any{
			"session_id":   sess.ID(),
			"query_length": len(query),
		},
	})

	return sess, nil
}

// Current returns the active session, or nil when none has been started.
func (c *Client) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// archive waits for the session to finish and persists its record.
// Cancelled sessions are not archived; the consumer walked away from
// that result. Save failures never affect the session outcome.
func (c *Client) archive(sess *Session) {
	<-sess.Done()

	status := sess.Status()
	if status == StatusCancelled {
		return
	}

	snap := sess.Snapshot()
	rec := history.Record{
		ID:         sess.ID(),
		Query:      sess.Query(),
		Answer:     snap.Answer,
		SQL:        snap.Query,
		Status:     string(status),
		FinishedAt: time.Now(),
	}
	if err := sess.Err(); err != nil {
		rec.Error = err.Error()
	}

	ctx := context.Background()
	if err := c.history.Save(ctx, rec); err != nil {
		c.observer.OnEvent(ctx, observability.Event{
			Type:      EventHistoryFailed,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "stream.Client",
			Data: map[string]any{
				"session_id": sess.ID(),
				"error":      err.Error(),
			},
		})
		return
	}

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventHistorySaved,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "stream.Client",
		Data:      map[string]any{"session_id": sess.ID()},
	})
}

// Cancel abandons the active session, if any.
func (c *Client) Cancel() {
	c.mu.Lock()
	sess := c.current
	c.mu.Unlock()

	if sess != nil {
		sess.Cancel()
	}
}

// Close cancels the active session and waits for pending history writes
// to land.
func (c *Client) Close() {
	c.Cancel()
	c.archives.Wait()
}
