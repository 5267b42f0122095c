package stream

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/airstream/core/envelope"
	"github.com/tailored-agentic-units/airstream/observability"
	"github.com/tailored-agentic-units/airstream/pipe"
	"github.com/tailored-agentic-units/airstream/render"
	"github.com/tailored-agentic-units/airstream/sse"
)

// Session owns one query's stream from submission to a terminal state.
// Fragments are applied strictly in arrival order on a single goroutine;
// the per-channel buffers are append-only and their rendered views are
// re-derived from the full raw text on every append, so every published
// Snapshot is render-correct regardless of where chunk boundaries fell.
type Session struct {
	id       string
	query    string
	observer observability.Observer
	sub      *sse.Subscription

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	snapshotBuffer int

	mu          sync.Mutex
	status      Status
	err         error
	buffers     map[envelope.Channel]*channelBuffer
	subscribers []*pipe.Channel[Snapshot]
}

func newSession(ctx context.Context, query string, sub *sse.Subscription, observer observability.Observer, transforms map[envelope.Channel]render.Transform, snapshotBuffer int) *Session {
	sessionCtx, cancel := context.WithCancel(ctx)

	buffers := make(map[envelope.Channel]*channelBuffer, len(transforms))
	for ch, fn := range transforms {
		buffers[ch] = newChannelBuffer(fn)
	}

	return &Session{
		id:             uuid.Must(uuid.NewV7()).String(),
		query:          query,
		observer:       observer,
		sub:            sub,
		ctx:            sessionCtx,
		cancel:         cancel,
		done:           make(chan struct{}),
		snapshotBuffer: snapshotBuffer,
		status:         StatusActive,
		buffers:        buffers,
	}
}

// ID returns the session's UUIDv7 identifier.
func (s *Session) ID() string {
	return s.id
}

// Query returns the query text the session was started with.
func (s *Session) Query() string {
	return s.query
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err reports why the session failed. Nil unless Status is StatusFailed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed when the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the current render-ready state of both channels.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{Status: s.status}
	if b, ok := s.buffers[envelope.ChannelAnswer]; ok {
		snap.Answer = b.Rendered()
	}
	if b, ok := s.buffers[envelope.ChannelQuery]; ok {
		snap.Query = b.Rendered()
	}
	return snap
}

// Subscribe returns a channel of snapshots, one published at least once
// per accepted fragment. When the subscriber falls behind, intermediate
// snapshots are coalesced: the oldest pending value is displaced so the
// latest is always deliverable. The channel closes when the session ends.
func (s *Session) Subscribe() <-chan Snapshot {
	sub := pipe.New[Snapshot](s.ctx, s.snapshotBuffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		sub.TrySend(s.snapshotLocked())
		sub.Close()
		return sub.Raw()
	}
	s.subscribers = append(s.subscribers, sub)
	return sub.Raw()
}

// Cancel abandons the session. Idempotent; no effect once terminal. No
// final snapshot is published because the consumer asked for teardown,
// but buffered content stays readable through Snapshot. Subscriber
// channels close when run tears down; Cancel itself never closes them,
// since run may be publishing to them concurrently.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.status.Terminal() {
		s.mu.Unlock()
		return
	}
	s.status = StatusCancelled
	s.mu.Unlock()

	s.cancel()
	s.sub.Close()

	s.observer.OnEvent(s.ctx, observability.Event{
		Type:      EventSessionCancelled,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "stream.Session",
		Data:      map[string]any{"session_id": s.id},
	})
}

// run consumes the transport subscription until the stream ends. It is
// the only goroutine that mutates the buffers, which gives fragments a
// total application order.
func (s *Session) run() {
	defer close(s.done)
	defer s.cancel()

	completed := false

loop:
	for {
		select {
		case ev, ok := <-s.sub.Events():
			if !ok {
				break loop
			}
			if ev.Name == sse.EventDone {
				completed = true
				break loop
			}
			s.apply(ev)
		case <-s.ctx.Done():
			break loop
		}
	}

	switch {
	case completed:
		s.finish(StatusCompleted, nil)
	case s.ctx.Err() != nil:
		// Either Cancel already transitioned the status, or the outer
		// context was cancelled; the latter is the same abandonment.
		s.Cancel()
	case s.sub.Err() != nil:
		s.finish(StatusFailed, s.sub.Err())
	default:
		s.finish(StatusFailed, ErrStreamInterrupted)
	}

	// This goroutine is the only sender on subscriber channels, so it is
	// also the only closer: a close here cannot race a publish. Status is
	// terminal by now, so Subscribe no longer appends to the list.
	s.mu.Lock()
	subs := s.subscribers
	s.subscribers = nil
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Close()
	}
}

// apply parses one transport event and folds it into the session state.
// Malformed payloads and unknown channels are dropped without affecting
// session status; control fragments surface as observer events and are
// never buffered.
func (s *Session) apply(ev sse.Event) {
	frag, err := envelope.Parse(ev.Data)
	if err != nil {
		s.observer.OnEvent(s.ctx, observability.Event{
			Type:      EventFragmentDropped,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "stream.Session",
			Data: map[string]any{
				"session_id": s.id,
				"reason":     err.Error(),
			},
		})
		return
	}

	if frag.Channel == envelope.ChannelControl {
		s.observer.OnEvent(s.ctx, observability.Event{
			Type:      EventControlSignal,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "stream.Session",
			Data: map[string]any{
				"session_id": s.id,
				"payload":    frag.Payload,
			},
		})
		return
	}

	s.mu.Lock()
	if s.status.Terminal() {
		s.mu.Unlock()
		return
	}
	buf, ok := s.buffers[frag.Channel]
	if !ok {
		s.mu.Unlock()
		return
	}
	buf.append(frag.Payload)
	snap := s.snapshotLocked()
	subs := s.subscribers
	s.mu.Unlock()

	s.observer.OnEvent(s.ctx, observability.Event{
		Type:      EventFragmentApplied,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "stream.Session",
		Data: map[string]any{
			"session_id":     s.id,
			"channel":        string(frag.Channel),
			"payload_length": len(frag.Payload),
		},
	})

	s.publish(subs, snap)
}

// publish delivers a snapshot to every subscriber without blocking the
// fragment loop. A full subscriber has its oldest pending snapshot
// displaced, so a slow reader always observes the most recent state.
func (s *Session) publish(subs []*pipe.Channel[Snapshot], snap Snapshot) {
	for _, sub := range subs {
		if sub.TrySend(snap) {
			continue
		}
		sub.TryReceive()
		sub.TrySend(snap)
	}
}

// finish transitions the session to a terminal state and publishes the
// final snapshot. Partial buffers survive a failure so the consumer
// keeps everything rendered so far. Subscriber channels stay open here;
// run closes them once no more publishes can happen.
func (s *Session) finish(status Status, err error) {
	s.mu.Lock()
	if s.status.Terminal() {
		s.mu.Unlock()
		return
	}
	s.status = status
	s.err = err
	snap := s.snapshotLocked()
	subs := s.subscribers
	s.mu.Unlock()

	s.publish(subs, snap)
	s.sub.Close()

	eventType := EventSessionComplete
	level := observability.LevelInfo
	data := map[string]any{
		"session_id":    s.id,
		"answer_length": len(snap.Answer),
		"query_length":  len(snap.Query),
	}
	if status == StatusFailed {
		eventType = EventSessionFailed
		level = observability.LevelError
		if err != nil {
			data["error"] = err.Error()
		}
	}

	s.observer.OnEvent(s.ctx, observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "stream.Session",
		Data:      data,
	})
}
