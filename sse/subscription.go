package sse

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/tailored-agentic-units/airstream/pipe"
)

// Lines longer than the bufio default show up in practice when the server
// flushes a large table row as one event.
const maxLineSize = 1 << 20

// Subscription is one live stream connection. Events arrive strictly in
// wire order on Events; the channel closes when the stream ends for any
// reason, after which Err distinguishes a transport failure (non-nil)
// from normal completion or deliberate Close (nil).
type Subscription struct {
	events *pipe.Channel[Event]
	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func newSubscription(ctx context.Context, cancel context.CancelFunc, bufferSize int) *Subscription {
	return &Subscription{
		events: pipe.New[Event](ctx, bufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Events returns the receive side of the event stream.
func (s *Subscription) Events() <-chan Event {
	return s.events.Raw()
}

// Err reports the transport failure that ended the stream, or nil.
// Meaningful once Events is closed.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears down the connection. Idempotent; pending events already
// buffered remain readable until the channel drains.
func (s *Subscription) Close() {
	s.cancel()
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// readLoop scans the response body line by line, assembling blank-line
// delimited event blocks. Cancelling the subscription context closes the
// body through the request, which unblocks the scanner.
func (s *Subscription) readLoop(body io.ReadCloser) {
	defer s.events.Close()
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	name := EventMessage
	var data []string

	dispatch := func() {
		if len(data) == 0 && name == EventMessage {
			return
		}
		ev := Event{Name: name, Data: strings.Join(data, "\n")}
		name = EventMessage
		data = nil
		// Blocking here preserves wire order; the send unblocks
		// early if the subscription is torn down.
		_ = s.events.Send(s.ctx, ev)
	}

	for scanner.Scan() {
		if s.ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		switch {
		case line == "":
			dispatch()
		case strings.HasPrefix(line, ":"):
			// comment / keep-alive
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, trimFieldValue(strings.TrimPrefix(line, "data:")))
		default:
			// id:, retry:, and unknown fields are ignored
		}
	}

	// A final block without a trailing blank line still counts.
	dispatch()

	if err := scanner.Err(); err != nil && s.ctx.Err() == nil {
		s.setErr(err)
	}
}

// trimFieldValue strips the single optional space after a field colon.
func trimFieldValue(v string) string {
	return strings.TrimPrefix(v, " ")
}
