// Package envelope defines the wire types delivered over the server-push
// stream and the tolerant parsing that turns a raw event payload into a
// typed Fragment.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Channel identifies the logical sub-stream a fragment belongs to. Two
// channels carry renderable text (answer, query); control carries
// out-of-band progress notes that are never buffered.
type Channel string

const (
	ChannelAnswer  Channel = "answer"
	ChannelQuery   Channel = "query"
	ChannelControl Channel = "control"
)

// Known reports whether the channel is one the engine understands.
// Unknown channel values are dropped by the session, keeping the wire
// format forward-compatible with future channel types.
func (c Channel) Known() bool {
	switch c {
	case ChannelAnswer, ChannelQuery, ChannelControl:
		return true
	}
	return false
}

// ErrMalformed is returned by Parse when an event payload cannot be
// decoded into a Fragment. Malformed payloads are logged and dropped by
// the session; they never terminate the stream.
var ErrMalformed = errors.New("malformed fragment payload")

// Fragment is one transport message: a channel tag plus raw payload text.
// Fragments are immutable once parsed; ordering is implied by arrival.
type Fragment struct {
	Channel Channel
	Payload string
}

// UnmarshalJSON decodes the wire shape {"type": ..., "content": ...}.
// The server tags query fragments with the legacy wire value "sql";
// that value decodes to ChannelQuery so the rest of the engine never
// sees it.
func (f *Fragment) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Type == "" {
		return fmt.Errorf("missing type field")
	}

	f.Channel = canonicalChannel(wire.Type)
	f.Payload = wire.Content
	return nil
}

func canonicalChannel(wire string) Channel {
	if wire == "sql" {
		return ChannelQuery
	}
	return Channel(wire)
}

// Parse decodes a raw event payload into a Fragment. Two observed
// envelope shapes are supported: the bare JSON object, and the same JSON
// prefixed with a "data:" label and surrounding whitespace (some relays
// forward the SSE framing inside the payload). The label and whitespace
// are stripped before decoding.
//
// Returns ErrMalformed (wrapped with the decode failure) when the
// payload is not valid JSON or lacks a type tag.
func Parse(payload string) (Fragment, error) {
	trimmed := strings.TrimSpace(payload)
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "data:"))

	var f Fragment
	if err := json.Unmarshal([]byte(trimmed), &f); err != nil {
		return Fragment{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return f, nil
}
