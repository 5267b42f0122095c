// Package render maps stream channels to the pure transform that derives
// their render-ready text. The session resolves every accepted fragment's
// channel here; a channel with no registered transform is dropped, which
// keeps the engine forward-compatible with channel types it does not yet
// understand.
package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tailored-agentic-units/airstream/core/envelope"
)

// Transform derives the rendered form of a channel's accumulated raw
// buffer. Implementations must be pure: deterministic, total, and free of
// retained state, so that re-deriving from scratch always reproduces the
// same value regardless of how the buffer was chunked.
type Transform func(raw string) string

type registry struct {
	transforms map[envelope.Channel]Transform
	mu         sync.RWMutex
}

var register = &registry{
	transforms: make(map[envelope.Channel]Transform),
}

// Register binds a transform to a channel. Returns ErrAlreadyRegistered
// when the channel is taken; use Replace to swap an existing binding.
// Thread-safe for concurrent registration.
func Register(ch envelope.Channel, fn Transform) error {
	if ch == "" {
		return ErrEmptyChannel
	}
	if fn == nil {
		return ErrNilTransform
	}

	register.mu.Lock()
	defer register.mu.Unlock()

	if _, exists := register.transforms[ch]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, ch)
	}

	register.transforms[ch] = fn
	return nil
}

// Replace swaps the transform bound to an already-registered channel.
// Returns ErrNotRegistered when the channel has no binding.
func Replace(ch envelope.Channel, fn Transform) error {
	if ch == "" {
		return ErrEmptyChannel
	}
	if fn == nil {
		return ErrNilTransform
	}

	register.mu.Lock()
	defer register.mu.Unlock()

	if _, exists := register.transforms[ch]; !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, ch)
	}

	register.transforms[ch] = fn
	return nil
}

// Get resolves the transform for a channel.
func Get(ch envelope.Channel) (Transform, bool) {
	register.mu.RLock()
	defer register.mu.RUnlock()

	fn, exists := register.transforms[ch]
	return fn, exists
}

// Channels lists the registered channels in stable order.
func Channels() []envelope.Channel {
	register.mu.RLock()
	defer register.mu.RUnlock()

	channels := make([]envelope.Channel, 0, len(register.transforms))
	for ch := range register.transforms {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}
