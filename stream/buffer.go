package stream

import (
	"strings"

	"github.com/tailored-agentic-units/airstream/render"
)

// channelBuffer accumulates one channel's payloads in arrival order and
// keeps the rendered view current. rendered is always the transform of
// the full raw buffer, recomputed on every append rather than patched,
// because a chunk boundary can split any syntactic unit. The stored
// value is only a memoization; re-deriving it from raw at any point
// reproduces it exactly.
type channelBuffer struct {
	raw       strings.Builder
	rendered  string
	transform render.Transform
}

func newChannelBuffer(transform render.Transform) *channelBuffer {
	return &channelBuffer{transform: transform}
}

// append adds a payload to the raw buffer and re-derives the rendered
// view. Append-only: nothing is ever removed or reordered.
func (b *channelBuffer) append(payload string) {
	b.raw.WriteString(payload)
	b.rendered = b.transform(b.raw.String())
}

func (b *channelBuffer) Raw() string {
	return b.raw.String()
}

func (b *channelBuffer) Rendered() string {
	return b.rendered
}
