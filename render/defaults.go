package render

import (
	"errors"

	"github.com/tailored-agentic-units/airstream/core/envelope"
	"github.com/tailored-agentic-units/airstream/normalize"
	"github.com/tailored-agentic-units/airstream/sqlfmt"
)

// Bootstrap registers the built-in transforms: markdown normalization for
// the answer channel and best-effort SQL pretty-printing for the query
// channel. Channels that already have a binding, e.g. a test override
// installed earlier, are left alone. Safe to call more than once.
func Bootstrap() {
	defaults := map[envelope.Channel]Transform{
		envelope.ChannelAnswer: normalize.Normalize,
		envelope.ChannelQuery:  sqlfmt.Format,
	}

	for ch, fn := range defaults {
		if err := Register(ch, fn); err != nil && !errors.Is(err, ErrAlreadyRegistered) {
			// Register only fails on empty channel or nil transform,
			// neither of which can happen with the fixed table above.
			panic(err)
		}
	}
}
