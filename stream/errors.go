package stream

import "errors"

// ErrStreamInterrupted marks a session whose transport closed before the
// completion signal arrived. The partial buffers are retained.
var ErrStreamInterrupted = errors.New("stream closed before completion")

// ValidationError rejects a query at submission time, before any
// transport activity. Fully recoverable: the caller fixes the query and
// retries immediately.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid query: " + e.Reason
}
