package stream

import "github.com/tailored-agentic-units/airstream/observability"

// Session event types emitted over the lifecycle of a stream.
const (
	EventSessionStart     observability.EventType = "session.start"
	EventSessionComplete  observability.EventType = "session.complete"
	EventSessionFailed    observability.EventType = "session.failed"
	EventSessionCancelled observability.EventType = "session.cancelled"

	EventFragmentApplied observability.EventType = "fragment.applied"
	EventFragmentDropped observability.EventType = "fragment.dropped"
	EventControlSignal   observability.EventType = "control.signal"

	EventHistorySaved  observability.EventType = "history.saved"
	EventHistoryFailed observability.EventType = "history.failed"
)
