// Package observability delivers structured events from the stream engine
// to pluggable observers. The engine never logs directly: subsystems emit
// typed events and an Observer decides what to do with them. Level values
// align with OpenTelemetry SeverityNumbers so events forward to OTel
// collectors without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is event severity on the OTel SeverityNumber scale.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG band (5-8)
	LevelInfo    Level = 9  // OTel INFO band (9-12)
	LevelWarning Level = 13 // OTel WARN band (13-16)
	LevelError   Level = 17 // OTel ERROR band (17-20)
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps the level onto the slog scale for log emission.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names the kind of event. Each subsystem defines its own
// constants (e.g. "session.start", "fragment.dropped").
type EventType string

// Event is one observability record. Fields map onto OTel LogRecord:
// Type→EventName, Level→SeverityNumber, Source→InstrumentationScope,
// Data→Attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics. OnEvent is
// called synchronously on the session's processing goroutine and must
// not block.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver discards every event.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
