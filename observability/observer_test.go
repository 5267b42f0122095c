package observability_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/tailored-agentic-units/airstream/observability"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  string
	}{
		{observability.LevelVerbose, "DEBUG"},
		{observability.LevelInfo, "INFO"},
		{observability.LevelWarning, "WARN"},
		{observability.LevelError, "ERROR"},
		{observability.Level(2), "TRACE"},
		{observability.Level(22), "FATAL"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  slog.Level
	}{
		{observability.LevelVerbose, slog.LevelDebug},
		{observability.LevelInfo, slog.LevelInfo},
		{observability.LevelWarning, slog.LevelWarn},
		{observability.LevelError, slog.LevelError},
	}

	for _, tt := range tests {
		if got := tt.level.SlogLevel(); got != tt.want {
			t.Errorf("Level(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

type countingObserver struct {
	events int
}

func (c *countingObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.events++
}

func TestMultiObserver_FansOut(t *testing.T) {
	a := &countingObserver{}
	b := &countingObserver{}
	multi := observability.NewMultiObserver(a, nil, b)

	multi.OnEvent(context.Background(), observability.Event{
		Type:      "session.start",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "test",
	})

	if a.events != 1 || b.events != 1 {
		t.Errorf("fan-out counts = %d, %d, want 1, 1", a.events, b.events)
	}
}

func TestGetObserver(t *testing.T) {
	if _, err := observability.GetObserver("noop"); err != nil {
		t.Errorf("GetObserver(noop) error = %v", err)
	}
	if _, err := observability.GetObserver("slog"); err != nil {
		t.Errorf("GetObserver(slog) error = %v", err)
	}
	if _, err := observability.GetObserver("missing"); err == nil {
		t.Error("GetObserver(missing) should fail")
	}

	observability.RegisterObserver("counting", &countingObserver{})
	if _, err := observability.GetObserver("counting"); err != nil {
		t.Errorf("GetObserver(counting) error = %v", err)
	}
}
