package stream

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/airstream/history"
	"github.com/tailored-agentic-units/airstream/sse"
)

const defaultSnapshotBuffer = 8

// Config holds initialization parameters for the stream client and its
// subsystems.
type Config struct {
	Transport sse.Config     `json:"transport"`
	History   history.Config `json:"history"`
	// Observers names registered observers to receive engine events;
	// empty means the default slog observer. Several names fan out.
	Observers      []string `json:"observers,omitempty"`
	SnapshotBuffer int      `json:"snapshot_buffer,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults for all sections.
func DefaultConfig() Config {
	return Config{
		Transport:      sse.DefaultConfig(),
		History:        history.DefaultConfig(),
		SnapshotBuffer: defaultSnapshotBuffer,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// section's Merge method.
func (c *Config) Merge(source *Config) {
	c.Transport.Merge(&source.Transport)
	c.History.Merge(&source.History)

	if len(source.Observers) > 0 {
		c.Observers = source.Observers
	}
	if source.SnapshotBuffer > 0 {
		c.SnapshotBuffer = source.SnapshotBuffer
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
