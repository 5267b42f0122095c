// Package history archives finished stream sessions so earlier answers
// and queries can be recalled without re-asking. Storage is pluggable;
// the default implementation keeps one JSON document per session on the
// filesystem.
package history

import (
	"context"
	"time"
)

// Record is the durable form of one finished session.
type Record struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Answer     string    `json:"answer,omitempty"`
	SQL        string    `json:"sql,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store translates between external storage and session records.
// Implementations are stateless, performing I/O on each call.
type Store interface {
	// List returns the IDs of all archived sessions.
	List(ctx context.Context) ([]string, error)
	// Load retrieves records for the specified session IDs.
	Load(ctx context.Context, ids ...string) ([]Record, error)
	// Save persists records, creating or overwriting as needed.
	Save(ctx context.Context, records ...Record) error
	// Delete removes records. Missing IDs are ignored.
	Delete(ctx context.Context, ids ...string) error
}
