package stream

// Status is the session lifecycle state. Transitions move strictly
// forward: idle → active → one of the terminal states.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Snapshot is the immutable render-ready state of both channels at a
// point in time. Published to subscribers at least once per accepted
// fragment; safe to read mid-stream since values are plain strings
// copied out under the session lock.
type Snapshot struct {
	Answer string
	Query  string
	Status Status
}
