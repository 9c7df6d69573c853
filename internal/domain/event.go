package domain

import "time"

// JobEventType classifies diagnostic trail entries.
type JobEventType string

const (
	EventInfo    JobEventType = "INFO"
	EventWarning JobEventType = "WARNING"
	EventError   JobEventType = "ERROR"
)

// JobEvent is an append-only diagnostic entry for a job. Events are never
// mutated after insertion.
type JobEvent struct {
	ID        string
	JobID     string
	Type      JobEventType
	Payload   map[string]any
	CreatedAt time.Time
}
