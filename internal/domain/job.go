package domain

import (
	"fmt"
	"time"
)

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "QUEUED"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusSucceeded  JobStatus = "SUCCEEDED"
	JobStatusFailed     JobStatus = "FAILED"
)

// ParseJobStatus validates a persisted status string. Rows are written by this
// service only, but the stored text is never trusted blindly on the way back in.
func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobStatusQueued, JobStatusProcessing, JobStatusSucceeded, JobStatusFailed:
		return JobStatus(s), nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// Terminal reports whether no further transition may leave this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// Job is one 3D-generation request and its lifecycle record.
//
// Invariants: StartedAt <= CompletedAt when both are set; PROCESSING implies
// StartedAt is set and CompletedAt is nil; SUCCEEDED/FAILED imply CompletedAt
// is set. A job is mutated only by the worker that claimed it.
type Job struct {
	ID           string
	OwnerID      string
	ModelID      string
	Status       JobStatus
	Progress     int
	Prompt       string
	InputParams  map[string]any
	RetryCount   int
	ErrorSummary string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}
