package domain

import (
	"context"
	"time"
)

// JobStore defines persistence for job and artifact entities. The claim and
// the finish-success write are the two transitions with atomicity
// requirements; everything else is plain CRUD.
type JobStore interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, jobID string) (*Job, error)

	// ClaimForProcessing atomically moves a QUEUED job to PROCESSING and
	// stamps started_at. It returns ErrAlreadyClaimed when the job is in any
	// other state (expected under at-least-once delivery) and ErrNotFound
	// when the row is gone. This is the sole serialization point between
	// racing workers.
	ClaimForProcessing(ctx context.Context, jobID string) (*Job, error)

	// FinishSuccess moves a PROCESSING job to SUCCEEDED, stamps completed_at,
	// sets progress to 100 and inserts the OUTPUT artifact row, all in one
	// transaction. A job is never SUCCEEDED without its artifact record.
	FinishSuccess(ctx context.Context, jobID string, artifact *Artifact) error

	// FinishFailure moves a job to FAILED and records the error summary. A
	// missing row is reported as ErrNotFound, never as a panic or a raised
	// failure the caller cannot act on.
	FinishFailure(ctx context.Context, jobID string, summary string) error

	AddArtifact(ctx context.Context, artifact *Artifact) error
	OutputArtifact(ctx context.Context, jobID string) (*Artifact, error)

	// StaleProcessing lists jobs that have sat in PROCESSING since before the
	// cutoff. Used by the monitor for reporting only.
	StaleProcessing(ctx context.Context, cutoff time.Time) ([]Job, error)
}

// ModelStore exposes the generation model registry.
type ModelStore interface {
	GetActive(ctx context.Context, modelID string) (*GenerationModel, error)
	ListActive(ctx context.Context) ([]GenerationModel, error)
}

// EventStore appends diagnostic job events.
type EventStore interface {
	Append(ctx context.Context, event *JobEvent) error
}
