package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"meshforge/internal/domain"
	"meshforge/internal/executor"
	"meshforge/internal/queue"
	"meshforge/internal/storage"
)

// Runner executes one generation job and returns the produced artifact path.
type Runner interface {
	Run(ctx context.Context, req executor.Request, workdir string) (string, error)
}

// Worker consumes job references from the queue and drives each job through
// its lifecycle: claim, generate, upload, finish. Every delivery is
// acknowledged exactly once regardless of outcome; the job row, not the
// queue, is the source of truth for what still needs doing.
type Worker struct {
	Jobs        domain.JobStore
	Events      domain.EventStore
	Queue       queue.Consumer
	Exec        Runner
	Blob        storage.BlobStore
	Logger      zerolog.Logger
	Concurrency int
}

// Run consumes deliveries until ctx is cancelled. Deliveries are handled by a
// fixed pool of goroutines; each goroutine processes one job at a time, so
// Concurrency bounds the number of simultaneous generation subprocesses.
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.Queue.Consume(ctx)
	if err != nil {
		return fmt.Errorf("worker: start consuming: %w", err)
	}

	n := w.Concurrency
	if n < 1 {
		n = 1
	}
	w.Logger.Info().Int("concurrency", n).Msg("worker: consuming jobs")

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case d, ok := <-deliveries:
					if !ok {
						return nil
					}
					w.Handle(ctx, d)
				}
			}
		})
	}
	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handle processes a single delivery. It never lets the job escape the
// acknowledgement: a redelivery storm from unacked messages is worse than
// any single lost message, because the job row still records the truth.
func (w *Worker) Handle(ctx context.Context, d queue.Delivery) {
	defer func() {
		if err := d.Ack(); err != nil {
			w.Logger.Error().Err(err).Str("job_id", d.Task.JobID).Msg("worker: ack failed")
		}
	}()
	defer func() {
		if rec := recover(); rec != nil {
			w.Logger.Error().Str("job_id", d.Task.JobID).Interface("panic", rec).Msg("worker: recovered panic")
			w.recordFailure(ctx, d.Task.JobID, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	jobID := d.Task.JobID
	log := w.Logger.With().Str("job_id", jobID).Logger()

	job, err := w.Jobs.ClaimForProcessing(ctx, jobID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyClaimed):
			// Duplicate delivery. Another claimant owns the job; drop silently.
			log.Debug().Msg("worker: job already claimed, dropping delivery")
		case errors.Is(err, domain.ErrNotFound):
			log.Warn().Msg("worker: job row missing for delivery")
		default:
			log.Error().Err(err).Msg("worker: claim failed")
		}
		return
	}

	log.Info().Str("model_id", job.ModelID).Msg("worker: job claimed")
	if err := w.process(ctx, job); err != nil {
		log.Error().Err(err).Msg("worker: job failed")
		w.recordFailure(ctx, jobID, summarize(err))
		return
	}
	log.Info().Msg("worker: job succeeded")
}

// process runs the generation and persists its result. The workdir lives for
// the whole call: the artifact must survive until the upload completes.
func (w *Worker) process(ctx context.Context, job *domain.Job) error {
	workdir, err := os.MkdirTemp("", "meshforge-job-"+job.ID+"-")
	if err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workdir)

	outPath, err := w.Exec.Run(ctx, executor.Request{
		JobID:   job.ID,
		ModelID: job.ModelID,
		Prompt:  job.Prompt,
		Params:  job.InputParams,
	}, workdir)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("jobs/%s/model%s", job.ID, filepath.Ext(outPath))
	size, err := w.Blob.Upload(ctx, key, outPath, "model/gltf-binary")
	if err != nil {
		return fmt.Errorf("upload artifact: %w", err)
	}

	artifact := &domain.Artifact{
		ID:            uuid.NewString(),
		JobID:         job.ID,
		Type:          domain.ArtifactOutputModel,
		StoragePath:   key,
		FileSizeBytes: &size,
	}
	if err := w.Jobs.FinishSuccess(ctx, job.ID, artifact); err != nil {
		return fmt.Errorf("finish success: %w", err)
	}
	return nil
}

// recordFailure marks the job FAILED and appends an ERROR event. Both writes
// are best effort: if they fail too, logging is all that is left and the job
// stays in its last persisted state for the stale monitor to report.
func (w *Worker) recordFailure(ctx context.Context, jobID, summary string) {
	if err := w.Jobs.FinishFailure(ctx, jobID, summary); err != nil {
		w.Logger.Error().Err(err).Str("job_id", jobID).Msg("worker: could not mark job failed")
		return
	}
	event := &domain.JobEvent{
		ID:      uuid.NewString(),
		JobID:   jobID,
		Type:    domain.EventError,
		Payload: map[string]any{"error": summary},
	}
	if err := w.Events.Append(ctx, event); err != nil {
		w.Logger.Error().Err(err).Str("job_id", jobID).Msg("worker: could not append failure event")
	}
}

// summarize flattens an executor error into the single line persisted on the
// job row. Exit codes and offending params survive; stack traces do not.
func summarize(err error) string {
	var verr *executor.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var terr *executor.ToolExecutionError
	if errors.As(err, &terr) {
		return terr.Error()
	}
	return err.Error()
}
