package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"meshforge/internal/domain"
)

// JobStorePG implements domain.JobStore on PostgreSQL.
//
// Every method opens a short-lived transaction or single statement; no
// session ever spans an externally-timed operation. The worker re-acquires a
// connection after the generation subprocess finishes, which can be an hour
// after the claim.
type JobStorePG struct {
	pool *pgxpool.Pool
}

// NewJobStore creates a job store backed by PostgreSQL.
func NewJobStore(pool *pgxpool.Pool) *JobStorePG {
	return &JobStorePG{pool: pool}
}

const jobColumns = `id, owner_id, model_id, status, progress, prompt, input_params, retry_count, error_summary, created_at, started_at, completed_at`

// Create inserts a new job in QUEUED state.
func (r *JobStorePG) Create(ctx context.Context, job *domain.Job) error {
	params, err := json.Marshal(job.InputParams)
	if err != nil {
		return fmt.Errorf("encode input params: %w", err)
	}
	query := `
INSERT INTO jobs (id, owner_id, model_id, status, progress, prompt, input_params, retry_count)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8);
`
	_, err = r.pool.Exec(ctx, query,
		job.ID,
		job.OwnerID,
		job.ModelID,
		string(job.Status),
		job.Progress,
		job.Prompt,
		params,
		job.RetryCount,
	)
	return err
}

// GetByID fetches a job by its identifier.
func (r *JobStorePG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1;`
	job, err := scanJob(r.pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ClaimForProcessing is the serialization point between racing workers: a
// single conditional update that only one claimant can win. Duplicate
// deliveries observe a non-QUEUED status and get ErrAlreadyClaimed.
func (r *JobStorePG) ClaimForProcessing(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
UPDATE jobs
SET status = $2, started_at = now()
WHERE id = $1 AND status = $3
RETURNING ` + jobColumns + `;`
	job, err := scanJob(r.pool.QueryRow(ctx, query, jobID, string(domain.JobStatusProcessing), string(domain.JobStatusQueued)))
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Nothing updated: either the row is gone or another worker got here first.
	var status string
	lookupErr := r.pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1;`, jobID).Scan(&status)
	if errors.Is(lookupErr, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if lookupErr != nil {
		return nil, lookupErr
	}
	return nil, fmt.Errorf("job %s in status %s: %w", jobID, status, domain.ErrAlreadyClaimed)
}

// FinishSuccess moves the job to SUCCEEDED and records the OUTPUT artifact in
// one transaction, so the job is never SUCCEEDED without its artifact row.
func (r *JobStorePG) FinishSuccess(ctx context.Context, jobID string, artifact *domain.Artifact) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin finish-success: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
UPDATE jobs
SET status = $2, progress = 100, completed_at = now(), error_summary = NULL
WHERE id = $1 AND status = $3;
`, jobID, string(domain.JobStatusSucceeded), string(domain.JobStatusProcessing))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s is not PROCESSING: %w", jobID, domain.ErrInvalidTransition)
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO artifacts (id, job_id, type, storage_path, file_size_bytes)
VALUES ($1, $2, $3, $4, $5);
`, artifact.ID, jobID, string(artifact.Type), artifact.StoragePath, artifact.FileSizeBytes); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FinishFailure moves the job to FAILED with the error summary. A missing row
// is reported as ErrNotFound; the caller can do nothing beyond logging it.
func (r *JobStorePG) FinishFailure(ctx context.Context, jobID string, summary string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE jobs
SET status = $2, completed_at = now(), error_summary = $3
WHERE id = $1 AND status NOT IN ($4, $5);
`, jobID,
		string(domain.JobStatusFailed),
		summary,
		string(domain.JobStatusSucceeded),
		string(domain.JobStatusFailed),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if lookupErr := r.pool.QueryRow(ctx, `SELECT true FROM jobs WHERE id = $1;`, jobID).Scan(&exists); lookupErr != nil {
			if errors.Is(lookupErr, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return lookupErr
		}
		// Already terminal; terminal states are never left.
		return nil
	}
	return nil
}

// AddArtifact records a standalone artifact row (INPUT artifacts at
// submission time; OUTPUT rows go through FinishSuccess instead).
func (r *JobStorePG) AddArtifact(ctx context.Context, artifact *domain.Artifact) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO artifacts (id, job_id, type, storage_path, file_size_bytes)
VALUES ($1, $2, $3, $4, $5);
`, artifact.ID, artifact.JobID, string(artifact.Type), artifact.StoragePath, artifact.FileSizeBytes)
	return err
}

// OutputArtifact returns the job's OUTPUT_MODEL artifact.
func (r *JobStorePG) OutputArtifact(ctx context.Context, jobID string) (*domain.Artifact, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, job_id, type, storage_path, file_size_bytes, created_at
FROM artifacts
WHERE job_id = $1 AND type = $2
ORDER BY created_at DESC
LIMIT 1;
`, jobID, string(domain.ArtifactOutputModel))

	var (
		a       domain.Artifact
		rawType string
	)
	if err := row.Scan(&a.ID, &a.JobID, &rawType, &a.StoragePath, &a.FileSizeBytes, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	artifactType, err := domain.ParseArtifactType(rawType)
	if err != nil {
		return nil, err
	}
	a.Type = artifactType
	return &a, nil
}

// StaleProcessing lists jobs stuck in PROCESSING since before the cutoff.
func (r *JobStorePG) StaleProcessing(ctx context.Context, cutoff time.Time) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE status = $1 AND started_at < $2
ORDER BY started_at ASC;
`, string(domain.JobStatusProcessing), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job       domain.Job
		rawStatus string
		rawParams []byte
		prompt    *string
		summary   *string
	)
	if err := row.Scan(
		&job.ID,
		&job.OwnerID,
		&job.ModelID,
		&rawStatus,
		&job.Progress,
		&prompt,
		&rawParams,
		&job.RetryCount,
		&summary,
		&job.CreatedAt,
		&job.StartedAt,
		&job.CompletedAt,
	); err != nil {
		return nil, err
	}

	status, err := domain.ParseJobStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	job.Status = status

	if prompt != nil {
		job.Prompt = *prompt
	}
	if summary != nil {
		job.ErrorSummary = *summary
	}
	if len(rawParams) > 0 {
		if err := json.Unmarshal(rawParams, &job.InputParams); err != nil {
			return nil, fmt.Errorf("decode input params: %w", err)
		}
	}
	if job.InputParams == nil {
		job.InputParams = map[string]any{}
	}
	return &job, nil
}

var _ domain.JobStore = (*JobStorePG)(nil)
