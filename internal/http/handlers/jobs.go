package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"meshforge/internal/domain"
	"meshforge/internal/middleware"
	"meshforge/internal/queue"
)

type createJobRequest struct {
	ModelID string         `json:"model_id" validate:"required"`
	Prompt  string         `json:"prompt"`
	Params  map[string]any `json:"input_params"`
}

type jobResponse struct {
	JobID        string         `json:"job_id"`
	Status       string         `json:"status"`
	Progress     int            `json:"progress"`
	ModelID      string         `json:"model_id"`
	Prompt       string         `json:"prompt,omitempty"`
	InputParams  map[string]any `json:"input_params"`
	ErrorSummary string         `json:"error_summary,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

type downloadResponse struct {
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"`
}

// CreateJob accepts a generation request, persists the QUEUED job and hands
// its reference to the queue. The response carries the canonical job view.
func (a *App) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "model_id required")
		return
	}

	model, err := a.Models.GetActive(r.Context(), req.ModelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "model_not_found", "unknown or inactive model")
			return
		}
		a.Logger.Error().Err(err).Msg("create job: model lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "model lookup failed")
		return
	}

	// Missing model-specific inputs (a text model without a prompt, an image
	// model without an input object) are not rejected here: the job is queued
	// and the worker drives it to FAILED, so the polling client sees the
	// failure on the job record itself.
	prompt, params := domain.HoistPrompt(req.Prompt, req.Params)

	job := &domain.Job{
		ID:          uuid.NewString(),
		OwnerID:     userID,
		ModelID:     model.ID,
		Status:      domain.JobStatusQueued,
		Prompt:      prompt,
		InputParams: params,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		a.Logger.Error().Err(err).Msg("create job: insert failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not create job")
		return
	}

	a.recordInputArtifact(r, job)
	a.recordSubmissionEvent(r, job)

	task := queue.Task{JobID: job.ID, ModelID: job.ModelID, Params: job.InputParams}
	if err := a.Queue.Publish(r.Context(), task); err != nil {
		a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("create job: publish failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not enqueue job")
		return
	}

	a.json(w, http.StatusCreated, toJobResponse(job))
}

// GetJob returns the caller's own job.
func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	job, ok := a.loadOwnedJob(w, r, jobID, userID)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, toJobResponse(job))
}

// DownloadJob mints a presigned URL for the finished model.
func (a *App) DownloadJob(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	job, ok := a.loadOwnedJob(w, r, jobID, userID)
	if !ok {
		return
	}
	if job.Status != domain.JobStatusSucceeded {
		a.error(w, http.StatusBadRequest, "job_not_finished", domain.ErrJobNotFinished.Error())
		return
	}

	artifact, err := a.Jobs.OutputArtifact(r.Context(), job.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// SUCCEEDED without an output row means the success transaction was
			// bypassed somewhere. Surface it rather than papering over.
			a.Logger.Error().Str("job_id", job.ID).Msg("succeeded job has no output artifact")
			a.error(w, http.StatusNotFound, "artifact_missing", "output artifact not recorded")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("artifact lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "artifact lookup failed")
		return
	}

	url, err := a.Blob.PresignGet(r.Context(), artifact.StoragePath, a.PresignExpiry)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("presign failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not mint download url")
		return
	}
	a.json(w, http.StatusOK, downloadResponse{
		DownloadURL: url,
		ExpiresIn:   int(a.PresignExpiry.Seconds()),
	})
}

// loadOwnedJob fetches a job and enforces ownership. Foreign jobs exist but
// are not the caller's business, hence 403 rather than 404.
func (a *App) loadOwnedJob(w http.ResponseWriter, r *http.Request, jobID, userID string) (*domain.Job, bool) {
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return nil, false
	}
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err == nil && job.OwnerID != userID {
		err = domain.ErrForbidden
	}
	switch {
	case err == nil:
		return job, true
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "job not found")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "job belongs to another user")
	default:
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("job lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "job lookup failed")
	}
	return nil, false
}

// recordInputArtifact tracks a pre-uploaded input object when the request
// references one. Best effort: a missing row here never blocks submission.
func (a *App) recordInputArtifact(r *http.Request, job *domain.Job) {
	inputPath, _ := job.InputParams["input_path"].(string)
	if inputPath == "" {
		inputPath, _ = job.InputParams["image_path"].(string)
	}
	if inputPath == "" {
		return
	}
	artifact := &domain.Artifact{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		Type:        domain.ArtifactInput,
		StoragePath: inputPath,
	}
	if err := a.Jobs.AddArtifact(r.Context(), artifact); err != nil {
		a.Logger.Warn().Err(err).Str("job_id", job.ID).Msg("could not record input artifact")
	}
}

// recordSubmissionEvent appends the INFO trail entry for a new job, enriched
// with the submitting client's country when GeoIP is configured.
func (a *App) recordSubmissionEvent(r *http.Request, job *domain.Job) {
	payload := map[string]any{"model_id": job.ModelID}
	if a.GeoIP != nil {
		if code, err := a.GeoIP.CountryCode(middleware.ClientIP(r)); err == nil && code != "" {
			payload["country"] = code
		}
	}
	event := &domain.JobEvent{
		ID:      uuid.NewString(),
		JobID:   job.ID,
		Type:    domain.EventInfo,
		Payload: payload,
	}
	if err := a.Events.Append(r.Context(), event); err != nil {
		a.Logger.Warn().Err(err).Str("job_id", job.ID).Msg("could not append submission event")
	}
}

func toJobResponse(job *domain.Job) jobResponse {
	return jobResponse{
		JobID:        job.ID,
		Status:       string(job.Status),
		Progress:     job.Progress,
		ModelID:      job.ModelID,
		Prompt:       job.Prompt,
		InputParams:  job.InputParams,
		ErrorSummary: job.ErrorSummary,
		CreatedAt:    job.CreatedAt,
		StartedAt:    job.StartedAt,
		CompletedAt:  job.CompletedAt,
	}
}
