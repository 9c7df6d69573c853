package executor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Request carries everything an adapter needs to run one generation.
type Request struct {
	JobID   string
	ModelID string
	Prompt  string
	Params  map[string]any
}

// Adapter runs one generation model. Generate resolves required inputs into
// workdir, invokes the external tool, post-processes when needed and returns
// the absolute path of the produced artifact inside workdir.
type Adapter interface {
	Generate(ctx context.Context, req Request, workdir string) (string, error)
}

// Executor dispatches jobs to a closed set of registered model adapters.
type Executor struct {
	adapters map[string]Adapter
	logger   zerolog.Logger
}

func New(logger zerolog.Logger) *Executor {
	return &Executor{adapters: make(map[string]Adapter), logger: logger}
}

// Register binds a model id to its adapter. Later registrations for the same
// id win; registration happens once at startup.
func (e *Executor) Register(modelID string, adapter Adapter) {
	e.adapters[modelID] = adapter
}

// Run executes the job's generation inside workdir and returns the produced
// artifact path. The caller owns workdir and destroys it after the artifact
// has been persisted.
func (e *Executor) Run(ctx context.Context, req Request, workdir string) (string, error) {
	adapter, ok := e.adapters[req.ModelID]
	if !ok {
		return "", fmt.Errorf("model %q: %w", req.ModelID, ErrUnknownModel)
	}
	e.logger.Info().Str("job_id", req.JobID).Str("model_id", req.ModelID).Msg("executor: dispatching job")
	return adapter.Generate(ctx, req, workdir)
}
