package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"meshforge/internal/mesh"

	"github.com/rs/zerolog"
)

// minDreamFusionSteps is the floor below which the tool produces empty or
// degenerate geometry.
const minDreamFusionSteps = 1000

// DreamFusion runs the text-to-3D tool. The tool emits a text OBJ mesh which
// is converted to GLB as a post-processing step.
type DreamFusion struct {
	Command string
	Logger  zerolog.Logger
}

func (a *DreamFusion) Generate(ctx context.Context, req Request, workdir string) (string, error) {
	prompt := req.Prompt
	if prompt == "" {
		return "", &ValidationError{Param: "prompt", Reason: "required for text-to-3D generation"}
	}

	steps := clampSteps(a.Logger, req.JobID, intParam(req.Params, "max_steps", minDreamFusionSteps))

	localObj := filepath.Join(workdir, "output.obj")
	localGlb := filepath.Join(workdir, "output.glb")

	err := runTool(a.Logger, a.Command,
		"--prompt", prompt,
		"--output_path", localObj,
		"--max_steps", strconv.Itoa(steps),
	)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(localObj); err != nil {
		return "", fmt.Errorf("%s: %w", localObj, ErrMissingOutput)
	}

	// Geometry exists at this point; a failed conversion means it is unusable,
	// which counts as a tool failure, not a missing output.
	if err := mesh.ConvertOBJToGLB(localObj, localGlb); err != nil {
		return "", &ToolExecutionError{Tool: a.Command, Err: fmt.Errorf("obj to glb conversion: %w", err)}
	}
	return localGlb, nil
}

func clampSteps(logger zerolog.Logger, jobID string, steps int) int {
	if steps < minDreamFusionSteps {
		logger.Warn().Str("job_id", jobID).Int("requested", steps).
			Msgf("dreamfusion: raising max_steps to the %d minimum", minDreamFusionSteps)
		return minDreamFusionSteps
	}
	return steps
}

var _ Adapter = (*DreamFusion)(nil)
