package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"meshforge/internal/storage"

	"github.com/rs/zerolog"
)

const (
	defaultTextureResolution = 1024
	defaultRemeshOption      = "triangle"
)

// SF3D runs the Stable Fast 3D image-to-3D tool. The input image is a
// pre-uploaded blob referenced by the job's input_path parameter
// (image_path is the accepted legacy spelling).
type SF3D struct {
	Command string
	Blob    storage.BlobStore
	Logger  zerolog.Logger
}

func (a *SF3D) Generate(ctx context.Context, req Request, workdir string) (string, error) {
	object := stringParam(req.Params, "input_path")
	if object == "" {
		object = stringParam(req.Params, "image_path")
	}
	if object == "" {
		return "", &ValidationError{Param: "input_path", Reason: "required for image-to-3D generation"}
	}

	localInput := filepath.Join(workdir, "input_image.png")
	localOutput := filepath.Join(workdir, "output.glb")

	a.Logger.Info().Str("job_id", req.JobID).Str("object", object).Msg("sf3d: downloading input image")
	if err := a.Blob.Download(ctx, object, localInput); err != nil {
		return "", fmt.Errorf("fetch input image: %w", err)
	}

	err := runTool(a.Logger, a.Command,
		"--input_path", localInput,
		"--output_path", localOutput,
		"--texture_resolution", strconv.Itoa(intParam(req.Params, "texture_resolution", defaultTextureResolution)),
		"--remesh_option", remeshOption(req.Params),
	)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(localOutput); err != nil {
		return "", fmt.Errorf("%s: %w", localOutput, ErrMissingOutput)
	}
	return localOutput, nil
}

func remeshOption(params map[string]any) string {
	if v := stringParam(params, "remesh_option"); v != "" {
		return v
	}
	return defaultRemeshOption
}

var _ Adapter = (*SF3D)(nil)
