package executor

import (
	"bytes"
	"errors"
	"os/exec"

	"github.com/rs/zerolog"
)

// runTool invokes an external generation tool and waits for it. Failure is
// signaled solely via a nonzero exit code; stdout is log-only and nothing is
// parsed from it for control decisions.
//
// The command is started without cancellation on purpose: once a job is
// claimed it runs to completion, failure or hang. The queue-level TTL only
// bounds broker bookkeeping, never a running subprocess.
func runTool(logger zerolog.Logger, tool string, args ...string) error {
	cmd := exec.Command(tool, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Info().Str("tool", tool).Strs("args", args).Msg("executor: starting generation tool")
	err := cmd.Run()

	if out := stdout.String(); out != "" {
		logger.Info().Str("tool", tool).Msgf("executor: tool output\n%s", out)
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if errOut := stderr.String(); errOut != "" {
			logger.Error().Str("tool", tool).Msgf("executor: tool stderr\n%s", errOut)
		}
		return &ToolExecutionError{Tool: tool, ExitCode: exitCode, Err: err}
	}
	return nil
}
