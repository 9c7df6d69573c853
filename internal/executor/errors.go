package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownModel means the job references a model no adapter is
	// registered for.
	ErrUnknownModel = errors.New("unknown generation model")

	// ErrMissingOutput means the tool exited cleanly but the expected output
	// file never appeared.
	ErrMissingOutput = errors.New("generation tool produced no output file")
)

// ValidationError reports a required parameter that was absent from the job.
// The job was already queued when this is detected, so it still finishes
// FAILED rather than being dropped.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
}

// ToolExecutionError reports a generation tool that ran and failed: nonzero
// exit, or output that was produced but could not be made usable. It is
// terminal for the job; there is no automatic retry.
type ToolExecutionError struct {
	Tool     string
	ExitCode int
	Err      error
}

func (e *ToolExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("tool %s exited with code %d", e.Tool, e.ExitCode)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }
