package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type stubAdapter struct {
	gotReq  Request
	gotDir  string
	calls   int
	outPath string
	err     error
}

func (s *stubAdapter) Generate(ctx context.Context, req Request, workdir string) (string, error) {
	s.calls++
	s.gotReq = req
	s.gotDir = workdir
	return s.outPath, s.err
}

func TestExecutorDispatch(t *testing.T) {
	exec := New(zerolog.Nop())
	stub := &stubAdapter{outPath: "/tmp/x/output.glb"}
	exec.Register("sf3d-v1", stub)

	out, err := exec.Run(context.Background(), Request{JobID: "j1", ModelID: "sf3d-v1"}, "/tmp/x")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "/tmp/x/output.glb" {
		t.Fatalf("out = %q", out)
	}
	if stub.calls != 1 || stub.gotReq.JobID != "j1" || stub.gotDir != "/tmp/x" {
		t.Fatalf("adapter not invoked as expected: %+v dir=%q", stub.gotReq, stub.gotDir)
	}
}

func TestExecutorUnknownModel(t *testing.T) {
	exec := New(zerolog.Nop())
	_, err := exec.Run(context.Background(), Request{ModelID: "ghost-model"}, t.TempDir())
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("err = %v, want ErrUnknownModel", err)
	}
}

func TestDreamFusionRequiresPrompt(t *testing.T) {
	adapter := &DreamFusion{Command: "dreamfusion-wrapper", Logger: zerolog.Nop()}
	_, err := adapter.Generate(context.Background(), Request{JobID: "j1", ModelID: "dreamfusion-sd"}, t.TempDir())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Param != "prompt" {
		t.Fatalf("param = %q, want prompt", verr.Param)
	}
}

func TestSF3DRequiresInputPath(t *testing.T) {
	adapter := &SF3D{Command: "sf3d-wrapper", Logger: zerolog.Nop()}
	_, err := adapter.Generate(context.Background(), Request{JobID: "j1", ModelID: "sf3d-v1"}, t.TempDir())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Param != "input_path" {
		t.Fatalf("param = %q, want input_path", verr.Param)
	}
}

func TestClampSteps(t *testing.T) {
	if got := clampSteps(zerolog.Nop(), "j1", 300); got != minDreamFusionSteps {
		t.Fatalf("clampSteps(300) = %d, want %d", got, minDreamFusionSteps)
	}
	if got := clampSteps(zerolog.Nop(), "j1", 2000); got != 2000 {
		t.Fatalf("clampSteps(2000) = %d, want 2000", got)
	}
}

func TestParamHelpers(t *testing.T) {
	params := map[string]any{
		"input_path": "uploads/u1/chair.png",
		"steps_f":    float64(1500),
		"steps_s":    "1200",
		"bad":        []string{"x"},
	}
	if got := stringParam(params, "input_path"); got != "uploads/u1/chair.png" {
		t.Fatalf("stringParam = %q", got)
	}
	if got := stringParam(params, "missing"); got != "" {
		t.Fatalf("stringParam(missing) = %q", got)
	}
	if got := intParam(params, "steps_f", 1); got != 1500 {
		t.Fatalf("intParam(float64) = %d", got)
	}
	if got := intParam(params, "steps_s", 1); got != 1200 {
		t.Fatalf("intParam(string) = %d", got)
	}
	if got := intParam(params, "bad", 7); got != 7 {
		t.Fatalf("intParam(bad) = %d, want fallback", got)
	}
	if got := intParam(nil, "any", 9); got != 9 {
		t.Fatalf("intParam(nil map) = %d, want fallback", got)
	}
}
