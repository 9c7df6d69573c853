package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base, "http://localhost:8080/static/")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	src := filepath.Join(t.TempDir(), "model.glb")
	if err := os.WriteFile(src, []byte("glTF-binary"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	size, err := store.Upload(ctx, "jobs/abc/model.glb", src, "model/gltf-binary")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if size != int64(len("glTF-binary")) {
		t.Fatalf("size = %d", size)
	}

	dst := filepath.Join(t.TempDir(), "out.glb")
	if err := store.Download(ctx, "jobs/abc/model.glb", dst); err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "glTF-binary" {
		t.Fatalf("downloaded content = %q", data)
	}
}

func TestFileStorePresign(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "http://localhost:8080/static/")
	if err != nil {
		t.Fatal(err)
	}
	url, err := store.PresignGet(context.Background(), "jobs/abc/model.glb", time.Minute)
	if err != nil {
		t.Fatalf("PresignGet: %v", err)
	}
	if url != "http://localhost:8080/static/jobs/abc/model.glb" {
		t.Fatalf("url = %q", url)
	}
	if _, err := store.PresignPut(context.Background(), "x", time.Minute); !errors.Is(err, ErrPresignUnsupported) {
		t.Fatalf("PresignPut err = %v, want ErrPresignUnsupported", err)
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "jobs/a/model.glb", want: "jobs/a/model.glb"},
		{in: "/leading/slash", want: "leading/slash"},
		{in: "./dotted", want: "dotted"},
		{in: "../escape", wantErr: true},
		{in: "a/../../escape", wantErr: true},
		{in: "  ", wantErr: true},
	}
	for _, tc := range tests {
		got, err := sanitizeKey(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("sanitizeKey(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("sanitizeKey(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("sanitizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
