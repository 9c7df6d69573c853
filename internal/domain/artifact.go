package domain

import (
	"fmt"
	"time"
)

// ArtifactType enumerates the kinds of files linked to a job.
type ArtifactType string

const (
	ArtifactInput       ArtifactType = "INPUT"
	ArtifactOutputModel ArtifactType = "OUTPUT_MODEL"
	ArtifactPreview     ArtifactType = "PREVIEW"
	ArtifactLog         ArtifactType = "LOG"
)

// ParseArtifactType validates a persisted artifact type string.
func ParseArtifactType(s string) (ArtifactType, error) {
	switch ArtifactType(s) {
	case ArtifactInput, ArtifactOutputModel, ArtifactPreview, ArtifactLog:
		return ArtifactType(s), nil
	}
	return "", fmt.Errorf("unknown artifact type %q", s)
}

// Artifact is one stored file associated with a job. Rows are cascade-deleted
// with their job. OUTPUT_MODEL rows are inserted in the same transaction as
// the SUCCEEDED transition.
type Artifact struct {
	ID            string
	JobID         string
	Type          ArtifactType
	StoragePath   string
	FileSizeBytes *int64
	CreatedAt     time.Time
}
