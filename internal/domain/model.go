package domain

import "time"

// ModelKind distinguishes what a generation model consumes.
type ModelKind string

const (
	ModelTextTo3D  ModelKind = "text_to_3d"
	ModelImageTo3D ModelKind = "image_to_3d"
)

// GenerationModel is a registered external generation tool. Jobs reference a
// model by id and creation fails when the id is not registered and active.
type GenerationModel struct {
	ID        string
	Name      string
	Kind      ModelKind
	Active    bool
	CreatedAt time.Time
}
