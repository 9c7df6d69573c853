package mesh

import (
	"fmt"
	"os"
)

// ConvertOBJToGLB converts a text OBJ mesh into a binary GLB scene for
// web/engine consumption. Vertex order is preserved from the input; the
// up-axis correction is applied after reconstruction.
func ConvertOBJToGLB(objPath, glbPath string) error {
	f, err := os.Open(objPath)
	if err != nil {
		return fmt.Errorf("convert: open %q: %w", objPath, err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return fmt.Errorf("convert: parse %q: %w", objPath, err)
	}
	m.RotateXNeg90()

	if err := WriteGLB(m, glbPath); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	return nil
}
