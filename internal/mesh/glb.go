package mesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// WriteGLB serializes the mesh into a binary glTF container at path.
func WriteGLB(m *Mesh, path string) error {
	if len(m.Positions) == 0 {
		return fmt.Errorf("glb: mesh has no vertices")
	}
	if len(m.Triangles) == 0 {
		return fmt.Errorf("glb: mesh has no faces")
	}

	indices := make([]uint32, 0, len(m.Triangles)*3)
	for _, tri := range m.Triangles {
		indices = append(indices, tri[0], tri[1], tri[2])
	}

	doc := gltf.NewDocument()
	positionAccessor := modeler.WritePosition(doc, m.Positions)
	colorAccessor := modeler.WriteColor(doc, m.Colors)
	indexAccessor := modeler.WriteIndices(doc, indices)

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "generated",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{
				gltf.POSITION: positionAccessor,
				gltf.COLOR_0:  colorAccessor,
			},
			Indices: gltf.Index(indexAccessor),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "generated", Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("glb: save %q: %w", path, err)
	}
	return nil
}
