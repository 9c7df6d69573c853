package mesh

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Mesh is a triangle mesh with one color per vertex. Positions and Colors are
// parallel arrays kept in the exact order the vertices appeared in the input;
// the conversion depends on that order never changing.
type Mesh struct {
	Positions [][3]float32
	Colors    [][4]uint8
	Triangles [][3]uint32
}

var white = [4]uint8{255, 255, 255, 255}

// ParseOBJ reads a Wavefront OBJ stream. Vertex lines may carry a trailing
// RGB triple (per-vertex color); vertices without one default to opaque
// white. Faces are triangles or quads; quads are split by a fan from the
// first vertex. Anything else on a face line is rejected.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if err := m.parseVertex(fields[1:]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "f":
			if err := m.parseFace(fields[1:]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			// vn, vt, usemtl, o, g, s and friends carry nothing the GLB
			// delivery needs.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	vertexCount := uint32(len(m.Positions))
	for _, tri := range m.Triangles {
		for _, idx := range tri {
			if idx >= vertexCount {
				return nil, fmt.Errorf("face references vertex %d of %d", idx+1, vertexCount)
			}
		}
	}
	return m, nil
}

func (m *Mesh) parseVertex(fields []string) error {
	if len(fields) != 3 && len(fields) != 6 {
		return fmt.Errorf("vertex line has %d values, want 3 or 6", len(fields))
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("vertex value %q: %w", f, err)
		}
		vals[i] = v
	}
	m.Positions = append(m.Positions, [3]float32{float32(vals[0]), float32(vals[1]), float32(vals[2])})
	if len(vals) == 6 {
		m.Colors = append(m.Colors, colorFromTriple(vals[3], vals[4], vals[5]))
	} else {
		m.Colors = append(m.Colors, white)
	}
	return nil
}

// colorFromTriple converts an OBJ color triple to RGBA8. Triples in the unit
// range are scaled by 255 and rounded; triples already above 1.0 are taken as
// 8-bit channel values.
func colorFromTriple(r, g, b float64) [4]uint8 {
	scale := r <= 1.0 && g <= 1.0 && b <= 1.0
	conv := func(v float64) uint8 {
		if scale {
			v = v * 255
		}
		v = math.Round(v)
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return [4]uint8{conv(r), conv(g), conv(b), 255}
}

func (m *Mesh) parseFace(fields []string) error {
	if len(fields) < 3 || len(fields) > 4 {
		return fmt.Errorf("face with %d vertices not supported", len(fields))
	}
	idx := make([]uint32, len(fields))
	for i, f := range fields {
		// Tokens may be v, v/vt, v//vn or v/vt/vn; only the vertex index matters.
		vertexRef := strings.SplitN(f, "/", 2)[0]
		n, err := strconv.Atoi(vertexRef)
		if err != nil {
			return fmt.Errorf("face index %q: %w", f, err)
		}
		if n < 1 {
			return fmt.Errorf("face index %d is not a positive 1-based index", n)
		}
		idx[i] = uint32(n - 1)
	}
	m.Triangles = append(m.Triangles, [3]uint32{idx[0], idx[1], idx[2]})
	if len(idx) == 4 {
		m.Triangles = append(m.Triangles, [3]uint32{idx[0], idx[2], idx[3]})
	}
	return nil
}

// RotateXNeg90 rotates the mesh -90 degrees about the X axis, converting the
// generation tool's Z-up convention to the GLB delivery Y-up convention:
// (x, y, z) -> (x, z, -y).
func (m *Mesh) RotateXNeg90() {
	for i, p := range m.Positions {
		m.Positions[i] = [3]float32{p[0], p[2], -p[1]}
	}
}
