package mesh

import (
	"strings"
	"testing"
)

func TestParseOBJVertexColors(t *testing.T) {
	// One colored vertex, three plain ones, a single quad face.
	input := `
v 0.0 0.0 0.0 1.0 0.0 0.0
v 1.0 0.0 0.0
v 1.0 1.0 0.0
v 0.0 1.0 0.0
f 1 2 3 4
`
	m, err := ParseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if len(m.Positions) != 4 {
		t.Fatalf("got %d vertices, want 4", len(m.Positions))
	}
	// Input vertex order must be preserved exactly.
	wantPositions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	for i, want := range wantPositions {
		if m.Positions[i] != want {
			t.Fatalf("vertex %d = %v, want %v", i, m.Positions[i], want)
		}
	}

	if m.Colors[0] != [4]uint8{255, 0, 0, 255} {
		t.Fatalf("vertex 0 color = %v, want opaque red", m.Colors[0])
	}
	for i := 1; i < 4; i++ {
		if m.Colors[i] != [4]uint8{255, 255, 255, 255} {
			t.Fatalf("vertex %d color = %v, want opaque white", i, m.Colors[i])
		}
	}

	// Quad split into two triangles by a fan from vertex 0.
	if len(m.Triangles) != 2 {
		t.Fatalf("got %d triangles, want 2", len(m.Triangles))
	}
	if m.Triangles[0] != [3]uint32{0, 1, 2} || m.Triangles[1] != [3]uint32{0, 2, 3} {
		t.Fatalf("triangles = %v, want [0 1 2] [0 2 3]", m.Triangles)
	}
}

func TestParseOBJFaceIndexConversion(t *testing.T) {
	input := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1 2//2 3\n"
	m, err := ParseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if m.Triangles[0] != [3]uint32{0, 1, 2} {
		t.Fatalf("triangle = %v, want 0-based [0 1 2]", m.Triangles[0])
	}
}

func TestParseOBJRejectsUnsupportedPolygons(t *testing.T) {
	tests := []struct {
		name string
		face string
	}{
		{"pentagon", "f 1 2 3 4 5"},
		{"degenerate", "f 1 2"},
		{"zero index", "f 0 1 2"},
	}
	prefix := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nv 2 2 0\n"
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseOBJ(strings.NewReader(prefix + tc.face + "\n")); err == nil {
				t.Fatalf("expected error for %q", tc.face)
			}
		})
	}
}

func TestParseOBJRejectsOutOfRangeIndex(t *testing.T) {
	input := "v 0 0 0\nv 1 0 0\nf 1 2 3\n"
	if _, err := ParseOBJ(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for face referencing missing vertex")
	}
}

func TestColorFromTriple(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    [4]uint8
	}{
		{"unit floats scale", 1.0, 0.0, 0.5, [4]uint8{255, 0, 128, 255}},
		{"rounding", 0.501, 0.499, 0.0, [4]uint8{128, 127, 0, 255}},
		{"eight bit passthrough", 255, 128, 0, [4]uint8{255, 128, 0, 255}},
		{"clamped", 300, 0, 0, [4]uint8{255, 0, 0, 255}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := colorFromTriple(tc.r, tc.g, tc.b); got != tc.want {
				t.Fatalf("colorFromTriple(%v,%v,%v) = %v, want %v", tc.r, tc.g, tc.b, got, tc.want)
			}
		})
	}
}

func TestRotateXNeg90(t *testing.T) {
	m := &Mesh{Positions: [][3]float32{{1, 2, 3}}}
	m.RotateXNeg90()
	if m.Positions[0] != [3]float32{1, 3, -2} {
		t.Fatalf("rotated = %v, want [1 3 -2]", m.Positions[0])
	}
}
