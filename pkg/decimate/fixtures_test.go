package decimate

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

// quadMesh builds a unit square in the z=0 plane: 4 vertices, 2 faces
// sharing the (0,2) diagonal, identical UVs on both triangles (no seam).
func quadMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Positions: []mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		},
		Faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
		Texcoords: []mgl64.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		FaceTexcoords: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// atlasCubeMesh builds a unit cube with a separate UV island per face:
// 8 position vertices but 24 texcoord entries, so all 12 geometric cube
// edges are seams while the 6 in-face diagonals are not.
func atlasCubeMesh() *mesh.Mesh {
	m := &mesh.Mesh{
		Positions: []mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
	}
	quads := [][4]int{
		{0, 3, 2, 1}, // -z
		{4, 5, 6, 7}, // +z
		{0, 1, 5, 4}, // -y
		{2, 3, 7, 6}, // +y
		{0, 4, 7, 3}, // -x
		{1, 2, 6, 5}, // +x
	}
	island := []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, q := range quads {
		base := len(m.Texcoords)
		m.Texcoords = append(m.Texcoords, island...)
		m.Faces = append(m.Faces,
			[3]int{q[0], q[1], q[2]},
			[3]int{q[0], q[2], q[3]},
		)
		m.FaceTexcoords = append(m.FaceTexcoords,
			[3]int{base, base + 1, base + 2},
			[3]int{base, base + 2, base + 3},
		)
	}
	return m
}

// seamStripMesh builds a flat 2x1 quad strip whose two quads live on
// different UV islands: exactly one seam edge, between vertices 2 and 3.
func seamStripMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Positions: []mgl64.Vec3{
			{0, 0, 0}, {0, 1, 0},
			{1, 0, 0}, {1, 1, 0},
			{2, 0, 0}, {2, 1, 0},
		},
		Faces: [][3]int{
			{0, 2, 3}, {0, 3, 1}, // left quad
			{2, 4, 5}, {2, 5, 3}, // right quad
		},
		Texcoords: []mgl64.Vec2{
			{0, 0}, {0.5, 0}, {0.5, 1}, {0, 1}, // left island: v0, v2, v3, v1
			{0.6, 0}, {1, 0}, {1, 1}, {0.6, 1}, // right island: v2, v4, v5, v3
		},
		FaceTexcoords: [][3]int{
			{0, 1, 2}, {0, 2, 3},
			{4, 5, 6}, {4, 6, 7},
		},
	}
}

// pinchedPairMesh builds a mesh where vertex 4 is adjacent to both
// endpoints of edge (0,1) without being an opposite vertex of its
// flanking faces, so collapsing (0,1) would pinch the surface.
func pinchedPairMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Positions: []mgl64.Vec3{
			{0, 0, 0}, {2, 0, 0}, {1, 1, 0}, {1, -1, 0}, {1, 2, 1},
		},
		Faces: [][3]int{
			{0, 1, 2}, {0, 3, 1}, // flanks of edge (0,1)
			{0, 2, 4}, {1, 4, 2}, // connect 4 to both endpoints
		},
		Texcoords: []mgl64.Vec2{
			{0, 0}, {1, 0}, {0.5, 0.5}, {0.5, -0.5}, {0.5, 1},
		},
		FaceTexcoords: [][3]int{
			{0, 1, 2}, {0, 3, 1},
			{0, 2, 4}, {1, 4, 2},
		},
	}
}

// nonManifoldFanMesh builds three triangles all sharing edge (0,1).
func nonManifoldFanMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Positions: []mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0.5, 1, 0}, {0.5, -1, 0}, {0.5, 0, 1},
		},
		Faces: [][3]int{
			{0, 1, 2}, {1, 0, 3}, {0, 1, 4},
		},
		Texcoords: []mgl64.Vec2{
			{0, 0}, {1, 0}, {0.5, 1}, {0.5, -1}, {0.5, 0.5},
		},
		FaceTexcoords: [][3]int{
			{0, 1, 2}, {1, 0, 3}, {0, 1, 4},
		},
	}
}

// newTestState assembles the decimation state for a mesh the way prepare
// does, without target handling. The mesh is used directly, not cloned.
func newTestState(t *testing.T, m *mesh.Mesh, strict Strictness) *state {
	t.Helper()
	conn, err := BuildConnectivity(m, NonManifoldIgnore)
	if err != nil {
		t.Fatalf("BuildConnectivity failed: %v", err)
	}
	seams, err := DetectSeams(m)
	if err != nil {
		t.Fatalf("DetectSeams failed: %v", err)
	}
	return &state{
		m:          m,
		conn:       conn,
		seams:      seams,
		metric:     buildMetric(m),
		strict:     strict,
		vertexDead: make([]bool, len(m.Positions)),
	}
}
