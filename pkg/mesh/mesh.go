// Package mesh provides the triangle mesh container used by the decimator.
//
// A Mesh carries two independent coordinate spaces per vertex: a 3D position
// and a 2D texture coordinate. Faces index into both lists through parallel
// index triples, so a single 3D vertex may map to different texture
// coordinates depending on which face references it (a UV seam).
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// NullIndex marks a logically deleted face slot. Faces are never physically
// removed while an algorithm runs; they are tombstoned so that every other
// index in the mesh stays stable.
const NullIndex = -1

// ErrMalformed reports out-of-range indices or inconsistent array lengths.
var ErrMalformed = errors.New("malformed mesh")

// Mesh is an indexed triangle mesh with per-corner texture coordinates.
// FaceTexcoords is parallel to Faces: same length, same winding.
type Mesh struct {
	Positions     []mgl64.Vec3
	Faces         [][3]int
	Texcoords     []mgl64.Vec2
	FaceTexcoords [][3]int
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// VertexCount returns the number of position entries.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TexcoordCount returns the number of texture coordinate entries.
func (m *Mesh) TexcoordCount() int { return len(m.Texcoords) }

// FaceCount returns the number of face slots, dead slots included.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// FaceDead reports whether face slot i is tombstoned.
func (m *Mesh) FaceDead(i int) bool { return m.Faces[i][0] == NullIndex }

// KillFace tombstones face slot i.
func (m *Mesh) KillFace(i int) {
	m.Faces[i] = [3]int{NullIndex, NullIndex, NullIndex}
	m.FaceTexcoords[i] = [3]int{NullIndex, NullIndex, NullIndex}
}

// LiveFaceCount returns the number of faces that are not tombstoned.
func (m *Mesh) LiveFaceCount() int {
	n := 0
	for i := range m.Faces {
		if !m.FaceDead(i) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Positions:     make([]mgl64.Vec3, len(m.Positions)),
		Faces:         make([][3]int, len(m.Faces)),
		Texcoords:     make([]mgl64.Vec2, len(m.Texcoords)),
		FaceTexcoords: make([][3]int, len(m.FaceTexcoords)),
	}
	copy(c.Positions, m.Positions)
	copy(c.Faces, m.Faces)
	copy(c.Texcoords, m.Texcoords)
	copy(c.FaceTexcoords, m.FaceTexcoords)
	return c
}

// Validate checks index ranges and array-length consistency.
// A face must either be fully tombstoned or reference valid entries in
// both index spaces.
func (m *Mesh) Validate() error {
	if len(m.Faces) != len(m.FaceTexcoords) {
		return fmt.Errorf("%w: %d faces but %d face texcoord triples",
			ErrMalformed, len(m.Faces), len(m.FaceTexcoords))
	}
	for i, f := range m.Faces {
		ft := m.FaceTexcoords[i]
		if m.FaceDead(i) {
			continue
		}
		for c := 0; c < 3; c++ {
			if f[c] < 0 || f[c] >= len(m.Positions) {
				return fmt.Errorf("%w: face %d corner %d position index %d out of range [0,%d)",
					ErrMalformed, i, c, f[c], len(m.Positions))
			}
			if ft[c] < 0 || ft[c] >= len(m.Texcoords) {
				return fmt.Errorf("%w: face %d corner %d texcoord index %d out of range [0,%d)",
					ErrMalformed, i, c, ft[c], len(m.Texcoords))
			}
		}
	}
	return nil
}

// ComputeBounds returns the axis-aligned bounding box of all positions
// referenced by live faces. An empty mesh returns a zero Bounds.
func (m *Mesh) ComputeBounds() Bounds {
	b := Bounds{
		Min: mgl64.Vec3{1e30, 1e30, 1e30},
		Max: mgl64.Vec3{-1e30, -1e30, -1e30},
	}
	seen := false
	for i, f := range m.Faces {
		if m.FaceDead(i) {
			continue
		}
		for c := 0; c < 3; c++ {
			p := m.Positions[f[c]]
			for k := 0; k < 3; k++ {
				if p[k] < b.Min[k] {
					b.Min[k] = p[k]
				}
				if p[k] > b.Max[k] {
					b.Max[k] = p[k]
				}
			}
			seen = true
		}
	}
	if !seen {
		return Bounds{}
	}
	return b
}
