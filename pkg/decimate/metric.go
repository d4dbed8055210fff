package decimate

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshdec/pkg/mesh"
	"github.com/Faultbox/meshdec/pkg/quadric"
)

// vertexMetric stores one quadric per (vertex, texcoord-variant) pair:
// the outer slice is indexed by vertex id, the inner map by the texcoord
// index the face corner used. A vertex on a seam is referenced with
// different texcoord indices by the faces on each side and therefore
// accumulates separate quadrics per side, which is what lets the same 3D
// point collapse differently on each side of the seam.
type vertexMetric []map[int]*quadric.Quadric

// point5 pairs a position with a texture coordinate into combined space.
func point5(p mgl64.Vec3, t mgl64.Vec2) quadric.Vec5 {
	return quadric.Vec5{p.X(), p.Y(), p.Z(), t.X(), t.Y()}
}

// buildMetric accumulates every live face's 5D plane quadric into the
// metric of each (vertex, texcoord-variant) pair the face uses.
// Degenerate triangles have no plane and contribute nothing.
func buildMetric(m *mesh.Mesh) vertexMetric {
	vm := make(vertexMetric, len(m.Positions))
	for i := range vm {
		vm[i] = make(map[int]*quadric.Quadric, 2)
	}

	for fi, f := range m.Faces {
		if m.FaceDead(fi) {
			continue
		}
		ft := m.FaceTexcoords[fi]
		p0 := point5(m.Positions[f[0]], m.Texcoords[ft[0]])
		p1 := point5(m.Positions[f[1]], m.Texcoords[ft[1]])
		p2 := point5(m.Positions[f[2]], m.Texcoords[ft[2]])

		e1, e2, ok := quadric.PlaneBasis(p0, p1, p2)
		if !ok {
			continue
		}
		q := quadric.FromPlane(p0, e1, e2)
		for c := 0; c < 3; c++ {
			vm.add(f[c], ft[c], q)
		}
	}
	return vm
}

// at returns the quadric for (vertex, variant), or the zero quadric when
// no face contributed one.
func (vm vertexMetric) at(v, tc int) *quadric.Quadric {
	if q, ok := vm[v][tc]; ok {
		return q
	}
	return &quadric.Quadric{}
}

// add accumulates q into the (vertex, variant) slot.
func (vm vertexMetric) add(v, tc int, q *quadric.Quadric) {
	if have, ok := vm[v][tc]; ok {
		have.Add(q)
		return
	}
	cp := *q
	vm[v][tc] = &cp
}

// setMerged installs the combined quadric of a collapse at the surviving
// vertex's freshly allocated texcoord variant.
func (vm vertexMetric) setMerged(v, tc int, q *quadric.Quadric) {
	vm[v][tc] = q
}

// migrate moves every variant quadric of dead vertex old onto vertex now,
// summing on collision. Variants consumed by the collapse itself must be
// deleted by the caller first.
func (vm vertexMetric) migrate(old, now int) {
	for tc, q := range vm[old] {
		vm.add(now, tc, q)
	}
	vm[old] = nil
}
