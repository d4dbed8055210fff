package decimate

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

// compact produces the final output mesh: tombstoned and degenerate faces
// (two or more equal corners) are dropped, and surviving position and
// texcoord indices are remapped to a dense range in first-use order, which
// keeps the output deterministic.
func compact(m *mesh.Mesh) *mesh.Mesh {
	posMap := make([]int, len(m.Positions))
	tcMap := make([]int, len(m.Texcoords))
	for i := range posMap {
		posMap[i] = mesh.NullIndex
	}
	for i := range tcMap {
		tcMap[i] = mesh.NullIndex
	}

	out := &mesh.Mesh{}
	for fi, f := range m.Faces {
		if m.FaceDead(fi) {
			continue
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			continue
		}
		ft := m.FaceTexcoords[fi]

		var nf, nft [3]int
		for c := 0; c < 3; c++ {
			if posMap[f[c]] == mesh.NullIndex {
				posMap[f[c]] = len(out.Positions)
				out.Positions = append(out.Positions, m.Positions[f[c]])
			}
			nf[c] = posMap[f[c]]

			if tcMap[ft[c]] == mesh.NullIndex {
				tcMap[ft[c]] = len(out.Texcoords)
				out.Texcoords = append(out.Texcoords, m.Texcoords[ft[c]])
			}
			nft[c] = tcMap[ft[c]]
		}
		out.Faces = append(out.Faces, nf)
		out.FaceTexcoords = append(out.FaceTexcoords, nft)
	}

	if out.Positions == nil {
		out.Positions = []mgl64.Vec3{}
	}
	if out.Texcoords == nil {
		out.Texcoords = []mgl64.Vec2{}
	}
	return out
}
