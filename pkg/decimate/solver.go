package decimate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

// uvSide is one UV side of a candidate collapse: the texcoord variants the
// two endpoints use on that side, and the merged UV they would collapse to.
// A seam edge has two sides; an interior or boundary edge has one.
type uvSide struct {
	tcV1, tcV2 int
	uv         mgl64.Vec2
}

// placement is the cached result of the cost solver for one edge: the
// proposed merged position, the merged UV per side, and the scalar cost.
// It is recomputed whenever a collapse touches the edge's neighborhood and
// discarded when the edge collapses or dies. An infinite cost carries no
// sides; such an edge is never collapsed while any finite edge remains,
// which is the mechanism that guarantees seam and foldover preservation.
type placement struct {
	pos   mgl64.Vec3
	sides []uvSide
	cost  float64
}

var infPlacement = placement{cost: math.Inf(1)}

// degenerateNormal rejects faces too small to carry an orientation.
const degenerateNormal = 1e-12

// computeCost runs the cost and placement solve for edge eid against the
// current mesh state. Seam and foldover violations at the configured
// strictness are vetoed with an infinite cost rather than an error.
func (st *state) computeCost(eid int) placement {
	e := &st.conn.Edges[eid]
	if e.Dead || st.vertexDead[e.V1] || st.vertexDead[e.V2] || e.NonManifold {
		return infPlacement
	}

	// Full strictness pins every edge touching a seam: collapsing one
	// would move or merge seam-adjacent texcoords and tear the atlas.
	if st.strict >= StrictnessFull && (st.seams.SeamVertex(e.V1) || st.seams.SeamVertex(e.V2)) {
		return infPlacement
	}

	sides := st.edgeSides(eid)
	if len(sides) == 0 {
		// Wire edge with no live faces; nothing to place against.
		return infPlacement
	}

	// Side A drives the merged 3D position. Combine the endpoint quadrics
	// and solve for the optimal 5D point; a singular system (flat or
	// boundary neighborhoods) falls back to the better of endpoint A,
	// endpoint B, or their midpoint.
	m := st.m
	qa := st.metric.at(e.V1, sides[0].tcV1).Sum(st.metric.at(e.V2, sides[0].tcV2))

	cand1 := point5(m.Positions[e.V1], m.Texcoords[sides[0].tcV1])
	cand2 := point5(m.Positions[e.V2], m.Texcoords[sides[0].tcV2])
	mid := cand1.Add(cand2).Scale(0.5)

	best, bestCost := cand1, qa.Eval(cand1)
	if c := qa.Eval(cand2); c < bestCost {
		best, bestCost = cand2, c
	}
	if c := qa.Eval(mid); c < bestCost {
		best, bestCost = mid, c
	}
	if opt, ok := qa.Minimize(); ok {
		if c := qa.Eval(opt); c < bestCost {
			best, bestCost = opt, c
		}
	}

	pos := mgl64.Vec3{best[0], best[1], best[2]}
	sides[0].uv = mgl64.Vec2{best[3], best[4]}
	cost := bestCost

	// The other side of a seam shares the 3D position but solves its own
	// UV target from its own quadric sum.
	if len(sides) == 2 {
		qb := st.metric.at(e.V1, sides[1].tcV1).Sum(st.metric.at(e.V2, sides[1].tcV2))
		uv1 := m.Texcoords[sides[1].tcV1]
		uv2 := m.Texcoords[sides[1].tcV2]
		uvMid := uv1.Add(uv2).Mul(0.5)

		bestUV, bestB := uv1, qb.Eval(point5(pos, uv1))
		if c := qb.Eval(point5(pos, uv2)); c < bestB {
			bestUV, bestB = uv2, c
		}
		if c := qb.Eval(point5(pos, uvMid)); c < bestB {
			bestUV, bestB = uvMid, c
		}
		sides[1].uv = bestUV
		cost += bestB
	}

	pl := placement{pos: pos, sides: sides, cost: cost}

	if st.strict >= StrictnessFoldover && st.wouldFoldOver(eid, &pl) {
		return infPlacement
	}
	return pl
}

// edgeSides collects the distinct (texcoord-variant pair) sides of an edge
// from its live incident faces, in flap-slot order.
func (st *state) edgeSides(eid int) []uvSide {
	e := &st.conn.Edges[eid]
	var sides []uvSide
	for s := 0; s < 2; s++ {
		fi := e.Faces[s]
		if fi == mesh.NullIndex || st.m.FaceDead(fi) {
			continue
		}
		f := st.m.Faces[fi]
		ft := st.m.FaceTexcoords[fi]
		side := uvSide{tcV1: -1, tcV2: -1}
		for c := 0; c < 3; c++ {
			if f[c] == e.V1 {
				side.tcV1 = ft[c]
			}
			if f[c] == e.V2 {
				side.tcV2 = ft[c]
			}
		}
		if side.tcV1 < 0 || side.tcV2 < 0 {
			continue
		}
		if len(sides) == 1 && sides[0].tcV1 == side.tcV1 && sides[0].tcV2 == side.tcV2 {
			continue // same UV edge on both faces: not a seam
		}
		sides = append(sides, side)
	}
	return sides
}

// wouldFoldOver checks every surviving triangle in the 1-ring of both
// endpoints: moving the shared corner to the proposed placement must not
// flip the triangle's 3D orientation or the sign of its 2D UV area.
func (st *state) wouldFoldOver(eid int, pl *placement) bool {
	e := &st.conn.Edges[eid]
	m := st.m

	check := func(fi int) bool {
		f := m.Faces[fi]
		ft := m.FaceTexcoords[fi]
		var oldP, newP [3]mgl64.Vec3
		var oldUV, newUV [3]mgl64.Vec2
		for c := 0; c < 3; c++ {
			oldP[c] = m.Positions[f[c]]
			oldUV[c] = m.Texcoords[ft[c]]
			newP[c] = oldP[c]
			newUV[c] = oldUV[c]
			if f[c] != e.V1 && f[c] != e.V2 {
				continue
			}
			newP[c] = pl.pos
			for _, s := range pl.sides {
				if (f[c] == e.V1 && ft[c] == s.tcV1) || (f[c] == e.V2 && ft[c] == s.tcV2) {
					newUV[c] = s.uv
					break
				}
			}
		}

		oldN := oldP[1].Sub(oldP[0]).Cross(oldP[2].Sub(oldP[0]))
		if oldN.Len() >= degenerateNormal {
			newN := newP[1].Sub(newP[0]).Cross(newP[2].Sub(newP[0]))
			if oldN.Dot(newN) <= 0 {
				return true
			}
		}

		oldA := signedUVArea(oldUV)
		if math.Abs(oldA) >= degenerateNormal {
			newA := signedUVArea(newUV)
			if oldA*newA <= 0 {
				return true
			}
		}
		return false
	}

	for _, v := range [2]int{e.V1, e.V2} {
		for _, fi := range st.conn.liveFacesAround(m, v) {
			f := m.Faces[fi]
			if containsCorner(f, e.V1) && containsCorner(f, e.V2) {
				continue // flanking face, removed by the collapse
			}
			if check(fi) {
				return true
			}
		}
	}
	return false
}

func containsCorner(f [3]int, v int) bool {
	return f[0] == v || f[1] == v || f[2] == v
}

// signedUVArea returns twice the signed area of a UV triangle.
func signedUVArea(uv [3]mgl64.Vec2) float64 {
	a := uv[1].Sub(uv[0])
	b := uv[2].Sub(uv[0])
	return a.X()*b.Y() - a.Y()*b.X()
}
