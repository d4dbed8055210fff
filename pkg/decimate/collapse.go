package decimate

import (
	"sort"

	"github.com/Faultbox/meshdec/pkg/mesh"
	"github.com/Faultbox/meshdec/pkg/quadric"
)

// collapseOutcome reports what a collapse changed. ok is false for a
// no-op: the collapse would have created non-manifold geometry and was
// refused. The driver treats a no-op as a retry-with-infinite-cost
// signal, not an error.
type collapseOutcome struct {
	ok       bool
	stale    []int // edge ids consumed by the collapse; remove from queue
	affected []int // surviving 1-ring edges whose costs must be recomputed
}

// collapse merges edge eid's endpoints into its lower-indexed vertex at
// the solved placement. It rewrites faces, tombstones the flanking faces,
// merges duplicate edges, moves quadrics onto the survivor, and renames
// the dead vertex in the seam map. Only a seam-map symmetry violation is
// an error; everything else that cannot proceed is a no-op.
func (st *state) collapse(eid int, pl *placement) (collapseOutcome, error) {
	noop := collapseOutcome{}
	conn, m := st.conn, st.m
	e := &conn.Edges[eid]
	v1, v2 := e.V1, e.V2 // v1 survives

	if e.Dead || st.vertexDead[v1] || st.vertexDead[v2] || len(pl.sides) == 0 {
		return noop, nil
	}

	// Flanking faces and their opposite vertices.
	var flanks []int
	var opps []int
	for s := 0; s < 2; s++ {
		fi := e.Faces[s]
		if fi == mesh.NullIndex || m.FaceDead(fi) {
			continue
		}
		flanks = append(flanks, fi)
		opps = append(opps, e.Opposite[s])
	}
	if len(opps) == 2 && opps[0] == opps[1] {
		// Both flanks share one opposite vertex: collapsing would stack
		// duplicate faces.
		return noop, nil
	}

	// Link condition: any vertex adjacent to both endpoints must be the
	// opposite vertex of a flanking face, otherwise the merge pinches the
	// surface into a non-manifold configuration.
	n2 := conn.neighbors(v2)
	for _, nv := range conn.neighbors(v1) {
		if nv == v2 || !contains(n2, nv) {
			continue
		}
		isOpp := false
		for _, ov := range opps {
			if ov == nv {
				isOpp = true
			}
		}
		if !isOpp {
			return noop, nil
		}
	}

	facesV1 := conn.liveFacesAround(m, v1)
	facesV2 := conn.liveFacesAround(m, v2)

	// Fresh texcoord entries keep the sides of a seam vertex distinct
	// after the merge; compaction drops the orphaned old entries later.
	newTc := make([]int, len(pl.sides))
	for i, s := range pl.sides {
		newTc[i] = len(m.Texcoords)
		m.Texcoords = append(m.Texcoords, s.uv)
	}

	// Combined quadrics are summed before the consumed variants are
	// dropped, in case both sides share a variant at one endpoint.
	merged := make([]*quadric.Quadric, len(pl.sides))
	for i, s := range pl.sides {
		merged[i] = st.metric.at(v1, s.tcV1).Sum(st.metric.at(v2, s.tcV2))
	}
	for _, s := range pl.sides {
		delete(st.metric[v1], s.tcV1)
		delete(st.metric[v2], s.tcV2)
	}
	for i := range pl.sides {
		st.metric.setMerged(v1, newTc[i], merged[i])
	}
	st.metric.migrate(v2, v1)

	// sideTc rewrites a corner's texcoord index onto the merged variant.
	sideTc := func(v, tc int) int {
		for i, s := range pl.sides {
			if v == v1 && tc == s.tcV1 {
				return newTc[i]
			}
			if v == v2 && tc == s.tcV2 {
				return newTc[i]
			}
		}
		return tc
	}

	rewriteFace := func(fi int) {
		f := &m.Faces[fi]
		ft := &m.FaceTexcoords[fi]
		for c := 0; c < 3; c++ {
			if f[c] != v1 && f[c] != v2 {
				continue
			}
			ft[c] = sideTc(f[c], ft[c])
			f[c] = v1
		}
	}
	for _, fi := range facesV1 {
		if containsCorner(m.Faces[fi], v2) {
			continue
		}
		rewriteFace(fi)
	}
	for _, fi := range facesV2 {
		if containsCorner(m.Faces[fi], v1) {
			continue
		}
		rewriteFace(fi)
	}
	for _, fi := range flanks {
		m.KillFace(fi)
	}

	m.Positions[v1] = pl.pos
	st.vertexDead[v2] = true

	// Retire the collapsed edge.
	stale := []int{eid}
	e.Dead = true
	delete(conn.index, makeEdgeKey(v1, v2))
	conn.dropVertexEdge(v1, eid)
	conn.dropVertexEdge(v2, eid)

	// Each flanking face leaves behind a duplicate edge pair: the side
	// through v2 folds onto the side through v1.
	for i, fi := range flanks {
		ov := opps[i]
		idA, okA := conn.EdgeBetween(v1, ov)
		idB, okB := conn.EdgeBetween(v2, ov)
		if okA {
			conn.dropEdgeFace(idA, fi)
		}
		if !okB {
			continue
		}
		conn.dropEdgeFace(idB, fi)
		eB := &conn.Edges[idB]
		if okA {
			eA := &conn.Edges[idA]
			for s := 0; s < 2; s++ {
				g := eB.Faces[s]
				if g == mesh.NullIndex || m.FaceDead(g) {
					continue
				}
				attached := false
				for t := 0; t < 2; t++ {
					if eA.Faces[t] == mesh.NullIndex {
						eA.Faces[t] = g
						eA.Opposite[t] = eB.Opposite[s]
						attached = true
						break
					}
				}
				if !attached {
					eA.NonManifold = true
				}
				for c := 0; c < 3; c++ {
					if conn.FaceEdges[g][c] == idB {
						conn.FaceEdges[g][c] = idA
					}
				}
			}
		}
		eB.Dead = true
		delete(conn.index, makeEdgeKey(v2, ov))
		conn.dropVertexEdge(v2, idB)
		conn.dropVertexEdge(ov, idB)
		stale = append(stale, idB)
	}

	// Remaining v2 edges are renamed onto v1.
	for _, id2 := range append([]int(nil), conn.VertexEdges[v2]...) {
		e2 := &conn.Edges[id2]
		if e2.Dead {
			continue
		}
		other := e2.Other(v2)
		delete(conn.index, makeEdgeKey(v2, other))
		if v1 < other {
			e2.V1, e2.V2 = v1, other
		} else {
			e2.V1, e2.V2 = other, v1
		}
		conn.index[makeEdgeKey(v1, other)] = id2
		conn.VertexEdges[v1] = append(conn.VertexEdges[v1], id2)
	}
	conn.VertexEdges[v2] = nil

	// Corner rewrites invalidated opposite-vertex data around v1.
	survivorFaces := conn.liveFacesAround(m, v1)
	for _, fi := range survivorFaces {
		conn.refreshFlaps(m, fi)
	}

	if st.seams.EdgeCount() > 0 {
		if err := st.seams.rename(v2, v1); err != nil {
			return noop, err
		}
	}

	// Everything in the survivor's new 1-ring gets recosted: the incident
	// edges and the rim edges both see changed geometry.
	affectedSet := make(map[int]struct{})
	for _, fi := range survivorFaces {
		for _, id := range conn.FaceEdges[fi] {
			if id != mesh.NullIndex && !conn.Edges[id].Dead {
				affectedSet[id] = struct{}{}
			}
		}
	}
	for _, id := range conn.VertexEdges[v1] {
		if !conn.Edges[id].Dead {
			affectedSet[id] = struct{}{}
		}
	}
	affected := make([]int, 0, len(affectedSet))
	for id := range affectedSet {
		affected = append(affected, id)
	}
	sort.Ints(affected)

	return collapseOutcome{ok: true, stale: stale, affected: affected}, nil
}
