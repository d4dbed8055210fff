package decimate

import (
	"fmt"
	"sort"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

// NonManifoldPolicy controls how edges with more than two incident faces
// are handled during connectivity building.
type NonManifoldPolicy int

const (
	// NonManifoldIgnore tolerates extra incidences: the edge is marked
	// uncollapsible (its cost is pinned to +Inf) and the extra face is
	// not recorded in the edge flaps.
	NonManifoldIgnore NonManifoldPolicy = iota
	// NonManifoldReject fails connectivity building with ErrNonManifoldEdge.
	NonManifoldReject
)

// Edge is an undirected pair of position-vertex indices together with its
// edge flaps: the up-to-two incident faces and the opposite vertex of each.
// V1 < V2 always. A face slot holds mesh.NullIndex when absent; an edge
// with a single incident face is a boundary edge.
type Edge struct {
	V1, V2      int
	Faces       [2]int
	Opposite    [2]int
	Dead        bool
	NonManifold bool
}

// Boundary reports whether the edge has fewer than two incident faces.
func (e *Edge) Boundary() bool {
	return e.Faces[0] == mesh.NullIndex || e.Faces[1] == mesh.NullIndex
}

// HasVertex reports whether v is one of the edge's endpoints.
func (e *Edge) HasVertex(v int) bool { return e.V1 == v || e.V2 == v }

// Other returns the endpoint that is not v.
func (e *Edge) Other(v int) int {
	if e.V1 == v {
		return e.V2
	}
	return e.V1
}

type edgeKey struct{ a, b int }

func makeEdgeKey(u, v int) edgeKey {
	if u < v {
		return edgeKey{u, v}
	}
	return edgeKey{v, u}
}

// Connectivity is the edge-flap view of a mesh: the edge arena, a
// face→edge lookup (three entries per face, matching corner order so that
// entry i is the edge between corners i and i+1), and a vertex→edge
// incidence list used to walk 1-rings.
type Connectivity struct {
	Edges       []Edge
	FaceEdges   [][3]int
	VertexEdges [][]int

	index map[edgeKey]int
}

// BuildConnectivity derives the edge arena from a mesh. The first time an
// undirected edge is seen a new edge id is allocated and side A recorded;
// the second time side B is recorded. A third incidence triggers the
// non-manifold policy. Tombstoned faces are skipped.
func BuildConnectivity(m *mesh.Mesh, policy NonManifoldPolicy) (*Connectivity, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	c := &Connectivity{
		FaceEdges:   make([][3]int, len(m.Faces)),
		VertexEdges: make([][]int, len(m.Positions)),
		index:       make(map[edgeKey]int),
	}

	for fi, f := range m.Faces {
		if m.FaceDead(fi) {
			c.FaceEdges[fi] = [3]int{mesh.NullIndex, mesh.NullIndex, mesh.NullIndex}
			continue
		}
		for corner := 0; corner < 3; corner++ {
			a := f[corner]
			b := f[(corner+1)%3]
			opp := f[(corner+2)%3]
			key := makeEdgeKey(a, b)

			id, seen := c.index[key]
			if !seen {
				id = len(c.Edges)
				c.Edges = append(c.Edges, Edge{
					V1:       key.a,
					V2:       key.b,
					Faces:    [2]int{mesh.NullIndex, mesh.NullIndex},
					Opposite: [2]int{mesh.NullIndex, mesh.NullIndex},
				})
				c.index[key] = id
				c.VertexEdges[key.a] = append(c.VertexEdges[key.a], id)
				c.VertexEdges[key.b] = append(c.VertexEdges[key.b], id)
			}

			e := &c.Edges[id]
			switch {
			case e.Faces[0] == mesh.NullIndex:
				e.Faces[0] = fi
				e.Opposite[0] = opp
			case e.Faces[1] == mesh.NullIndex:
				e.Faces[1] = fi
				e.Opposite[1] = opp
			default:
				if policy == NonManifoldReject {
					return nil, fmt.Errorf("%w: edge (%d,%d) has more than two incident faces",
						ErrNonManifoldEdge, e.V1, e.V2)
				}
				e.NonManifold = true
			}
			c.FaceEdges[fi][corner] = id
		}
	}
	return c, nil
}

// EdgeBetween returns the id of the live edge joining u and v.
func (c *Connectivity) EdgeBetween(u, v int) (int, bool) {
	id, ok := c.index[makeEdgeKey(u, v)]
	if !ok || c.Edges[id].Dead {
		return 0, false
	}
	return id, true
}

// LiveEdgeCount returns the number of edges not yet consumed by collapses.
func (c *Connectivity) LiveEdgeCount() int {
	n := 0
	for i := range c.Edges {
		if !c.Edges[i].Dead {
			n++
		}
	}
	return n
}

// liveFacesAround collects the live faces incident to vertex v, in
// ascending face-id order.
func (c *Connectivity) liveFacesAround(m *mesh.Mesh, v int) []int {
	seen := make(map[int]struct{})
	var faces []int
	for _, eid := range c.VertexEdges[v] {
		e := &c.Edges[eid]
		if e.Dead {
			continue
		}
		for s := 0; s < 2; s++ {
			fi := e.Faces[s]
			if fi == mesh.NullIndex || m.FaceDead(fi) {
				continue
			}
			if _, dup := seen[fi]; !dup {
				seen[fi] = struct{}{}
				faces = append(faces, fi)
			}
		}
	}
	sort.Ints(faces)
	return faces
}

// neighbors collects the opposite endpoints of every live edge at v.
func (c *Connectivity) neighbors(v int) []int {
	var ns []int
	for _, eid := range c.VertexEdges[v] {
		e := &c.Edges[eid]
		if e.Dead {
			continue
		}
		ns = append(ns, e.Other(v))
	}
	sort.Ints(ns)
	return ns
}

// dropVertexEdge removes edge id from v's incidence list.
func (c *Connectivity) dropVertexEdge(v, id int) {
	list := c.VertexEdges[v]
	for i, x := range list {
		if x == id {
			c.VertexEdges[v] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// dropEdgeFace clears face fi from edge id's flap slots.
func (c *Connectivity) dropEdgeFace(id, fi int) {
	e := &c.Edges[id]
	for s := 0; s < 2; s++ {
		if e.Faces[s] == fi {
			e.Faces[s] = mesh.NullIndex
			e.Opposite[s] = mesh.NullIndex
		}
	}
}

// refreshFlaps recomputes the opposite-vertex data of face fi's edges
// after its corners have been rewritten.
func (c *Connectivity) refreshFlaps(m *mesh.Mesh, fi int) {
	if m.FaceDead(fi) {
		return
	}
	f := m.Faces[fi]
	for corner := 0; corner < 3; corner++ {
		id := c.FaceEdges[fi][corner]
		if id == mesh.NullIndex {
			continue
		}
		e := &c.Edges[id]
		for s := 0; s < 2; s++ {
			if e.Faces[s] == fi {
				e.Opposite[s] = f[(corner+2)%3]
			}
		}
	}
}
