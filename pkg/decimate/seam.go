package decimate

import (
	"fmt"
	"sort"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

// SeamMap records which geometric edges are UV seams: the same 3D edge
// mapping to different UV-space edges on its incident faces. It is a
// symmetric adjacency structure indexed by vertex id; asymmetry is an
// internal-consistency bug and is reported, never repaired.
type SeamMap struct {
	adj [][]int // per vertex, sorted seam-neighbor vertex ids
	n   int     // seam edge count
}

// DetectSeams classifies the seam edges of a mesh. For every directed face
// edge the texcoord pair is canonicalized in vertex-index order, making the
// comparison direction-independent; a geometric edge whose incident faces
// disagree on that pair is a seam.
func DetectSeams(m *mesh.Mesh) (*SeamMap, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	s := &SeamMap{adj: make([][]int, len(m.Positions))}
	firstUV := make(map[edgeKey][2]int)

	for fi, f := range m.Faces {
		if m.FaceDead(fi) {
			continue
		}
		ft := m.FaceTexcoords[fi]
		for corner := 0; corner < 3; corner++ {
			va, vb := f[corner], f[(corner+1)%3]
			ta, tb := ft[corner], ft[(corner+1)%3]
			if va > vb {
				va, vb = vb, va
				ta, tb = tb, ta
			}
			key := edgeKey{va, vb}
			uv := [2]int{ta, tb}
			prev, seen := firstUV[key]
			if !seen {
				firstUV[key] = uv
				continue
			}
			if prev != uv {
				s.insert(va, vb)
			}
		}
	}
	return s, nil
}

// EdgeCount returns the number of seam edges.
func (s *SeamMap) EdgeCount() int { return s.n }

// Has reports whether the geometric edge (u, v) is a seam.
func (s *SeamMap) Has(u, v int) bool {
	if u < 0 || u >= len(s.adj) {
		return false
	}
	return contains(s.adj[u], v)
}

// SeamVertex reports whether v lies on any seam edge.
func (s *SeamMap) SeamVertex(v int) bool {
	return v >= 0 && v < len(s.adj) && len(s.adj[v]) > 0
}

// SeamVertexCount returns the number of vertices touched by a seam.
func (s *SeamMap) SeamVertexCount() int {
	n := 0
	for _, ns := range s.adj {
		if len(ns) > 0 {
			n++
		}
	}
	return n
}

// SeamEdges returns every seam edge as an ordered (low, high) vertex
// pair, sorted for stable output.
func (s *SeamMap) SeamEdges() [][2]int {
	edges := make([][2]int, 0, s.n)
	for u, ns := range s.adj {
		for _, v := range ns {
			if u < v {
				edges = append(edges, [2]int{u, v})
			}
		}
	}
	return edges
}

// insert records (u, v) as a seam edge, both directions.
func (s *SeamMap) insert(u, v int) {
	if contains(s.adj[u], v) {
		return
	}
	s.adj[u] = insertSorted(s.adj[u], v)
	s.adj[v] = insertSorted(s.adj[v], u)
	s.n++
}

// remove deletes the seam edge (u, v) if present.
func (s *SeamMap) remove(u, v int) error {
	hadUV := contains(s.adj[u], v)
	hadVU := contains(s.adj[v], u)
	if hadUV != hadVU {
		return fmt.Errorf("%w: edge (%d,%d) recorded in one direction only",
			ErrSeamMapInconsistency, u, v)
	}
	if !hadUV {
		return nil
	}
	s.adj[u] = removeSorted(s.adj[u], v)
	s.adj[v] = removeSorted(s.adj[v], u)
	s.n--
	return nil
}

// rename moves every seam edge at vertex old onto vertex now, dropping any
// (old, now) self edge first. Used when a collapse merges old into now.
func (s *SeamMap) rename(old, now int) error {
	if err := s.remove(old, now); err != nil {
		return err
	}
	// Copy: remove mutates s.adj[old].
	ns := make([]int, len(s.adj[old]))
	copy(ns, s.adj[old])
	for _, other := range ns {
		if err := s.remove(old, other); err != nil {
			return err
		}
		s.insert(now, other)
	}
	if len(s.adj[old]) != 0 {
		return fmt.Errorf("%w: vertex %d retains seam neighbors after rename",
			ErrSeamMapInconsistency, old)
	}
	return nil
}

func contains(sorted []int, v int) bool {
	i := sort.SearchInts(sorted, v)
	return i < len(sorted) && sorted[i] == v
}

func insertSorted(sorted []int, v int) []int {
	i := sort.SearchInts(sorted, v)
	if i < len(sorted) && sorted[i] == v {
		return sorted
	}
	sorted = append(sorted, 0)
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = v
	return sorted
}

func removeSorted(sorted []int, v int) []int {
	i := sort.SearchInts(sorted, v)
	if i < len(sorted) && sorted[i] == v {
		return append(sorted[:i], sorted[i+1:]...)
	}
	return sorted
}
