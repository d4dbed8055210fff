package decimate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

func TestBuildConnectivityQuad(t *testing.T) {
	m := quadMesh()
	conn, err := BuildConnectivity(m, NonManifoldIgnore)
	if err != nil {
		t.Fatalf("BuildConnectivity failed: %v", err)
	}

	if len(conn.Edges) != 5 {
		t.Fatalf("edge count = %d, want 5", len(conn.Edges))
	}
	if got := conn.LiveEdgeCount(); got != 5 {
		t.Errorf("LiveEdgeCount() = %d, want 5", got)
	}

	// The diagonal is interior: two flaps with opposite vertices 1 and 3.
	id, ok := conn.EdgeBetween(0, 2)
	if !ok {
		t.Fatal("EdgeBetween(0,2) not found")
	}
	diag := &conn.Edges[id]
	if diag.Boundary() {
		t.Error("diagonal reported as boundary")
	}
	if diag.Faces != [2]int{0, 1} {
		t.Errorf("diagonal faces = %v, want [0 1]", diag.Faces)
	}
	if diag.Opposite != [2]int{1, 3} {
		t.Errorf("diagonal opposites = %v, want [1 3]", diag.Opposite)
	}

	// Rim edges are boundary.
	id, ok = conn.EdgeBetween(0, 1)
	if !ok {
		t.Fatal("EdgeBetween(0,1) not found")
	}
	if !conn.Edges[id].Boundary() {
		t.Error("rim edge not reported as boundary")
	}

	// FaceEdges entry i is the edge between corners i and i+1.
	f0 := conn.FaceEdges[0]
	for corner, want := range [3][2]int{{0, 1}, {1, 2}, {2, 0}} {
		e := &conn.Edges[f0[corner]]
		if !e.HasVertex(want[0]) || !e.HasVertex(want[1]) {
			t.Errorf("FaceEdges[0][%d] joins (%d,%d), want (%d,%d)",
				corner, e.V1, e.V2, want[0], want[1])
		}
	}

	if _, ok := conn.EdgeBetween(1, 3); ok {
		t.Error("EdgeBetween(1,3) found an edge that does not exist")
	}
}

func TestConnectivityNeighborhoods(t *testing.T) {
	m := quadMesh()
	conn, err := BuildConnectivity(m, NonManifoldIgnore)
	if err != nil {
		t.Fatalf("BuildConnectivity failed: %v", err)
	}

	if got := conn.neighbors(0); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("neighbors(0) = %v, want [1 2 3]", got)
	}
	if got := conn.neighbors(1); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("neighbors(1) = %v, want [0 2]", got)
	}
	if got := conn.liveFacesAround(m, 2); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("liveFacesAround(2) = %v, want [0 1]", got)
	}
	if got := conn.liveFacesAround(m, 3); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("liveFacesAround(3) = %v, want [1]", got)
	}
}

func TestBuildConnectivityNonManifold(t *testing.T) {
	m := nonManifoldFanMesh()

	if _, err := BuildConnectivity(m, NonManifoldReject); !errors.Is(err, ErrNonManifoldEdge) {
		t.Errorf("reject policy: err = %v, want ErrNonManifoldEdge", err)
	}

	conn, err := BuildConnectivity(m, NonManifoldIgnore)
	if err != nil {
		t.Fatalf("ignore policy failed: %v", err)
	}
	id, ok := conn.EdgeBetween(0, 1)
	if !ok {
		t.Fatal("EdgeBetween(0,1) not found")
	}
	e := &conn.Edges[id]
	if !e.NonManifold {
		t.Error("shared edge not flagged non-manifold")
	}
	// The first two incidences are kept as flaps.
	if e.Faces != [2]int{0, 1} {
		t.Errorf("flap faces = %v, want [0 1]", e.Faces)
	}
}

func TestBuildConnectivitySkipsDeadFaces(t *testing.T) {
	m := quadMesh()
	m.KillFace(1)

	conn, err := BuildConnectivity(m, NonManifoldIgnore)
	if err != nil {
		t.Fatalf("BuildConnectivity failed: %v", err)
	}
	if len(conn.Edges) != 3 {
		t.Errorf("edge count = %d, want 3 (only the live face)", len(conn.Edges))
	}
	if conn.FaceEdges[1] != [3]int{mesh.NullIndex, mesh.NullIndex, mesh.NullIndex} {
		t.Errorf("dead face edges = %v, want all null", conn.FaceEdges[1])
	}
}

func TestEdgeOther(t *testing.T) {
	e := Edge{V1: 3, V2: 7}
	if e.Other(3) != 7 || e.Other(7) != 3 {
		t.Error("Other returned wrong endpoint")
	}
	if !e.HasVertex(3) || !e.HasVertex(7) || e.HasVertex(5) {
		t.Error("HasVertex mismatch")
	}
}
