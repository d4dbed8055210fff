// Package decimate implements seam-aware quadric-error mesh simplification.
//
// Edges are greedily collapsed in order of increasing 5D (position+UV)
// quadric error until a target vertex count or a terminal condition is
// reached. UV seams are detected up front and, at full strictness, edges
// whose collapse would tear or move a seam are pinned uncollapsible, as are
// collapses that would fold a surviving triangle over in 3D or UV space.
package decimate

import (
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

// Strictness controls how seam and foldover violations are handled.
type Strictness int

const (
	// StrictnessNone applies no seam or foldover protection.
	StrictnessNone Strictness = 0
	// StrictnessFoldover forbids collapses that flip a surviving
	// triangle's 3D orientation or UV winding.
	StrictnessFoldover Strictness = 1
	// StrictnessFull additionally forbids collapses touching UV seams.
	StrictnessFull Strictness = 2
)

// StopReason describes why the decimation loop terminated.
type StopReason int

const (
	// TargetReached means the live vertex count hit the target.
	TargetReached StopReason = iota
	// EmptyQueue means no candidate edges remain.
	EmptyQueue
	// AllInfiniteCost means every remaining edge is seam- or
	// foldover-locked; simplifying further would violate a guarantee.
	AllInfiniteCost
	// NoProgress means the same edge no-opped twice in a row, which
	// indicates an internal consistency bug rather than a property of
	// the input.
	NoProgress
)

func (r StopReason) String() string {
	switch r {
	case TargetReached:
		return "target_reached"
	case EmptyQueue:
		return "empty_queue"
	case AllInfiniteCost:
		return "all_infinite_cost"
	case NoProgress:
		return "no_progress"
	}
	return "unknown"
}

// Options configures a decimation run. The zero value decimates to 50%
// of the vertex count; DefaultOptions returns the recommended settings
// with full seam and foldover protection.
type Options struct {
	// TargetVertices is the live vertex count to stop at. When zero,
	// the target is derived from TargetPercent.
	TargetVertices int
	// TargetPercent is the percentage of vertices to keep when
	// TargetVertices is zero. Zero means 50.
	TargetPercent float64
	// Strictness selects the protection level (see the constants).
	Strictness Strictness
	// NonManifold selects how edges with more than two incident faces
	// are treated.
	NonManifold NonManifoldPolicy
	// Logger receives debug progress and a completion summary.
	// Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the recommended settings: keep 50% of vertices
// with seam and foldover protection enabled.
func DefaultOptions() Options {
	return Options{TargetPercent: 50, Strictness: StrictnessFull}
}

// Result is the outcome of a decimation run. Under-decimation (stopping
// before the target to preserve seams or manifoldness) is a valid
// outcome, not an error, and is described by StopReason.
type Result struct {
	Mesh             *mesh.Mesh
	Collapses        int
	StopReason       StopReason
	FinalVertexCount int
}

// state bundles the mutable structures shared by the solver, the collapse
// executor, and the driver loop.
type state struct {
	m          *mesh.Mesh
	conn       *Connectivity
	seams      *SeamMap
	metric     vertexMetric
	strict     Strictness
	vertexDead []bool
}

// Decimate simplifies a mesh by greedy edge collapse. The input mesh is
// cloned and never mutated; the result holds a fresh compacted mesh.
func Decimate(m *mesh.Mesh, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	st, target, early, err := prepare(m, opts)
	if err != nil {
		return nil, err
	}
	if early != nil {
		return early, nil
	}

	costs := make([]float64, len(st.conn.Edges))
	placements := make([]placement, len(st.conn.Edges))
	for id := range st.conn.Edges {
		placements[id] = st.computeCost(id)
		costs[id] = placements[id].cost
	}

	return run(st, target, costs, placements, logger)
}

// DecimateToFaceCount simplifies toward a target face count, converting
// it to an approximate vertex target via Euler's formula (V ≈ F/2 + 2
// for closed manifold meshes), and returns only the mesh.
func DecimateToFaceCount(m *mesh.Mesh, targetFaces int, s Strictness) (*mesh.Mesh, error) {
	res, err := Decimate(m, Options{
		TargetVertices: targetFaces/2 + 2,
		Strictness:     s,
	})
	if err != nil {
		return nil, err
	}
	return res.Mesh, nil
}

// prepare validates and clones the input and builds connectivity, seam
// map, and quadric metrics. When the target is already met it returns an
// early zero-collapse result with the untouched clone.
func prepare(m *mesh.Mesh, opts Options) (*state, int, *Result, error) {
	if err := m.Validate(); err != nil {
		return nil, 0, nil, err
	}

	n := len(m.Positions)
	target := opts.TargetVertices
	if target <= 0 {
		pct := opts.TargetPercent
		if pct <= 0 {
			pct = 50
		}
		target = int(math.Ceil(float64(n) * pct / 100))
	}

	clone := m.Clone()
	if n <= target {
		return nil, 0, &Result{
			Mesh:             clone,
			Collapses:        0,
			StopReason:       TargetReached,
			FinalVertexCount: n,
		}, nil
	}

	conn, err := BuildConnectivity(clone, opts.NonManifold)
	if err != nil {
		return nil, 0, nil, err
	}
	seams, err := DetectSeams(clone)
	if err != nil {
		return nil, 0, nil, err
	}

	st := &state{
		m:          clone,
		conn:       conn,
		seams:      seams,
		metric:     buildMetric(clone),
		strict:     opts.Strictness,
		vertexDead: make([]bool, n),
	}
	return st, target, nil, nil
}

// run executes the greedy collapse loop from prebuilt initial costs and
// compacts the surviving mesh.
func run(st *state, target int, costs []float64, placements []placement, logger *zap.Logger) (*Result, error) {
	h := newCostHeap(len(st.conn.Edges))
	h.InitFrom(costs)

	logger.Debug("decimation started",
		zap.Int("vertices", len(st.m.Positions)),
		zap.Int("target", target),
		zap.Int("edges", len(st.conn.Edges)),
		zap.Int("seam_edges", st.seams.EdgeCount()),
	)

	live := len(st.m.Positions)
	collapses := 0
	lastNoop := -1
	reason := EmptyQueue

loop:
	for {
		if live <= target {
			reason = TargetReached
			break
		}
		eid, cost, ok := h.PeekMin()
		if !ok {
			reason = EmptyQueue
			break
		}
		if math.IsInf(cost, 1) {
			reason = AllInfiniteCost
			break
		}
		h.PopMin()

		e := &st.conn.Edges[eid]
		if e.Dead || st.vertexDead[e.V1] || st.vertexDead[e.V2] {
			continue // stale entry; one of the endpoints was consumed
		}

		out, err := st.collapse(eid, &placements[eid])
		if err != nil {
			return nil, err
		}
		if !out.ok {
			if eid == lastNoop {
				reason = NoProgress
				break loop
			}
			lastNoop = eid
			placements[eid] = infPlacement
			h.Insert(eid, math.Inf(1))
			continue
		}

		lastNoop = -1
		collapses++
		live--

		for _, id := range out.stale {
			if id != eid {
				h.Remove(id)
			}
			placements[id] = infPlacement
		}
		for _, id := range out.affected {
			placements[id] = st.computeCost(id)
			h.Update(id, placements[id].cost)
		}
	}

	out := compact(st.m)
	res := &Result{
		Mesh:             out,
		Collapses:        collapses,
		StopReason:       reason,
		FinalVertexCount: len(out.Positions),
	}

	logger.Info("decimation finished",
		zap.Int("collapses", res.Collapses),
		zap.Int("final_vertices", res.FinalVertexCount),
		zap.Stringer("stop_reason", res.StopReason),
	)
	return res, nil
}
