package quadric

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestVec5Ops(t *testing.T) {
	a := Vec5{1, 2, 3, 4, 5}
	b := Vec5{5, 4, 3, 2, 1}

	if got := a.Add(b); got != (Vec5{6, 6, 6, 6, 6}) {
		t.Errorf("Add() = %v", got)
	}
	if got := a.Sub(b); got != (Vec5{-4, -2, 0, 2, 4}) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Dot(b); got != 35 {
		t.Errorf("Dot() = %v, want 35", got)
	}
	if got := (Vec5{3, 4, 0, 0, 0}).Len(); got != 5 {
		t.Errorf("Len() = %v, want 5", got)
	}
}

func TestPlaneBasisOrthonormal(t *testing.T) {
	p0 := Vec5{0, 0, 0, 0, 0}
	p1 := Vec5{2, 0, 0, 1, 0}
	p2 := Vec5{1, 3, 0, 0, 1}

	e1, e2, ok := PlaneBasis(p0, p1, p2)
	if !ok {
		t.Fatal("expected a valid basis")
	}
	if !almostEqual(e1.Len(), 1) {
		t.Errorf("|e1| = %v, want 1", e1.Len())
	}
	if !almostEqual(e2.Len(), 1) {
		t.Errorf("|e2| = %v, want 1", e2.Len())
	}
	if !almostEqual(e1.Dot(e2), 0) {
		t.Errorf("e1·e2 = %v, want 0", e1.Dot(e2))
	}
}

func TestPlaneBasisDegenerate(t *testing.T) {
	p0 := Vec5{0, 0, 0, 0, 0}

	// Zero-length first edge.
	if _, _, ok := PlaneBasis(p0, p0, Vec5{1, 0, 0, 0, 0}); ok {
		t.Error("expected degenerate basis for coincident corners")
	}
	// Collinear corners.
	if _, _, ok := PlaneBasis(p0, Vec5{1, 1, 0, 0, 0}, Vec5{2, 2, 0, 0, 0}); ok {
		t.Error("expected degenerate basis for collinear corners")
	}
}

func TestFromPlaneDistance(t *testing.T) {
	// The x-y plane lifted into 5D: distance is the norm of (z, u, v).
	q := FromPlane(
		Vec5{0, 0, 0, 0, 0},
		Vec5{1, 0, 0, 0, 0},
		Vec5{0, 1, 0, 0, 0},
	)

	onPlane := []Vec5{
		{0, 0, 0, 0, 0},
		{3, -2, 0, 0, 0},
		{100, 100, 0, 0, 0},
	}
	for _, p := range onPlane {
		if d := q.Eval(p); !almostEqual(d, 0) {
			t.Errorf("Eval(%v) = %v, want 0", p, d)
		}
	}

	if d := q.Eval(Vec5{7, -3, 5, 0, 0}); !almostEqual(d, 25) {
		t.Errorf("Eval() = %v, want 25", d)
	}
	if d := q.Eval(Vec5{0, 0, 3, 4, 0}); !almostEqual(d, 25) {
		t.Errorf("Eval() = %v, want 25", d)
	}
}

func TestFromPlaneOffsetOrigin(t *testing.T) {
	// Same plane shifted to z = 2.
	q := FromPlane(
		Vec5{5, 5, 2, 0, 0},
		Vec5{1, 0, 0, 0, 0},
		Vec5{0, 1, 0, 0, 0},
	)
	if d := q.Eval(Vec5{0, 0, 2, 0, 0}); !almostEqual(d, 0) {
		t.Errorf("Eval() = %v, want 0", d)
	}
	if d := q.Eval(Vec5{0, 0, 5, 0, 0}); !almostEqual(d, 9) {
		t.Errorf("Eval() = %v, want 9", d)
	}
}

func TestQuadricSymmetry(t *testing.T) {
	q := FromPlane(
		Vec5{1, 2, 3, 0.5, 0.5},
		Vec5{1, 0, 0, 0, 0},
		Vec5{0, 0.6, 0.8, 0, 0},
	)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if q.At(i, j) != q.At(j, i) {
				t.Fatalf("At(%d,%d) != At(%d,%d)", i, j, j, i)
			}
		}
	}
}

func TestSumEquivalence(t *testing.T) {
	qa := FromPlane(Vec5{}, Vec5{1, 0, 0, 0, 0}, Vec5{0, 1, 0, 0, 0})
	qb := FromPlane(Vec5{}, Vec5{0, 0, 1, 0, 0}, Vec5{0, 0, 0, 1, 0})

	sum := qa.Sum(qb)
	p := Vec5{1, 2, 3, 4, 5}
	if got, want := sum.Eval(p), qa.Eval(p)+qb.Eval(p); !almostEqual(got, want) {
		t.Errorf("Sum().Eval() = %v, want %v", got, want)
	}

	var acc Quadric
	acc.Add(qa)
	acc.Add(qb)
	if got := acc.Eval(p); !almostEqual(got, sum.Eval(p)) {
		t.Errorf("Add accumulation disagrees with Sum: %v vs %v", got, sum.Eval(p))
	}
}

func TestMinimizeSingular(t *testing.T) {
	// A single plane quadric has a 2D null space; the solve must report
	// singularity instead of producing garbage.
	q := FromPlane(Vec5{}, Vec5{1, 0, 0, 0, 0}, Vec5{0, 1, 0, 0, 0})
	if _, ok := q.Minimize(); ok {
		t.Error("expected singular system for a single plane")
	}
}

func TestMinimizeWellPosed(t *testing.T) {
	// Three independent planes through the same point make the combined
	// system full rank; the minimizer must recover the point exactly.
	target := Vec5{1, -2, 3, 0.25, 0.75}
	planes := [][2]Vec5{
		{{1, 0, 0, 0, 0}, {0, 1, 0, 0, 0}},
		{{0, 0, 1, 0, 0}, {0, 0, 0, 1, 0}},
		{{0, 1, 0, 0, 0}, {0, 0, 0, 0, 1}},
	}

	var sum Quadric
	for _, pl := range planes {
		sum.Add(FromPlane(target, pl[0], pl[1]))
	}

	p, ok := sum.Minimize()
	if !ok {
		t.Fatal("expected solvable system")
	}
	for i := range p {
		if !almostEqual(p[i], target[i]) {
			t.Errorf("Minimize()[%d] = %v, want %v", i, p[i], target[i])
		}
	}
	if d := sum.Eval(p); !almostEqual(d, 0) {
		t.Errorf("Eval at minimum = %v, want 0", d)
	}
}
