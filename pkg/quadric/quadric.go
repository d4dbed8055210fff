// Package quadric implements the 5-dimensional quadric error metric used
// for seam-aware mesh decimation. A point lives in combined position+UV
// space (x, y, z, u, v); the quadric is a symmetric 6×6 matrix in
// homogeneous coordinates whose quadratic form evaluates the squared
// distance from a 5D point to the plane of a triangle embedded in 5D.
package quadric

import "math"

// Vec5 is a point or direction in combined position+UV space.
type Vec5 [5]float64

// Add returns v + w.
func (v Vec5) Add(w Vec5) Vec5 {
	for i := range v {
		v[i] += w[i]
	}
	return v
}

// Sub returns v - w.
func (v Vec5) Sub(w Vec5) Vec5 {
	for i := range v {
		v[i] -= w[i]
	}
	return v
}

// Scale returns v * s.
func (v Vec5) Scale(s float64) Vec5 {
	for i := range v {
		v[i] *= s
	}
	return v
}

// Dot returns the dot product.
func (v Vec5) Dot(w Vec5) float64 {
	s := 0.0
	for i := range v {
		s += v[i] * w[i]
	}
	return s
}

// Len returns the magnitude.
func (v Vec5) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Quadric is a symmetric 6×6 matrix stored as its upper triangle,
// 21 coefficients in row-major order. The zero value is the zero quadric.
type Quadric [21]float64

// symIndex maps (row, col) into the packed upper-triangle storage.
func symIndex(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return i*6 - i*(i+1)/2 + j
}

// At returns element (i, j).
func (q *Quadric) At(i, j int) float64 { return q[symIndex(i, j)] }

// set assigns element (i, j).
func (q *Quadric) set(i, j int, v float64) { q[symIndex(i, j)] = v }

// Add accumulates p into q.
func (q *Quadric) Add(p *Quadric) {
	for i := range q {
		q[i] += p[i]
	}
}

// Sum returns q + p as a new quadric.
func (q *Quadric) Sum(p *Quadric) *Quadric {
	var r Quadric
	for i := range r {
		r[i] = q[i] + p[i]
	}
	return &r
}

// Eval returns the quadratic form [p 1]ᵀ Q [p 1]: the accumulated squared
// plane distance at p. Numerical noise can push the result marginally
// below zero, which is clamped.
func (q *Quadric) Eval(p Vec5) float64 {
	s := q.At(5, 5)
	for i := 0; i < 5; i++ {
		s += 2 * q.At(i, 5) * p[i]
		for j := 0; j < 5; j++ {
			s += q.At(i, j) * p[i] * p[j]
		}
	}
	if s < 0 {
		return 0
	}
	return s
}

// FromPlane builds the fundamental quadric of the plane through origin
// spanned by the orthonormal tangent basis {e1, e2}. The upper-left 5×5
// block is the projector I - e1e1ᵀ - e2e2ᵀ onto the plane's normal
// complement; the linear and constant parts shift the form so that
// evaluating it at any 5D point yields its squared distance to the plane.
func FromPlane(origin, e1, e2 Vec5) *Quadric {
	var q Quadric
	// A = I - e1e1ᵀ - e2e2ᵀ
	for i := 0; i < 5; i++ {
		for j := i; j < 5; j++ {
			a := -e1[i]*e1[j] - e2[i]*e2[j]
			if i == j {
				a += 1
			}
			q.set(i, j, a)
		}
	}
	// b = -A·origin, c = originᵀ·A·origin
	c := 0.0
	for i := 0; i < 5; i++ {
		bi := 0.0
		for j := 0; j < 5; j++ {
			bi += q.At(i, j) * origin[j]
		}
		q.set(i, 5, -bi)
		c += bi * origin[i]
	}
	q.set(5, 5, c)
	return &q
}

// basisEpsilon rejects tangent vectors too short to normalize reliably.
const basisEpsilon = 1e-12

// PlaneBasis runs Gram-Schmidt on the two edge vectors of a triangle
// (p0, p1, p2) in 5D and returns an orthonormal tangent basis. ok is
// false for degenerate triangles (collinear or near-zero edges), whose
// plane is undefined and which contribute a zero quadric.
func PlaneBasis(p0, p1, p2 Vec5) (e1, e2 Vec5, ok bool) {
	d1 := p1.Sub(p0)
	l1 := d1.Len()
	if l1 < basisEpsilon {
		return Vec5{}, Vec5{}, false
	}
	e1 = d1.Scale(1 / l1)

	d2 := p2.Sub(p0)
	d2 = d2.Sub(e1.Scale(e1.Dot(d2)))
	l2 := d2.Len()
	if l2 < basisEpsilon {
		return Vec5{}, Vec5{}, false
	}
	e2 = d2.Scale(1 / l2)
	return e1, e2, true
}

// pivotEpsilon is the singularity threshold for the minimizer solve.
const pivotEpsilon = 1e-10

// Minimize solves ∇(pᵀAp + 2bᵀp + c) = 0, i.e. A·p = -b, for the 5D point
// minimizing the quadric. ok is false when the 5×5 block is singular
// (flat or boundary neighborhoods), in which case the caller falls back
// to evaluating discrete candidates.
func (q *Quadric) Minimize() (Vec5, bool) {
	// Dense copy for Gaussian elimination with partial pivoting.
	var a [5][6]float64
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			a[i][j] = q.At(i, j)
		}
		a[i][5] = -q.At(i, 5)
	}

	for col := 0; col < 5; col++ {
		pivot := col
		for r := col + 1; r < 5; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < pivotEpsilon {
			return Vec5{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := col + 1; r < 5; r++ {
			f := a[r][col] / a[col][col]
			for cc := col; cc < 6; cc++ {
				a[r][cc] -= f * a[col][cc]
			}
		}
	}

	var p Vec5
	for i := 4; i >= 0; i-- {
		s := a[i][5]
		for j := i + 1; j < 5; j++ {
			s -= a[i][j] * p[j]
		}
		p[i] = s / a[i][i]
	}
	return p, true
}
