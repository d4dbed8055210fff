// Package formats implements import and export of mesh file formats at
// the decimator's boundary. Only the Wavefront OBJ subset the tool needs
// is supported: positions, texture coordinates, and polygonal faces.
// Normals, materials, groups, and smoothing state are ignored on read and
// not emitted on write.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

// OBJ format errors.
var (
	ErrInvalidOBJVertex = errors.New("invalid OBJ vertex")
	ErrInvalidOBJFace   = errors.New("invalid OBJ face")
)

// ReadOBJ parses an OBJ stream into a mesh. Faces with more than three
// corners are fan-triangulated. Corners without a texture coordinate all
// share one synthetic (0,0) entry so the result always carries a texcoord
// per corner.
func ReadOBJ(r io.Reader) (*mesh.Mesh, error) {
	m := &mesh.Mesh{}
	defaultTc := -1

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidOBJVertex, lineNo, line)
			}
			var p mgl64.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJVertex, lineNo, err)
				}
				p[i] = f
			}
			m.Positions = append(m.Positions, p)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidOBJVertex, lineNo, line)
			}
			var t mgl64.Vec2
			for i := 0; i < 2; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJVertex, lineNo, err)
				}
				t[i] = f
			}
			m.Texcoords = append(m.Texcoords, t)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: fewer than three corners", ErrInvalidOBJFace, lineNo)
			}
			type corner struct{ v, vt int }
			corners := make([]corner, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				vi, ti, err := parseFaceCorner(spec, len(m.Positions), len(m.Texcoords))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJFace, lineNo, err)
				}
				if ti < 0 {
					if defaultTc < 0 {
						defaultTc = len(m.Texcoords)
						m.Texcoords = append(m.Texcoords, mgl64.Vec2{})
					}
					ti = defaultTc
				}
				corners = append(corners, corner{vi, ti})
			}
			for i := 1; i+1 < len(corners); i++ {
				m.Faces = append(m.Faces, [3]int{corners[0].v, corners[i].v, corners[i+1].v})
				m.FaceTexcoords = append(m.FaceTexcoords, [3]int{corners[0].vt, corners[i].vt, corners[i+1].vt})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseFaceCorner resolves one "v", "v/vt", "v//vn", or "v/vt/vn" corner
// spec to zero-based indices. The texcoord index is -1 when absent.
// OBJ indices are one-based; negative values count back from the end.
func parseFaceCorner(spec string, numV, numVT int) (vi, ti int, err error) {
	parts := strings.Split(spec, "/")
	vi, err = resolveIndex(parts[0], numV)
	if err != nil {
		return 0, 0, err
	}
	ti = -1
	if len(parts) > 1 && parts[1] != "" {
		ti, err = resolveIndex(parts[1], numVT)
		if err != nil {
			return 0, 0, err
		}
	}
	return vi, ti, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	}
	return 0, fmt.Errorf("index %d out of range [1,%d]", n, count)
}

// WriteOBJ emits a mesh as OBJ with v/vt face references. Tombstoned
// faces are skipped.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X(), p.Y(), p.Z())
	}
	for _, t := range m.Texcoords {
		fmt.Fprintf(bw, "vt %g %g\n", t.X(), t.Y())
	}
	for fi, f := range m.Faces {
		if m.FaceDead(fi) {
			continue
		}
		ft := m.FaceTexcoords[fi]
		fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n",
			f[0]+1, ft[0]+1, f[1]+1, ft[1]+1, f[2]+1, ft[2]+1)
	}
	return bw.Flush()
}

// LoadOBJ reads a mesh from an OBJ file on disk.
func LoadOBJ(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// SaveOBJ writes a mesh to an OBJ file on disk.
func SaveOBJ(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteOBJ(f, m); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
