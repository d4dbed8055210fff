package decimate

import (
	"errors"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

var (
	// ErrMalformedMesh reports out-of-range indices or inconsistent array
	// lengths in the input mesh. Fatal; no partial result is produced.
	ErrMalformedMesh = mesh.ErrMalformed

	// ErrNonManifoldEdge reports an edge with more than two incident faces.
	// Only returned under NonManifoldReject; the default policy tolerates
	// such edges by pinning them uncollapsible.
	ErrNonManifoldEdge = errors.New("non-manifold edge")

	// ErrSeamMapInconsistency reports an asymmetric seam adjacency entry.
	// Always fatal: it indicates an internal bug, never bad user input.
	ErrSeamMapInconsistency = errors.New("seam map inconsistency")
)
