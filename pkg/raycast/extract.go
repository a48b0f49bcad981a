package raycast

import (
	"github.com/taigrr/raycaster/pkg/math3d"
	"github.com/taigrr/raycaster/pkg/models"
)

// ExtractStats counts faces dropped during extraction.
type ExtractStats struct {
	Faces      int // complete index triples seen
	Degenerate int // zero-area or unnormalizable faces
	OutOfRange int // faces referencing a missing vertex
}

// Skipped returns the number of faces that produced no triangle.
func (s ExtractStats) Skipped() int {
	return s.Degenerate + s.OutOfRange
}

// Extract converts a triangle-list primitive with 32-bit indices into
// triangles. Any other topology or index width, and primitives without
// positions or indices, yield no triangles. A trailing partial triple is
// ignored.
func Extract(prim models.Primitive, mode NormalMode) ([]Triangle, ExtractStats) {
	var stats ExtractStats

	if prim.Mode != models.TopologyTriangles || prim.Positions == nil {
		return nil, stats
	}
	indices, ok := prim.Indices.([]uint32)
	if !ok {
		return nil, stats
	}

	positions := prim.Positions
	tris := make([]Triangle, 0, len(indices)/3)

	for f := 0; f+2 < len(indices); f += 3 {
		stats.Faces++

		i0, i1, i2 := indices[f], indices[f+1], indices[f+2]
		if !inRange(positions, i0) || !inRange(positions, i1) || !inRange(positions, i2) {
			stats.OutOfRange++
			continue
		}

		tri, ok := NewTriangle(positions[i0], positions[i1], positions[i2], mode)
		if !ok {
			stats.Degenerate++
			continue
		}
		tris = append(tris, tri)
	}

	return tris, stats
}

func inRange(positions []math3d.Vec3, i uint32) bool {
	return uint64(i) < uint64(len(positions))
}
