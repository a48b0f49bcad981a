// Package raycast implements the triangle geometry and ray intersection
// tests behind the binary lit/unlit renderer.
package raycast

import (
	"fmt"

	"github.com/taigrr/raycaster/pkg/math3d"
)

// NormalMode selects how a triangle's face normal is derived from its
// vertices.
type NormalMode int

const (
	// NormalFromEdges uses (v1-v0) x (v2-v0), the geometric face normal.
	NormalFromEdges NormalMode = iota

	// NormalFromPositions uses v0 x v1, crossing the first two position
	// vectors themselves. It only matches the face orientation for
	// triangles whose plane passes through the origin and is kept for
	// compatibility with renders made that way.
	NormalFromPositions
)

func (m NormalMode) String() string {
	switch m {
	case NormalFromEdges:
		return "edges"
	case NormalFromPositions:
		return "positions"
	default:
		return fmt.Sprintf("NormalMode(%d)", int(m))
	}
}

// ParseNormalMode parses "edges" or "positions". The empty string selects
// NormalFromEdges.
func ParseNormalMode(s string) (NormalMode, error) {
	switch s {
	case "", "edges":
		return NormalFromEdges, nil
	case "positions":
		return NormalFromPositions, nil
	default:
		return 0, fmt.Errorf("unknown normal mode %q (want edges or positions)", s)
	}
}

// Triangle is an ordered vertex triple with a precomputed unit normal.
type Triangle struct {
	Vertices [3]math3d.Vec3
	Normal   math3d.Vec3
}

// NewTriangle builds a triangle, computing its normal with mode. It reports
// false for degenerate input: zero area, or a normal that cannot be
// normalized under the chosen rule.
func NewTriangle(v0, v1, v2 math3d.Vec3, mode NormalMode) (Triangle, bool) {
	area := v1.Sub(v0).Cross(v2.Sub(v0))
	if _, ok := area.TryNormalize(); !ok {
		return Triangle{}, false
	}

	raw := area
	if mode == NormalFromPositions {
		raw = v0.Cross(v1)
	}
	n, ok := raw.TryNormalize()
	if !ok {
		return Triangle{}, false
	}

	return Triangle{
		Vertices: [3]math3d.Vec3{v0, v1, v2},
		Normal:   n,
	}, true
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() math3d.Vec3 {
	return t.Vertices[0].Add(t.Vertices[1]).Add(t.Vertices[2]).Scale(1.0 / 3)
}
