package raycast

import (
	"math"

	"github.com/taigrr/raycaster/pkg/math3d"
)

// DefaultEpsilon is the smallest |normal·direction| treated as crossing a
// triangle's plane. Rays closer to parallel than this miss.
const DefaultEpsilon = 0.01

// Hit describes where a ray met a triangle.
type Hit struct {
	Point math3d.Vec3
	T     float64

	// Triangle is the index of the hit triangle in the slice that was
	// searched. Zero for single-triangle tests.
	Triangle int
}

// Intersect tests the ray against the triangle using DefaultEpsilon.
func (t Triangle) Intersect(r Ray) (Hit, bool) {
	return t.IntersectEpsilon(r, DefaultEpsilon)
}

// IntersectEpsilon intersects the ray with the triangle's plane and then
// checks the point against each edge. Points on an edge count as inside.
// NaN at any stage is a miss.
func (t Triangle) IntersectEpsilon(r Ray, eps float64) (Hit, bool) {
	n := t.Normal

	denom := n.Dot(r.Direction)
	if !(math.Abs(denom) >= eps) {
		return Hit{}, false
	}

	d := -n.Dot(t.Vertices[0])
	dist := -(n.Dot(r.Origin) + d) / denom
	if !(dist >= 0) {
		return Hit{}, false
	}

	p := r.At(dist)

	for i := range 3 {
		start := t.Vertices[i]
		edge := t.Vertices[(i+1)%3].Sub(start)
		if !(n.Dot(edge.Cross(p.Sub(start))) >= 0) {
			return Hit{}, false
		}
	}

	return Hit{Point: p, T: dist}, true
}

// IntersectScene returns the nearest hit over tris using DefaultEpsilon.
func IntersectScene(r Ray, tris []Triangle) (Hit, bool) {
	return IntersectSceneEpsilon(r, tris, DefaultEpsilon)
}

// IntersectSceneEpsilon returns the hit with the smallest T over all
// triangles. Equal distances keep the earlier triangle.
func IntersectSceneEpsilon(r Ray, tris []Triangle, eps float64) (Hit, bool) {
	best := Hit{T: math.Inf(1), Triangle: -1}
	found := false

	for i := range tris {
		h, ok := tris[i].IntersectEpsilon(r, eps)
		if !ok || h.T >= best.T {
			continue
		}
		h.Triangle = i
		best = h
		found = true
	}

	if !found {
		return Hit{}, false
	}
	return best, true
}
