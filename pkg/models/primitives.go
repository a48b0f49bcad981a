package models

import (
	"math"

	"github.com/taigrr/raycaster/pkg/math3d"
)

// Torus defaults, matching the demo scene's ring.
const (
	DefaultMajorRadius     = 1.0
	DefaultMinorRadius     = 0.5
	DefaultMajorResolution = 32
	DefaultMinorResolution = 24
)

// Torus builds a ring lying in the XZ plane around the Y axis, with uint32
// triangle-list indices and counter-clockwise outward winding.
// Seam vertices are duplicated, so the mesh has
// (major+1)*(minor+1) positions and 2*major*minor triangles.
func Torus(majorRadius, minorRadius float64, majorRes, minorRes int) *Mesh {
	majorRes = max(majorRes, 3)
	minorRes = max(minorRes, 3)

	row := minorRes + 1
	positions := make([]math3d.Vec3, 0, (majorRes+1)*row)
	for segment := 0; segment <= majorRes; segment++ {
		theta := 2 * math.Pi * float64(segment) / float64(majorRes)
		st, ct := math.Sincos(theta)
		for side := 0; side <= minorRes; side++ {
			phi := 2 * math.Pi * float64(side) / float64(minorRes)
			sp, cp := math.Sincos(phi)
			ring := majorRadius + minorRadius*cp
			positions = append(positions, math3d.V3(ct*ring, minorRadius*sp, st*ring))
		}
	}

	indices := make([]uint32, 0, majorRes*minorRes*6)
	for segment := range majorRes {
		for side := range minorRes {
			lt := uint32(side + segment*row)
			rt := uint32(side + 1 + segment*row)
			lb := uint32(side + (segment+1)*row)
			rb := uint32(side + 1 + (segment+1)*row)
			indices = append(indices, lt, rt, lb, rt, rb, lb)
		}
	}

	return newPrimitiveMesh("torus", positions, indices)
}

// DefaultTorus builds the torus with the default radii and resolutions.
func DefaultTorus() *Mesh {
	return Torus(DefaultMajorRadius, DefaultMinorRadius, DefaultMajorResolution, DefaultMinorResolution)
}

// Cube builds an axis-aligned cube centred at the origin with 8 shared
// vertices and 12 outward-facing triangles.
func Cube(size float64) *Mesh {
	h := size / 2
	positions := []math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, // 0
		{X: h, Y: -h, Z: -h},  // 1
		{X: h, Y: h, Z: -h},   // 2
		{X: -h, Y: h, Z: -h},  // 3
		{X: -h, Y: -h, Z: h},  // 4
		{X: h, Y: -h, Z: h},   // 5
		{X: h, Y: h, Z: h},    // 6
		{X: -h, Y: h, Z: h},   // 7
	}
	indices := []uint32{
		0, 3, 2, 0, 2, 1, // -Z
		4, 5, 6, 4, 6, 7, // +Z
		0, 4, 7, 0, 7, 3, // -X
		1, 2, 6, 1, 6, 5, // +X
		0, 1, 5, 0, 5, 4, // -Y
		3, 7, 6, 3, 6, 2, // +Y
	}
	return newPrimitiveMesh("cube", positions, indices)
}

// Tetrahedron builds a regular tetrahedron inscribed in the cube of the
// given half-size, with 4 outward-facing triangles.
func Tetrahedron(halfSize float64) *Mesh {
	s := halfSize
	positions := []math3d.Vec3{
		{X: s, Y: s, Z: s},
		{X: s, Y: -s, Z: -s},
		{X: -s, Y: s, Z: -s},
		{X: -s, Y: -s, Z: s},
	}
	indices := []uint32{
		0, 1, 2,
		0, 3, 1,
		0, 2, 3,
		1, 3, 2,
	}
	return newPrimitiveMesh("tetrahedron", positions, indices)
}

func newPrimitiveMesh(name string, positions []math3d.Vec3, indices []uint32) *Mesh {
	mesh := NewMesh(name)
	mesh.Primitives = append(mesh.Primitives, Primitive{
		Mode:      TopologyTriangles,
		Positions: positions,
		Indices:   indices,
	})
	mesh.CalculateBounds()
	return mesh
}
