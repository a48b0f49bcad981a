// Package models provides mesh representations and loaders for the raycaster.
package models

import (
	"github.com/taigrr/raycaster/pkg/math3d"
)

// Topology is how a primitive's indices group vertices.
type Topology int

const (
	TopologyTriangles Topology = iota // Triangle list (the only raycastable topology)
	TopologyTriangleStrip
	TopologyTriangleFan
	TopologyLines
	TopologyPoints
)

func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "triangles"
	case TopologyTriangleStrip:
		return "triangle-strip"
	case TopologyTriangleFan:
		return "triangle-fan"
	case TopologyLines:
		return "lines"
	case TopologyPoints:
		return "points"
	default:
		return "unknown"
	}
}

// Primitive is one index buffer plus position attribute, as stored in the
// source asset.
type Primitive struct {
	Mode Topology

	// Positions maps vertex index to position. Nil when the asset had no
	// position attribute.
	Positions []math3d.Vec3

	// Indices holds the index buffer in its stored width: []uint8, []uint16
	// or []uint32. Nil when the primitive is not indexed.
	Indices any
}

// IndexCount returns the number of indices regardless of their width.
func (p *Primitive) IndexCount() int {
	switch idx := p.Indices.(type) {
	case []uint8:
		return len(idx)
	case []uint16:
		return len(idx)
	case []uint32:
		return len(idx)
	default:
		return 0
	}
}

// Mesh is a named set of primitives.
type Mesh struct {
	Name       string
	Primitives []Primitive

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:       name,
		Primitives: make([]Primitive, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box over all positions.
func (m *Mesh) CalculateBounds() {
	first := true
	for _, p := range m.Primitives {
		for _, v := range p.Positions {
			if first {
				m.BoundsMin, m.BoundsMax = v, v
				first = false
				continue
			}
			m.BoundsMin = m.BoundsMin.Min(v)
			m.BoundsMax = m.BoundsMax.Max(v)
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of complete index triples in triangle-list
// primitives, whatever their index width.
func (m *Mesh) TriangleCount() int {
	n := 0
	for i := range m.Primitives {
		if m.Primitives[i].Mode == TopologyTriangles {
			n += m.Primitives[i].IndexCount() / 3
		}
	}
	return n
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, p := range m.Primitives {
		n += len(p.Positions)
	}
	return n
}

// Transform applies a transformation matrix to all positions in place.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Primitives {
		pos := m.Primitives[i].Positions
		for j := range pos {
			pos[j] = mat.MulVec3(pos[j])
		}
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:       m.Name,
		Primitives: make([]Primitive, len(m.Primitives)),
		BoundsMin:  m.BoundsMin,
		BoundsMax:  m.BoundsMax,
	}
	for i, p := range m.Primitives {
		c := Primitive{Mode: p.Mode}
		if p.Positions != nil {
			c.Positions = append([]math3d.Vec3(nil), p.Positions...)
		}
		switch idx := p.Indices.(type) {
		case []uint8:
			c.Indices = append([]uint8(nil), idx...)
		case []uint16:
			c.Indices = append([]uint16(nil), idx...)
		case []uint32:
			c.Indices = append([]uint32(nil), idx...)
		}
		clone.Primitives[i] = c
	}
	return clone
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
