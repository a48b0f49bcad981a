// Package math3d provides the vector, quaternion and matrix types shared by
// the raycaster's geometry, camera and renderer packages.
package math3d

import (
	"fmt"
	"math"
)

// Vec3 is a 3D vector or point.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// FromFloat32 widens a packed float32 triple, as stored in mesh buffers.
func FromFloat32(f [3]float32) Vec3 {
	return Vec3{float64(f[0]), float64(f[1]), float64(f[2])}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// UnitX returns (1, 0, 0).
func UnitX() Vec3 { return Vec3{1, 0, 0} }

// UnitY returns (0, 1, 0).
func UnitY() Vec3 { return Vec3{0, 1, 0} }

// UnitZ returns (0, 0, 1), the canonical camera forward axis.
func UnitZ() Vec3 { return Vec3{0, 0, 1} }

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.LenSq())
}

// LenSq returns the squared length.
func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Epsilon is the squared length below which a vector is treated as zero
// when normalizing.
const Epsilon = 1e-18

// Normalize returns the unit vector in the same direction, or the zero
// vector when a has (near) zero length.
func (a Vec3) Normalize() Vec3 {
	n, _ := a.TryNormalize()
	return n
}

// TryNormalize returns the unit vector and true, or the zero vector and false
// when a is too short or not finite to have a direction.
func (a Vec3) TryNormalize() (Vec3, bool) {
	l2 := a.LenSq()
	if !(l2 > Epsilon) || math.IsInf(l2, 0) {
		return Vec3{}, false
	}
	l := math.Sqrt(l2)
	return Vec3{a.X / l, a.Y / l, a.Z / l}, true
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math.Max(a.X, b.X),
		math.Max(a.Y, b.Y),
		math.Max(a.Z, b.Z),
	}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// ApproxEqual reports whether every component of a and b differs by at most tol.
func (a Vec3) ApproxEqual(b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool {
	for _, c := range [3]float64{a.X, a.Y, a.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (a Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", a.X, a.Y, a.Z)
}
