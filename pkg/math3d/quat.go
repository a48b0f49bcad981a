package math3d

import "math"

// Quat is a rotation quaternion (X, Y, Z vector part, W scalar part).
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatAxisAngle returns the rotation of angle radians around axis.
// A zero axis yields the identity.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	a, ok := axis.TryNormalize()
	if !ok {
		return QuatIdentity()
	}
	s, c := math.Sincos(angle / 2)
	return Quat{a.X * s, a.Y * s, a.Z * s, c}
}

// QuatEuler builds a rotation from X, then Y, then Z rotations (radians).
func QuatEuler(rx, ry, rz float64) Quat {
	return QuatAxisAngle(UnitZ(), rz).
		Mul(QuatAxisAngle(UnitY(), ry)).
		Mul(QuatAxisAngle(UnitX(), rx))
}

// QuatFromBasis returns the rotation that maps the unit axes onto the given
// orthonormal, right-handed basis vectors.
func QuatFromBasis(x, y, z Vec3) Quat {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	var q Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{(m21 - m12) / s, (m02 - m20) / s, (m10 - m01) / s, s / 4}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{s / 4, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{(m01 + m10) / s, s / 4, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, s / 4, (m10 - m01) / s}
	}
	return q.Normalize()
}

// QuatLookRotation returns the orientation whose +Z axis points along
// forward and whose +Y axis is as close to up as possible.
// If forward is zero the identity is returned; if forward is parallel to up
// another up axis is chosen.
func QuatLookRotation(forward, up Vec3) Quat {
	f, ok := forward.TryNormalize()
	if !ok {
		return QuatIdentity()
	}
	r, ok := f.Cross(up).TryNormalize()
	if !ok {
		alt := UnitY()
		if math.Abs(f.Y) > 0.9 {
			alt = UnitZ()
		}
		r = f.Cross(alt).Normalize()
	}
	u := r.Cross(f)
	// Local +X is the camera's left: right-handed with +Y up and +Z forward.
	return QuatFromBasis(r.Negate(), u, f)
}

// Mul returns the composed rotation q * p (p applied first).
func (q Quat) Mul(p Quat) Quat {
	return Quat{
		q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
		q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Len returns the quaternion norm.
func (q Quat) Len() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns the unit quaternion, or the identity for a zero quaternion.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l == 0 || math.IsNaN(l) {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Mat4 returns the equivalent rotation matrix.
func (q Quat) Mat4() Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
