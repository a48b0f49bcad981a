package raycast

import "github.com/taigrr/raycaster/pkg/math3d"

// Ray is a half-line. Direction need not be unit length; hit distances are
// measured in multiples of it.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// At returns Origin + t*Direction.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
