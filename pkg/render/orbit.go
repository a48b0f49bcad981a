package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/raycaster/pkg/math3d"
)

const maxPitch = math.Pi/2 - 0.01

// Orbit moves a camera around a target point. Yaw, pitch and distance
// chase their goals through critically damped springs, so input produces
// smooth motion when Update is called once per frame.
type Orbit struct {
	Target math3d.Vec3
	Up     math3d.Vec3

	// Goals set by Rotate, Zoom and SetGoal.
	Yaw, Pitch, Distance float64

	MinDistance, MaxDistance float64

	yaw, pitch, dist          float64
	yawVel, pitchVel, distVel float64
	spring                    harmonica.Spring
}

// NewOrbit creates an orbit around target starting from the camera position
// from. fps is the rate Update will be called at.
func NewOrbit(fps int, target, from math3d.Vec3) *Orbit {
	o := &Orbit{
		Target:      target,
		Up:          math3d.UnitY(),
		MinDistance: 0.5,
		MaxDistance: 100,
		// Frequency 6 gives a quick settle; damping 1 never overshoots.
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 6.0, 1.0),
	}

	off := from.Sub(target)
	dist := off.Len()
	if !(dist > 1e-9) {
		off, dist = math3d.V3(0, 0, -1), 1
	}
	o.Distance = dist
	o.Pitch = math.Asin(math.Max(-1, math.Min(1, off.Y/dist)))
	o.Yaw = math.Atan2(off.X, off.Z)
	o.clamp()
	o.Snap()
	return o
}

// Rotate adds to the yaw and pitch goals, in radians.
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw += dYaw
	o.Pitch += dPitch
	o.clamp()
}

// Zoom scales the distance goal; factors below 1 move closer.
func (o *Orbit) Zoom(factor float64) {
	o.Distance *= factor
	o.clamp()
}

// SetGoal replaces all three goals.
func (o *Orbit) SetGoal(yaw, pitch, distance float64) {
	o.Yaw, o.Pitch, o.Distance = yaw, pitch, distance
	o.clamp()
}

// Snap jumps to the goals and stops all motion.
func (o *Orbit) Snap() {
	o.yaw, o.pitch, o.dist = o.Yaw, o.Pitch, o.Distance
	o.yawVel, o.pitchVel, o.distVel = 0, 0, 0
}

// Settled reports whether the current state is within tol of the goals.
func (o *Orbit) Settled(tol float64) bool {
	return math.Abs(o.yaw-o.Yaw) <= tol &&
		math.Abs(o.pitch-o.Pitch) <= tol &&
		math.Abs(o.dist-o.Distance) <= tol
}

// Update advances the springs by one frame and returns the new pose.
func (o *Orbit) Update() Pose {
	o.yaw, o.yawVel = o.spring.Update(o.yaw, o.yawVel, o.Yaw)
	o.pitch, o.pitchVel = o.spring.Update(o.pitch, o.pitchVel, o.Pitch)
	o.dist, o.distVel = o.spring.Update(o.dist, o.distVel, o.Distance)
	return o.Pose()
}

// Pose returns the camera pose for the current state, looking at Target.
func (o *Orbit) Pose() Pose {
	sp, cp := math.Sincos(o.pitch)
	sy, cy := math.Sincos(o.yaw)
	off := math3d.V3(cp*sy, sp, cp*cy).Scale(o.dist)

	pos := o.Target.Add(off)
	return Pose{
		Position:    pos,
		Orientation: math3d.QuatLookRotation(off.Negate(), o.Up),
	}
}

func (o *Orbit) clamp() {
	o.Pitch = math.Max(-maxPitch, math.Min(maxPitch, o.Pitch))
	o.Distance = math.Max(o.MinDistance, math.Min(o.MaxDistance, o.Distance))
}
