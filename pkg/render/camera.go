package render

import (
	"fmt"
	"math"

	"github.com/taigrr/raycaster/pkg/math3d"
	"github.com/taigrr/raycaster/pkg/raycast"
)

// Pose is a camera position and orientation. The orientation rotates the
// canonical forward axis +Z (with +Y up) into world space.
type Pose struct {
	Position    math3d.Vec3
	Orientation math3d.Quat
}

// Forward returns the world-space viewing direction.
func (p Pose) Forward() math3d.Vec3 {
	return p.Orientation.Rotate(math3d.UnitZ())
}

// Up returns the world-space up direction.
func (p Pose) Up() math3d.Vec3 {
	return p.Orientation.Rotate(math3d.UnitY())
}

// Right returns the world-space direction of increasing screen x.
func (p Pose) Right() math3d.Vec3 {
	return p.Orientation.Rotate(math3d.V3(-1, 0, 0))
}

// Projection selects how pixels map to rays.
type Projection int

const (
	ProjectionPerspective  Projection = iota // Rays fan out from the camera position
	ProjectionOrthographic                   // Parallel rays from a view plane
	ProjectionSingleRay                      // One forward ray shared by every pixel
)

func (p Projection) String() string {
	switch p {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	case ProjectionSingleRay:
		return "single"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// ParseProjection parses a projection name. The empty string selects
// perspective.
func ParseProjection(s string) (Projection, error) {
	switch s {
	case "", "perspective":
		return ProjectionPerspective, nil
	case "orthographic", "ortho":
		return ProjectionOrthographic, nil
	case "single":
		return ProjectionSingleRay, nil
	default:
		return 0, fmt.Errorf("unknown projection %q", s)
	}
}

// Camera produces one ray per pixel from its pose and projection.
type Camera struct {
	Pose

	Projection Projection

	// Vertical field of view in radians (perspective).
	FOV float64

	// World-space height of the view plane (orthographic).
	OrthoHeight float64
}

// NewCamera creates a perspective camera at the origin looking down +Z.
func NewCamera() *Camera {
	return &Camera{
		Pose: Pose{
			Position:    math3d.Zero3(),
			Orientation: math3d.QuatIdentity(),
		},
		Projection:  ProjectionPerspective,
		FOV:         math.Pi / 3, // 60 degrees
		OrthoHeight: 4,
	}
}

// SetPose replaces the camera pose.
func (c *Camera) SetPose(p Pose) {
	c.Pose = p
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// LookAt orients the camera toward target. A target at the camera position
// leaves the orientation unchanged.
func (c *Camera) LookAt(target, up math3d.Vec3) {
	dir := target.Sub(c.Position)
	if _, ok := dir.TryNormalize(); !ok {
		return
	}
	c.Orientation = math3d.QuatLookRotation(dir, up)
}

// Ray returns the ray through the centre of pixel (x, y) of a width×height
// image. Row 0 is the top of the image.
func (c *Camera) Ray(x, y, width, height int) raycast.Ray {
	return c.basis(width, height).ray(x, y)
}

// Project maps a world point to continuous pixel coordinates, the inverse
// of Ray. It reports false for points behind the camera.
func (c *Camera) Project(p math3d.Vec3, width, height int) (x, y float64, ok bool) {
	b := c.basis(width, height)
	rel := p.Sub(b.origin)

	depth := rel.Dot(b.forward)
	sx := rel.Dot(b.right) / b.right.LenSq()
	sy := rel.Dot(b.up) / b.up.LenSq()

	switch c.Projection {
	case ProjectionPerspective:
		if !(depth > 1e-9) {
			return 0, 0, false
		}
		sx /= depth
		sy /= depth
	default:
		if !(depth >= 0) {
			return 0, 0, false
		}
	}

	// sx, sy are NDC in [-1, 1].
	x = (sx + 1) * 0.5 * float64(width)
	y = (1 - sy) * 0.5 * float64(height)
	return x, y, true
}

// frameBasis caches the per-frame vectors needed to build pixel rays.
// right and up are pre-scaled so NDC ±1 reaches the image edge.
type frameBasis struct {
	mode          Projection
	origin        math3d.Vec3
	forward       math3d.Vec3
	right, up     math3d.Vec3
	width, height float64
}

func (c *Camera) basis(width, height int) frameBasis {
	b := frameBasis{
		mode:    c.Projection,
		origin:  c.Position,
		forward: c.Forward(),
		width:   float64(max(width, 1)),
		height:  float64(max(height, 1)),
	}
	aspect := b.width / b.height

	var half float64
	switch c.Projection {
	case ProjectionPerspective:
		half = math.Tan(c.FOV / 2)
	default:
		half = c.OrthoHeight / 2
	}
	b.right = c.Right().Scale(half * aspect)
	b.up = c.Up().Scale(half)
	return b
}

func (b frameBasis) ray(x, y int) raycast.Ray {
	if b.mode == ProjectionSingleRay {
		return raycast.Ray{Origin: b.origin, Direction: b.forward}
	}

	ndcX := 2*(float64(x)+0.5)/b.width - 1
	ndcY := 1 - 2*(float64(y)+0.5)/b.height
	offset := b.right.Scale(ndcX).Add(b.up.Scale(ndcY))

	if b.mode == ProjectionOrthographic {
		return raycast.Ray{Origin: b.origin.Add(offset), Direction: b.forward}
	}
	return raycast.Ray{Origin: b.origin, Direction: b.forward.Add(offset)}
}
