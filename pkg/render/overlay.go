package render

import (
	"github.com/taigrr/raycaster/pkg/math3d"
	"github.com/taigrr/raycaster/pkg/raycast"
)

// Overlay draws projected 3D lines on top of a rendered frame.
type Overlay struct {
	camera *Camera
	fb     *Framebuffer
}

// NewOverlay creates an overlay drawing through camera into fb.
func NewOverlay(camera *Camera, fb *Framebuffer) *Overlay {
	return &Overlay{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a line in 3D space. Lines with an endpoint behind the
// camera are skipped.
func (o *Overlay) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, vis1 := o.camera.Project(p1, o.fb.Width, o.fb.Height)
	x2, y2, vis2 := o.camera.Project(p2, o.fb.Width, o.fb.Height)
	if !vis1 || !vis2 {
		return
	}

	o.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawTriangles outlines every triangle edge.
func (o *Overlay) DrawTriangles(tris []raycast.Triangle, color Color) {
	for _, t := range tris {
		o.DrawLine3D(t.Vertices[0], t.Vertices[1], color)
		o.DrawLine3D(t.Vertices[1], t.Vertices[2], color)
		o.DrawLine3D(t.Vertices[2], t.Vertices[0], color)
	}
}

// DrawAxes draws the world axes from origin.
func (o *Overlay) DrawAxes(origin math3d.Vec3, length float64) {
	o.DrawLine3D(origin, origin.Add(math3d.V3(length, 0, 0)), Color{R: 255, G: 0, B: 0, A: 255}) // X axis
	o.DrawLine3D(origin, origin.Add(math3d.V3(0, length, 0)), Color{R: 0, G: 255, B: 0, A: 255}) // Y axis
	o.DrawLine3D(origin, origin.Add(math3d.V3(0, 0, length)), Color{R: 0, G: 0, B: 255, A: 255}) // Z axis
}
