package render

import (
	"testing"

	"github.com/taigrr/raycaster/pkg/math3d"
	"github.com/taigrr/raycaster/pkg/raycast"
)

func TestOverlayDrawTriangles(t *testing.T) {
	cam := NewCamera()
	fb := NewFramebuffer(32, 32)
	fb.Clear(ColorUnlit)

	tri, _ := raycast.NewTriangle(math3d.V3(-1, -1, 5), math3d.V3(1, -1, 5), math3d.V3(0, 1, 5), raycast.NormalFromEdges)
	NewOverlay(cam, fb).DrawTriangles([]raycast.Triangle{tri}, ColorEdge)

	if fb.Count(ColorEdge) == 0 {
		t.Fatal("no edges drawn")
	}
	// The interior stays untouched.
	if fb.GetPixel(16, 16) != ColorUnlit {
		t.Errorf("centre pixel = %v, want unlit", fb.GetPixel(16, 16))
	}
}

func TestOverlaySkipsLinesBehindCamera(t *testing.T) {
	cam := NewCamera()
	fb := NewFramebuffer(16, 16)
	fb.Clear(ColorUnlit)

	NewOverlay(cam, fb).DrawLine3D(math3d.V3(-1, 0, -2), math3d.V3(1, 0, 5), ColorEdge)

	if n := fb.Count(ColorEdge); n != 0 {
		t.Errorf("drew %d pixels for a line crossing behind the camera", n)
	}
}
