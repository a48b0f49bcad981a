package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/raycaster/pkg/math3d"
	"github.com/taigrr/raycaster/pkg/models"
	"github.com/taigrr/raycaster/pkg/raycast"
)

// torusScene builds the demo ring: the default torus moved to z=5 and
// turned to face the camera at the origin.
func torusScene(t testing.TB) (*raycast.Scene, *Camera) {
	t.Helper()

	mesh := models.DefaultTorus()
	mesh.Transform(math3d.Translate(math3d.V3(0, 0, 5)).Mul(math3d.RotateX(math.Pi / 2)))

	scene := raycast.NewScene()
	if stats := scene.AddMesh(mesh, raycast.NormalFromEdges); stats.Skipped() != 0 {
		t.Fatalf("torus lost faces: %+v", stats)
	}

	cam := NewCamera()
	cam.LookAt(math3d.V3(0, 0, 10), math3d.UnitY())
	return scene, cam
}

func TestRenderFramePreconditions(t *testing.T) {
	r := NewRenderer()
	scene := raycast.NewScene()
	cam := NewCamera()
	fb := NewFramebuffer(2, 2)

	tests := []struct {
		name  string
		scene *raycast.Scene
		cam   *Camera
		fb    *Framebuffer
		want  error
	}{
		{"no scene", nil, cam, fb, ErrNoScene},
		{"no camera", scene, nil, fb, ErrNoCamera},
		{"no framebuffer", scene, cam, nil, ErrNoFramebuffer},
		{"unallocated framebuffer", scene, cam, &Framebuffer{Width: 2, Height: 2}, ErrFramebufferSize},
		{"short pixels", scene, cam, &Framebuffer{Width: 3, Height: 2, Pixels: make([]Color, 4)}, ErrFramebufferSize},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := r.RenderFrame(tc.scene, tc.cam, tc.fb); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRenderFrameSingleTriangle(t *testing.T) {
	tri, ok := raycast.NewTriangle(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), raycast.NormalFromEdges)
	if !ok {
		t.Fatal("triangle reported degenerate")
	}
	scene := raycast.NewScene()
	scene.Triangles = append(scene.Triangles, tri)

	cam := NewCamera()
	cam.Projection = ProjectionSingleRay
	cam.SetPosition(math3d.V3(0.2, 0.2, -5))

	fb := NewFramebuffer(4, 4)
	stats, err := NewRenderer().RenderFrame(scene, cam, fb)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if stats.Hits != 16 || stats.Rays != 16 {
		t.Errorf("stats = %+v, want 16/16 hits", stats)
	}
	if got := fb.Count(ColorLit); got != 16 {
		t.Errorf("lit pixels = %d, want 16", got)
	}
	if fb.GetPixel(0, 0).A != 254 {
		t.Errorf("alpha = %d, want 254", fb.GetPixel(0, 0).A)
	}

	cam.SetPosition(math3d.V3(5, 5, -5))
	stats, _ = NewRenderer().RenderFrame(scene, cam, fb)
	if stats.Hits != 0 || fb.Count(ColorUnlit) != 16 {
		t.Errorf("outside footprint: hits = %d, unlit = %d", stats.Hits, fb.Count(ColorUnlit))
	}
}

func TestRenderFrameEmptyScene(t *testing.T) {
	fb := NewFramebuffer(8, 6)
	fb.Clear(ColorEdge)

	stats, err := NewRenderer().RenderFrame(raycast.NewScene(), NewCamera(), fb)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if stats.Hits != 0 || stats.Coverage() != 0 {
		t.Errorf("stats = %+v, want no hits", stats)
	}
	if got := fb.Count(ColorUnlit); got != 48 {
		t.Errorf("unlit pixels = %d, want every pixel redrawn", got)
	}
}

func TestRenderFrameTorus(t *testing.T) {
	scene, cam := torusScene(t)
	fb := NewFramebuffer(64, 64)

	stats, err := NewRenderer().RenderFrame(scene, cam, fb)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	lit, unlit := fb.Count(ColorLit), fb.Count(ColorUnlit)
	if lit == 0 || unlit == 0 {
		t.Fatalf("lit = %d, unlit = %d; want both", lit, unlit)
	}
	if lit+unlit != 64*64 {
		t.Errorf("lit + unlit = %d, want every pixel", lit+unlit)
	}
	if stats.Hits != lit {
		t.Errorf("stats hits = %d, lit pixels = %d", stats.Hits, lit)
	}

	tests := []struct {
		name string
		x, y int
		want Color
	}{
		{"hole", 32, 32, ColorUnlit},
		{"left of ring", 24, 32, ColorLit},
		{"right of ring", 40, 32, ColorLit},
		{"above ring", 32, 24, ColorLit},
		{"corner", 0, 0, ColorUnlit},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := fb.GetPixel(tc.x, tc.y); got != tc.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

// The shared forward ray passes through the ring's hole.
func TestRenderFrameTorusSingleRay(t *testing.T) {
	scene, cam := torusScene(t)
	cam.Projection = ProjectionSingleRay
	fb := NewFramebuffer(16, 16)

	stats, err := NewRenderer().RenderFrame(scene, cam, fb)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if stats.Hits != 0 {
		t.Errorf("hits = %d, want 0", stats.Hits)
	}
}

// Single-ray mode casts along the LookAt direction, so aiming at the tube
// lights the whole frame and aiming away leaves it dark.
func TestRenderFrameSingleRayFollowsLookAt(t *testing.T) {
	tests := []struct {
		name   string
		target math3d.Vec3
		hits   int
	}{
		{"at tube", math3d.V3(1, 0, 5), 64},
		{"away from tube", math3d.V3(-1, 0, -5), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scene, cam := torusScene(t)
			cam.Projection = ProjectionSingleRay
			cam.LookAt(tc.target, math3d.UnitY())
			fb := NewFramebuffer(8, 8)

			stats, err := NewRenderer().RenderFrame(scene, cam, fb)
			if err != nil {
				t.Fatalf("RenderFrame: %v", err)
			}
			if stats.Hits != tc.hits {
				t.Errorf("hits = %d, want %d", stats.Hits, tc.hits)
			}
		})
	}
}

func TestRenderFrameWorkerCountInvariant(t *testing.T) {
	scene, cam := torusScene(t)

	var frames []*Framebuffer
	for _, workers := range []int{1, 3, 7, 64, 0} {
		r := NewRenderer()
		r.Workers = workers
		fb := NewFramebuffer(48, 37)
		if _, err := r.RenderFrame(scene, cam, fb); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		frames = append(frames, fb)
	}

	for i := 1; i < len(frames); i++ {
		for p := range frames[0].Pixels {
			if frames[i].Pixels[p] != frames[0].Pixels[p] {
				t.Fatalf("frame %d differs at pixel %d", i, p)
			}
		}
	}
}

func BenchmarkRenderFrameTorus(b *testing.B) {
	scene, cam := torusScene(b)
	r := NewRenderer()
	fb := NewFramebuffer(100, 100)

	for b.Loop() {
		_, _ = r.RenderFrame(scene, cam, fb)
	}
}
