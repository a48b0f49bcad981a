package raycast

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/taigrr/raycaster/pkg/math3d"
	"github.com/taigrr/raycaster/pkg/models"
)

func TestExtractRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		mesh *models.Mesh
		k    int
	}{
		{"tetrahedron", models.Tetrahedron(1), 4},
		{"cube", models.Cube(2), 12},
		{"torus", models.Torus(1, 0.5, 8, 6), 2 * 8 * 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prim := tc.mesh.Primitives[0]
			tris, stats := Extract(prim, NormalFromEdges)
			if len(tris) != tc.k {
				t.Fatalf("extracted %d triangles, want %d (stats %+v)", len(tris), tc.k, stats)
			}
			if stats.Faces != tc.k || stats.Skipped() != 0 {
				t.Errorf("stats = %+v", stats)
			}

			idx := prim.Indices.([]uint32)
			for f, tri := range tris {
				for j := range 3 {
					want := prim.Positions[idx[f*3+j]]
					if tri.Vertices[j] != want {
						t.Errorf("face %d vertex %d = %v, want %v", f, j, tri.Vertices[j], want)
					}
				}
				if math.Abs(tri.Normal.Len()-1) > 1e-9 {
					t.Errorf("face %d normal %v not unit length", f, tri.Normal)
				}
			}
		})
	}
}

// Closed solids centred on the origin get outward normals from the edge rule.
func TestExtractNormalsOutward(t *testing.T) {
	tris, _ := Extract(models.Cube(2).Primitives[0], NormalFromEdges)
	for i, tri := range tris {
		if tri.Normal.Dot(tri.Centroid()) <= 0 {
			t.Errorf("face %d normal %v points inward", i, tri.Normal)
		}
	}
}

func TestExtractUnsupportedInput(t *testing.T) {
	positions := []math3d.Vec3{{}, {X: 1}, {Y: 1}}

	tests := []struct {
		name string
		prim models.Primitive
	}{
		{"uint16 indices", models.Primitive{Positions: positions, Indices: []uint16{0, 1, 2}}},
		{"uint8 indices", models.Primitive{Positions: positions, Indices: []uint8{0, 1, 2}}},
		{"int indices", models.Primitive{Positions: positions, Indices: []int{0, 1, 2}}},
		{"missing indices", models.Primitive{Positions: positions}},
		{"missing positions", models.Primitive{Indices: []uint32{0, 1, 2}}},
		{"triangle strip", models.Primitive{Mode: models.TopologyTriangleStrip, Positions: positions, Indices: []uint32{0, 1, 2}}},
		{"lines", models.Primitive{Mode: models.TopologyLines, Positions: positions, Indices: []uint32{0, 1, 2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tris, stats := Extract(tc.prim, NormalFromEdges)
			if len(tris) != 0 {
				t.Errorf("got %d triangles, want none", len(tris))
			}
			if stats != (ExtractStats{}) {
				t.Errorf("stats = %+v, want zero", stats)
			}
		})
	}
}

func TestExtractSkipsBadFaces(t *testing.T) {
	prim := models.Primitive{
		Positions: []math3d.Vec3{{}, {X: 1}, {Y: 1}, {X: 2}},
		Indices: []uint32{
			0, 1, 2, // good
			0, 1, 3, // collinear
			0, 0, 2, // duplicate vertex
			0, 1, 9, // out of range
			2, 1, 0, // good, reversed
			1, 2, // partial
		},
	}

	tris, stats := Extract(prim, NormalFromEdges)
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	want := ExtractStats{Faces: 5, Degenerate: 2, OutOfRange: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if !tris[0].Normal.ApproxEqual(math3d.UnitZ(), 1e-9) || !tris[1].Normal.ApproxEqual(math3d.V3(0, 0, -1), 1e-9) {
		t.Errorf("normals = %v, %v; want +Z then -Z", tris[0].Normal, tris[1].Normal)
	}
}

func TestExtractPositionsRule(t *testing.T) {
	// The cube's faces do not pass through the origin, so v0 x v1 only
	// sometimes agrees with the face orientation; every face still yields
	// a unit normal equal to the normalized position cross product.
	prim := models.Cube(2).Primitives[0]
	tris, stats := Extract(prim, NormalFromPositions)
	if len(tris)+stats.Degenerate != 12 {
		t.Fatalf("triangles %d + degenerate %d != 12", len(tris), stats.Degenerate)
	}
	for i, tri := range tris {
		want := tri.Vertices[0].Cross(tri.Vertices[1]).Normalize()
		if !tri.Normal.ApproxEqual(want, 1e-9) {
			t.Errorf("face %d normal = %v, want %v", i, tri.Normal, want)
		}
	}
}

func TestSceneAddMesh(t *testing.T) {
	var buf bytes.Buffer
	scene := NewScene()
	scene.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mesh := models.NewMesh("mixed")
	mesh.Primitives = []models.Primitive{
		models.Cube(2).Primitives[0],
		{Positions: []math3d.Vec3{{}, {X: 1}, {Y: 1}}, Indices: []uint16{0, 1, 2}},
		{Positions: []math3d.Vec3{{}, {X: 1}, {X: 2}}, Indices: []uint32{0, 1, 2}},
	}

	stats := scene.AddMesh(mesh, NormalFromEdges)
	if scene.Len() != 12 {
		t.Errorf("scene has %d triangles, want 12", scene.Len())
	}
	if stats.Degenerate != 1 {
		t.Errorf("degenerate = %d, want 1", stats.Degenerate)
	}

	out := buf.String()
	for _, want := range []string{"primitive not raycastable", "indices=uint16", "skipped faces", "mesh added"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSceneIntersectUsesEpsilon(t *testing.T) {
	scene := NewScene()
	scene.AddMesh(models.Cube(2), NormalFromEdges)

	// Hits the -Z face at z=-1 with |n·d| = 0.015.
	r := Ray{Origin: math3d.V3(0, 0, -2), Direction: math3d.V3(0.01, 0, 0.015)}
	if _, ok := scene.Intersect(r); !ok {
		t.Fatal("default epsilon should accept the ray")
	}

	scene.Epsilon = 0.02
	if _, ok := scene.Intersect(r); ok {
		t.Error("epsilon 0.02 should reject the ray")
	}
}

func BenchmarkSceneIntersectTorus(b *testing.B) {
	mesh := models.DefaultTorus()
	mesh.Transform(math3d.Translate(math3d.V3(0, 0, 5)).Mul(math3d.RotateX(math.Pi / 2)))
	scene := NewScene()
	scene.AddMesh(mesh, NormalFromEdges)
	r := Ray{Origin: math3d.Zero3(), Direction: math3d.V3(0.2, 0, 1)}

	for b.Loop() {
		_, _ = scene.Intersect(r)
	}
}
