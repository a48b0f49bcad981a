package raycast

import (
	"log/slog"

	"github.com/taigrr/raycaster/pkg/models"
)

// Scene owns every triangle visible to the renderer. Triangles must not be
// modified while a frame is being rendered.
type Scene struct {
	Triangles []Triangle

	// Epsilon overrides DefaultEpsilon when non-zero.
	Epsilon float64

	// Logger receives warnings about skipped faces. Nil discards them.
	Logger *slog.Logger
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		Triangles: make([]Triangle, 0),
	}
}

// AddMesh extracts the triangles of every primitive of mesh and appends
// them. Primitives that cannot be raycast contribute nothing.
func (s *Scene) AddMesh(mesh *models.Mesh, mode NormalMode) ExtractStats {
	var total ExtractStats

	for i, prim := range mesh.Primitives {
		tris, stats := Extract(prim, mode)
		s.Triangles = append(s.Triangles, tris...)

		total.Faces += stats.Faces
		total.Degenerate += stats.Degenerate
		total.OutOfRange += stats.OutOfRange

		if s.Logger == nil {
			continue
		}
		if stats.Faces == 0 && prim.IndexCount() > 0 {
			s.Logger.Warn("primitive not raycastable",
				"mesh", mesh.Name, "primitive", i,
				"topology", prim.Mode, "indices", indexType(prim.Indices))
		}
		if stats.Skipped() > 0 {
			s.Logger.Warn("skipped faces",
				"mesh", mesh.Name, "primitive", i,
				"degenerate", stats.Degenerate, "out_of_range", stats.OutOfRange)
		}
	}

	if s.Logger != nil {
		s.Logger.Debug("mesh added", "mesh", mesh.Name, "faces", total.Faces, "triangles", len(s.Triangles))
	}

	return total
}

// Len returns the number of triangles.
func (s *Scene) Len() int {
	return len(s.Triangles)
}

// Intersect returns the nearest hit in the scene.
func (s *Scene) Intersect(r Ray) (Hit, bool) {
	eps := s.Epsilon
	if eps == 0 {
		eps = DefaultEpsilon
	}
	return IntersectSceneEpsilon(r, s.Triangles, eps)
}

func indexType(indices any) string {
	switch indices.(type) {
	case []uint8:
		return "uint8"
	case []uint16:
		return "uint16"
	case []uint32:
		return "uint32"
	case nil:
		return "none"
	default:
		return "unknown"
	}
}
