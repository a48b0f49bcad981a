package config

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/taigrr/raycaster/pkg/math3d"
	"github.com/taigrr/raycaster/pkg/models"
	"github.com/taigrr/raycaster/pkg/raycast"
	"github.com/taigrr/raycaster/pkg/render"
	"gopkg.in/yaml.v3"
)

// Vec is a YAML [x, y, z] sequence.
type Vec [3]float64

// UnmarshalYAML implements yaml.Unmarshaler for Vec.
func (v *Vec) UnmarshalYAML(value *yaml.Node) error {
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: want [x, y, z], got %d values", value.Line, len(xs))
	}
	copy(v[:], xs)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Vec.
func (v Vec) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, x := range v {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(x, 'g', -1, 64),
		})
	}
	return node, nil
}

// V3 converts to a math3d vector.
func (v Vec) V3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// IsZero reports whether all components are zero.
func (v Vec) IsZero() bool {
	return v == Vec{}
}

// MeshConfig selects a mesh file or a built-in primitive.
type MeshConfig struct {
	// Path to a .gltf or .glb file. Overrides Primitive when set.
	Path string `yaml:"path"`

	// PromoteIndices widens 8 and 16-bit index buffers so they can be
	// raycast.
	PromoteIndices bool `yaml:"promote_indices"`

	// Primitive is "torus", "cube" or "tetrahedron".
	Primitive     string  `yaml:"primitive"`
	MajorRadius   float64 `yaml:"major_radius"`
	MinorRadius   float64 `yaml:"minor_radius"`
	MajorSegments int     `yaml:"major_segments"`
	MinorSegments int     `yaml:"minor_segments"`
	Size          float64 `yaml:"size"`

	// ApplyTransform bakes Transform into the triangle positions. When
	// false the triangles keep their local coordinates.
	ApplyTransform bool            `yaml:"apply_transform"`
	Transform      TransformConfig `yaml:"transform"`
}

// TransformConfig is a scale, then X/Y/Z rotation, then translation.
type TransformConfig struct {
	Translate      Vec     `yaml:"translate"`
	RotateXDegrees float64 `yaml:"rotate_x_degrees"`
	RotateYDegrees float64 `yaml:"rotate_y_degrees"`
	RotateZDegrees float64 `yaml:"rotate_z_degrees"`
	Scale          float64 `yaml:"scale"`
}

// Matrix returns the combined transform.
func (t TransformConfig) Matrix() math3d.Mat4 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	rad := math.Pi / 180
	rot := math3d.QuatEuler(t.RotateXDegrees*rad, t.RotateYDegrees*rad, t.RotateZDegrees*rad)
	return math3d.Translate(t.Translate.V3()).
		Mul(rot.Mat4()).
		Mul(math3d.ScaleUniform(scale))
}

var primitives = map[string]func(MeshConfig) *models.Mesh{
	"torus": func(m MeshConfig) *models.Mesh {
		return models.Torus(
			orDefault(m.MajorRadius, models.DefaultMajorRadius),
			orDefault(m.MinorRadius, models.DefaultMinorRadius),
			orDefaultInt(m.MajorSegments, models.DefaultMajorResolution),
			orDefaultInt(m.MinorSegments, models.DefaultMinorResolution),
		)
	},
	"cube": func(m MeshConfig) *models.Mesh {
		return models.Cube(orDefault(m.Size, 1))
	},
	"tetrahedron": func(m MeshConfig) *models.Mesh {
		return models.Tetrahedron(orDefault(m.Size, 1) / 2)
	},
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// BuildMesh loads or generates the configured mesh and applies its
// transform when ApplyTransform is set.
func (c *Config) BuildMesh() (*models.Mesh, error) {
	var mesh *models.Mesh

	if c.Mesh.Path != "" {
		loader := models.NewGLTFLoader()
		loader.PromoteIndices = c.Mesh.PromoteIndices
		m, err := loader.Load(c.Mesh.Path)
		if err != nil {
			return nil, fmt.Errorf("load mesh: %w", err)
		}
		mesh = m
	} else {
		build, ok := primitives[c.Mesh.Primitive]
		if !ok {
			return nil, fmt.Errorf("unknown primitive %q", c.Mesh.Primitive)
		}
		mesh = build(c.Mesh)
	}

	if c.Mesh.ApplyTransform {
		mesh.Transform(c.Mesh.Transform.Matrix())
	}
	return mesh, nil
}

// BuildScene builds the mesh and extracts its triangles.
func (c *Config) BuildScene(logger *slog.Logger) (*raycast.Scene, *models.Mesh, error) {
	mode, err := raycast.ParseNormalMode(c.Normals)
	if err != nil {
		return nil, nil, err
	}
	mesh, err := c.BuildMesh()
	if err != nil {
		return nil, nil, err
	}

	scene := raycast.NewScene()
	scene.Epsilon = c.Epsilon
	scene.Logger = logger
	scene.AddMesh(mesh, mode)
	return scene, mesh, nil
}

// BuildCamera positions a camera at Camera.Position looking at
// Camera.LookAt.
func (c *Config) BuildCamera() (*render.Camera, error) {
	proj, err := render.ParseProjection(c.Projection)
	if err != nil {
		return nil, err
	}

	cam := render.NewCamera()
	cam.Projection = proj
	if c.FOVDegrees > 0 {
		cam.FOV = c.FOVDegrees * math.Pi / 180
	}
	if c.OrthoHeight > 0 {
		cam.OrthoHeight = c.OrthoHeight
	}
	cam.SetPosition(c.Camera.Position.V3())

	up := c.Camera.Up.V3()
	if c.Camera.Up.IsZero() {
		up = math3d.UnitY()
	}
	cam.LookAt(c.Camera.LookAt.V3(), up)
	return cam, nil
}

// BuildRenderer creates a renderer using the configured worker count.
func (c *Config) BuildRenderer(logger *slog.Logger) *render.Renderer {
	r := render.NewRenderer()
	if c.Workers > 0 {
		r.Workers = c.Workers
	}
	r.Logger = logger
	return r
}
