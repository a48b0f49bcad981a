// Package config loads raycaster scene settings from YAML and merges them
// with command-line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/taigrr/raycaster/pkg/raycast"
	"github.com/taigrr/raycaster/pkg/render"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to build a scene, a camera and a renderer.
type Config struct {
	// Frame
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Workers int     `yaml:"workers"`
	Epsilon float64 `yaml:"epsilon"`

	// Normals is "edges" or "positions".
	Normals string `yaml:"normals"`

	// Projection is "perspective", "orthographic" or "single".
	Projection  string  `yaml:"projection"`
	FOVDegrees  float64 `yaml:"fov_degrees"`
	OrthoHeight float64 `yaml:"ortho_height"`

	Camera CameraConfig `yaml:"camera"`
	Mesh   MeshConfig   `yaml:"mesh"`
	Output OutputConfig `yaml:"output"`
}

// CameraConfig places the camera.
type CameraConfig struct {
	Position Vec `yaml:"position"`
	LookAt   Vec `yaml:"look_at"`
	Up       Vec `yaml:"up"`
}

// OutputConfig controls batch export.
type OutputConfig struct {
	// Path is the output file. With more than one frame it is a
	// fmt pattern taking the frame number, e.g. "frame-%03d.png".
	Path    string `yaml:"path"`
	Frames  int    `yaml:"frames"`
	Scale   int    `yaml:"scale"`
	Overlay bool   `yaml:"overlay"`
}

// Default returns the demo scene: a torus five units ahead of a camera at
// the origin, turned to face it, rendered at 500×500.
func Default() Config {
	return Config{
		Width:       500,
		Height:      500,
		Epsilon:     raycast.DefaultEpsilon,
		Normals:     "edges",
		Projection:  "perspective",
		FOVDegrees:  60,
		OrthoHeight: 4,
		Camera: CameraConfig{
			Position: Vec{0, 0, 0},
			LookAt:   Vec{0, 0, 10},
			Up:       Vec{0, 1, 0},
		},
		Mesh: MeshConfig{
			Primitive:      "torus",
			MajorRadius:    1.0,
			MinorRadius:    0.5,
			MajorSegments:  32,
			MinorSegments:  24,
			Size:           1,
			ApplyTransform: true,
			Transform: TransformConfig{
				Translate:      Vec{0, 0, 5},
				RotateXDegrees: 90,
				Scale:          1,
			},
		},
		Output: OutputConfig{
			Frames: 1,
			Scale:  1,
		},
	}
}

// Load reads a YAML config file over Default, so fields missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Write encodes the config as YAML.
func (c Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return enc.Close()
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width      int
	Height     int
	Workers    int
	Epsilon    float64
	Normals    string
	Projection string
	FOV        float64
	Mesh       string
	Output     string
	Frames     int
	Scale      int
	Overlay    bool
}

// Resolve applies non-zero flags over the config and fills any remaining
// empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Epsilon > 0 {
		c.Epsilon = flags.Epsilon
	}
	if flags.Normals != "" {
		c.Normals = flags.Normals
	}
	if flags.Projection != "" {
		c.Projection = flags.Projection
	}
	if flags.FOV > 0 {
		c.FOVDegrees = flags.FOV
	}
	if flags.Mesh != "" {
		c.Mesh.Path = flags.Mesh
	}
	if flags.Output != "" {
		c.Output.Path = flags.Output
	}
	if flags.Frames > 0 {
		c.Output.Frames = flags.Frames
	}
	if flags.Scale > 0 {
		c.Output.Scale = flags.Scale
	}
	if flags.Overlay {
		c.Output.Overlay = true
	}

	// Defaults for anything still unset
	def := Default()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Epsilon <= 0 {
		c.Epsilon = def.Epsilon
	}
	if c.FOVDegrees <= 0 {
		c.FOVDegrees = def.FOVDegrees
	}
	if c.OrthoHeight <= 0 {
		c.OrthoHeight = def.OrthoHeight
	}
	if c.Camera.Up.IsZero() {
		c.Camera.Up = def.Camera.Up
	}
	if c.Output.Frames <= 0 {
		c.Output.Frames = 1
	}
	if c.Output.Scale <= 0 {
		c.Output.Scale = 1
	}
}

// Validate reports settings that cannot be rendered.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: frame size %dx%d must be positive", c.Width, c.Height)
	}
	if _, err := raycast.ParseNormalMode(c.Normals); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := render.ParseProjection(c.Projection); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.FOVDegrees >= 180 {
		return fmt.Errorf("config: fov_degrees %v must be below 180", c.FOVDegrees)
	}
	if c.Mesh.Path == "" {
		if _, ok := primitives[c.Mesh.Primitive]; !ok {
			return fmt.Errorf("config: unknown primitive %q", c.Mesh.Primitive)
		}
	}
	return nil
}
