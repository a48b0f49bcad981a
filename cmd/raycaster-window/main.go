// raycaster-window - binary triangle raycaster in a desktop window
// Shows the same lit/unlit frame as the terminal viewer at full pixel
// resolution, defaulting to a 500×500 window.
//
// Controls:
//
//	Arrows      - Orbit the camera around the mesh
//	+/-         - Zoom in/out
//	P           - Cycle projection
//	O           - Toggle triangle edge overlay
//	Esc         - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/raycaster/pkg/config"
	"github.com/taigrr/raycaster/pkg/raycast"
	"github.com/taigrr/raycaster/pkg/render"
)

var (
	configPath = flag.String("config", "", "Path to a YAML scene file")
	verbose    = flag.Bool("v", false, "Enable debug logging")
	zoom       = flag.Int("zoom", 1, "Window pixels per frame pixel")

	flags config.Flags
)

func init() {
	flag.IntVar(&flags.Width, "width", 0, "Frame width in pixels (default 500)")
	flag.IntVar(&flags.Height, "height", 0, "Frame height in pixels (default 500)")
	flag.IntVar(&flags.Workers, "workers", 0, "Render goroutines (default NumCPU)")
	flag.StringVar(&flags.Normals, "normals", "", "Face normal rule: edges or positions")
	flag.StringVar(&flags.Projection, "projection", "", "perspective, orthographic or single")
	flag.Float64Var(&flags.FOV, "fov", 0, "Vertical field of view in degrees")
	flag.StringVar(&flags.Mesh, "mesh", "", "Path to a .gltf or .glb mesh (default: built-in torus)")
}

const (
	tps       = 60
	orbitRate = math.Pi / 2 // radians per second while an arrow is held
)

var errQuit = errors.New("quit")

type game struct {
	scene    *raycast.Scene
	camera   *render.Camera
	orbit    *render.Orbit
	renderer *render.Renderer
	fb       *render.Framebuffer
	overlay  bool
	logger   *slog.Logger

	img     *ebiten.Image
	scratch []byte
	dirty   bool
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	step := orbitRate / tps
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.orbit.Rotate(-step, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.orbit.Rotate(step, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.orbit.Rotate(0, step)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.orbit.Rotate(0, -step)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.orbit.Zoom(1 / 1.15)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.orbit.Zoom(1.15)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.camera.Projection = (g.camera.Projection + 1) % 3
		g.logger.Debug("projection", "mode", g.camera.Projection)
		g.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.overlay = !g.overlay
		g.dirty = true
	}

	if !g.orbit.Settled(1e-4) {
		g.camera.SetPose(g.orbit.Update())
		g.dirty = true
	}
	if !g.dirty {
		return nil
	}

	if _, err := g.renderer.RenderFrame(g.scene, g.camera, g.fb); err != nil {
		return err
	}
	if g.overlay {
		render.NewOverlay(g.camera, g.fb).DrawTriangles(g.scene.Triangles, render.ColorEdge)
	}
	g.dirty = false
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.fb.Width, g.fb.Height)
	}

	// Ebiten takes premultiplied pixels, so the 254 alpha is dropped here.
	g.scratch = append(g.scratch[:0], g.fb.Bytes()...)
	for i := 3; i < len(g.scratch); i += 4 {
		g.scratch[i] = 0xFF
	}

	g.img.WritePixels(g.scratch)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width, g.fb.Height
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	scene, mesh, err := cfg.BuildScene(logger)
	if err != nil {
		return err
	}
	cam, err := cfg.BuildCamera()
	if err != nil {
		return err
	}

	g := &game{
		scene:    scene,
		camera:   cam,
		orbit:    render.NewOrbit(tps, mesh.Center(), cam.Position),
		renderer: cfg.BuildRenderer(logger),
		fb:       render.NewFramebuffer(cfg.Width, cfg.Height),
		overlay:  cfg.Output.Overlay,
		logger:   logger,
		dirty:    true,
	}

	ebiten.SetWindowTitle("raycaster - " + mesh.Name)
	ebiten.SetWindowSize(cfg.Width*max(*zoom, 1), cfg.Height*max(*zoom, 1))
	ebiten.SetTPS(tps)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
