package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/raycaster/pkg/config"
	"github.com/taigrr/raycaster/pkg/models"
	"github.com/taigrr/raycaster/pkg/raycast"
	"github.com/taigrr/raycaster/pkg/render"
)

const (
	orbitStep = math.Pi / 24
	zoomStep  = 1.15
)

// viewer holds the interactive state. Input handling and rendering both run
// on the main loop, so the camera is never written during a frame.
type viewer struct {
	mesh     *models.Mesh
	scene    *raycast.Scene
	normals  raycast.NormalMode
	camera   *render.Camera
	orbit    *render.Orbit
	home     render.Pose
	renderer *render.Renderer
	fb       *render.Framebuffer
	overlay  bool

	last render.FrameStats
}

func newViewer(cfg *config.Config, logger *slog.Logger) (*viewer, error) {
	scene, mesh, err := cfg.BuildScene(logger)
	if err != nil {
		return nil, err
	}
	cam, err := cfg.BuildCamera()
	if err != nil {
		return nil, err
	}
	normals, err := raycast.ParseNormalMode(cfg.Normals)
	if err != nil {
		return nil, err
	}

	return &viewer{
		mesh:     mesh,
		scene:    scene,
		normals:  normals,
		camera:   cam,
		orbit:    render.NewOrbit(*targetFPS, mesh.Center(), cam.Position),
		home:     cam.Pose,
		renderer: cfg.BuildRenderer(nil),
		fb:       render.NewFramebuffer(0, 0),
		overlay:  cfg.Output.Overlay,
	}, nil
}

// resize matches the framebuffer to a terminal of cols×rows cells, leaving
// the last row for the status line.
func (v *viewer) resize(cols, rows int) {
	v.fb.Resize(render.CellGrid(cols, max(rows-1, 0)))
}

// handleKey applies a key press. It reports false when the viewer should
// quit.
func (v *viewer) handleKey(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("escape", "ctrl+c"):
		return false
	case ev.MatchString("a", "left"):
		v.orbit.Rotate(-orbitStep, 0)
	case ev.MatchString("d", "right"):
		v.orbit.Rotate(orbitStep, 0)
	case ev.MatchString("w", "up"):
		v.orbit.Rotate(0, orbitStep)
	case ev.MatchString("s", "down"):
		v.orbit.Rotate(0, -orbitStep)
	case ev.MatchString("+", "="):
		v.orbit.Zoom(1 / zoomStep)
	case ev.MatchString("-", "_"):
		v.orbit.Zoom(zoomStep)
	case ev.MatchString("p"):
		v.camera.Projection = (v.camera.Projection + 1) % 3
	case ev.MatchString("n"):
		v.toggleNormals()
	case ev.MatchString("o"):
		v.overlay = !v.overlay
	case ev.MatchString("r"):
		v.camera.SetPose(v.home)
		v.orbit = render.NewOrbit(*targetFPS, v.mesh.Center(), v.home.Position)
	}
	return true
}

func (v *viewer) toggleNormals() {
	if v.normals == raycast.NormalFromEdges {
		v.normals = raycast.NormalFromPositions
	} else {
		v.normals = raycast.NormalFromEdges
	}
	scene := raycast.NewScene()
	scene.Epsilon = v.scene.Epsilon
	scene.AddMesh(v.mesh, v.normals)
	v.scene = scene
}

// frame advances the orbit and renders into the framebuffer.
func (v *viewer) frame() error {
	if !v.orbit.Settled(1e-4) {
		v.camera.SetPose(v.orbit.Update())
	}

	stats, err := v.renderer.RenderFrame(v.scene, v.camera, v.fb)
	if err != nil {
		return err
	}
	if v.overlay {
		ov := render.NewOverlay(v.camera, v.fb)
		ov.DrawTriangles(v.scene.Triangles, render.ColorEdge)
		ov.DrawAxes(v.mesh.Center(), 1)
	}
	v.last = stats
	return nil
}

func (v *viewer) status() string {
	return fmt.Sprintf(" %s  %d tris  %s  normals=%s  hits %.0f%%  %v ",
		v.mesh.Name, v.scene.Len(), v.camera.Projection, v.normals,
		v.last.Coverage()*100, v.last.Elapsed.Round(time.Millisecond))
}

// drawStatus writes text into the bottom row of the screen.
func drawStatus(scr uv.Screen, text string) {
	area := scr.Bounds()
	row := area.Max.Y - 1
	if row < area.Min.Y {
		return
	}
	col := area.Min.X
	for _, r := range text {
		if col >= area.Max.X {
			break
		}
		scr.SetCell(col, row, &uv.Cell{Content: string(r), Width: 1})
		col++
	}
	for ; col < area.Max.X; col++ {
		scr.SetCell(col, row, nil)
	}
}

func runInteractive(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	v, err := newViewer(cfg, logger)
	if err != nil {
		return err
	}

	tty := uv.DefaultTerminal()

	width, height, err := tty.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := tty.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	logger.Debug("starting viewer", "cols", width, "rows", height, "triangles", v.scene.Len())

	tty.EnterAltScreen()
	tty.HideCursor()
	tty.Resize(width, height)
	v.resize(width, height)

	defer func() {
		tty.ExitAltScreen()
		tty.ShowCursor()
		tty.Shutdown(context.Background())
	}()

	ticker := time.NewTicker(time.Second / time.Duration(max(*targetFPS, 1)))
	defer ticker.Stop()

	events := tty.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				tty.Erase()
				tty.Resize(width, height)
				v.resize(width, height)
			case uv.KeyPressEvent:
				if !v.handleKey(ev) {
					return nil
				}
			}

		case <-ticker.C:
			if err := v.frame(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			v.fb.Draw(tty, tty.Bounds())
			drawStatus(tty, v.status())
			if err := tty.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
