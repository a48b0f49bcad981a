package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/raycaster/pkg/config"
	"github.com/taigrr/raycaster/pkg/render"
	"golang.org/x/sync/errgroup"
)

// exportFrames renders cfg.Output.Frames frames and writes them to disk.
// More than one frame orbits the camera once around the mesh. Frames are
// rendered in order and encoded concurrently.
func exportFrames(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	scene, mesh, err := cfg.BuildScene(logger)
	if err != nil {
		return err
	}
	cam, err := cfg.BuildCamera()
	if err != nil {
		return err
	}
	renderer := cfg.BuildRenderer(logger)

	n := cfg.Output.Frames
	orbit := render.NewOrbit(*targetFPS, mesh.Center(), cam.Position)
	startYaw := orbit.Yaw

	logger.Info("exporting",
		"mesh", mesh.Name, "triangles", scene.Len(),
		"frames", n, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"projection", cfg.Projection, "normals", cfg.Normals)

	bar := progressbar.Default(int64(n), "rendering")
	defer bar.Close()

	renderFrame := func(i int) (*render.Framebuffer, string, error) {
		if n > 1 {
			orbit.SetGoal(startYaw+2*math.Pi*float64(i)/float64(n), orbit.Pitch, orbit.Distance)
			orbit.Snap()
			cam.SetPose(orbit.Pose())
		}

		fb := render.NewFramebuffer(cfg.Width, cfg.Height)
		stats, err := renderer.RenderFrame(scene, cam, fb)
		if err != nil {
			return nil, "", err
		}
		if cfg.Output.Overlay {
			render.NewOverlay(cam, fb).DrawTriangles(scene.Triangles, render.ColorEdge)
		}

		path := framePath(cfg.Output.Path, i, n)
		logger.Debug("frame", "index", i, "path", path, "hits", stats.Hits, "coverage", stats.Coverage(), "elapsed", stats.Elapsed)
		return fb, path, nil
	}
	writeFrame := func(path string, fb *render.Framebuffer) error {
		return render.Export(path, fb, cfg.Output.Scale)
	}

	if err := writeFrames(ctx, n, renderFrame, writeFrame, func() error { return bar.Add(1) }); err != nil {
		return err
	}

	logger.Info("done", "frames", n, "path", cfg.Output.Path)
	return nil
}

// writeFrames renders frames 0..n-1 in order and writes each one on the
// errgroup as soon as it is rendered. It returns only after every started
// write has finished, including when a render fails.
func writeFrames(ctx context.Context, n int,
	renderFrame func(i int) (*render.Framebuffer, string, error),
	write func(path string, fb *render.Framebuffer) error,
	done func() error,
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var renderErr error
	for i := range n {
		if gctx.Err() != nil {
			break
		}

		fb, path, err := renderFrame(i)
		if err != nil {
			renderErr = fmt.Errorf("render frame %d: %w", i, err)
			break
		}

		g.Go(func() error {
			if err := write(path, fb); err != nil {
				return fmt.Errorf("export frame %d: %w", i, err)
			}
			return done()
		})
	}

	waitErr := g.Wait()
	if renderErr != nil {
		return renderErr
	}
	if waitErr != nil {
		return waitErr
	}
	return ctx.Err()
}

// framePath returns the output path for frame i of n. A path containing a
// fmt verb is formatted with i; otherwise multi-frame exports get a
// zero-padded suffix before the extension.
func framePath(pattern string, i, n int) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, i)
	}
	if n <= 1 {
		return pattern
	}
	ext := filepath.Ext(pattern)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(pattern, ext), i, ext)
}
