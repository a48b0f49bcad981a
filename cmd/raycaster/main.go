// raycaster - binary lit/unlit triangle raycaster
// Renders a mesh by casting one ray per pixel and lighting every pixel whose
// ray hits a triangle. Runs interactively in the terminal, or exports
// frames to PNG, WebP or TGA with -out.
//
// Controls:
//
//	Arrows/WASD - Orbit the camera around the mesh
//	+/-         - Zoom in/out
//	P           - Cycle projection (perspective, orthographic, single ray)
//	N           - Toggle normal rule (edges, positions)
//	O           - Toggle triangle edge overlay
//	R           - Reset view
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taigrr/raycaster/pkg/config"
	"golang.org/x/term"
)

var (
	configPath = flag.String("config", "", "Path to a YAML scene file")
	dumpConfig = flag.Bool("dump-config", false, "Print the resolved config as YAML and exit")
	verbose    = flag.Bool("v", false, "Enable debug logging")
	targetFPS  = flag.Int("fps", 30, "Target FPS in interactive mode")

	flags config.Flags
)

func init() {
	flag.IntVar(&flags.Width, "width", 0, "Frame width in pixels (default 500)")
	flag.IntVar(&flags.Height, "height", 0, "Frame height in pixels (default 500)")
	flag.IntVar(&flags.Workers, "workers", 0, "Render goroutines (default NumCPU)")
	flag.Float64Var(&flags.Epsilon, "epsilon", 0, "Parallel-ray threshold (default 0.01)")
	flag.StringVar(&flags.Normals, "normals", "", "Face normal rule: edges or positions")
	flag.StringVar(&flags.Projection, "projection", "", "perspective, orthographic or single")
	flag.Float64Var(&flags.FOV, "fov", 0, "Vertical field of view in degrees")
	flag.StringVar(&flags.Mesh, "mesh", "", "Path to a .gltf or .glb mesh (default: built-in torus)")
	flag.StringVar(&flags.Output, "out", "", "Export frames to this .png, .webp or .tga path instead of the terminal")
	flag.IntVar(&flags.Frames, "frames", 0, "Number of orbit frames to export")
	flag.IntVar(&flags.Scale, "scale", 0, "Integer upscale factor for exported frames")
	flag.BoolVar(&flags.Overlay, "overlay", false, "Draw triangle edges over exported frames")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "raycaster - binary triangle raycaster\n\n")
		fmt.Fprintf(os.Stderr, "Usage: raycaster [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows/WASD - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  P           - Cycle projection\n")
		fmt.Fprintf(os.Stderr, "  N           - Toggle normal rule\n")
		fmt.Fprintf(os.Stderr, "  O           - Toggle edge overlay\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
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

	if *dumpConfig {
		return cfg.Write(os.Stdout)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Output.Path != "" {
		return exportFrames(ctx, &cfg, logger)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use -out to export frames")
	}
	return runInteractive(ctx, &cfg, logger)
}
