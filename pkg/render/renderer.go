package render

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/taigrr/raycaster/pkg/raycast"
)

// Precondition errors returned by RenderFrame.
var (
	ErrNoScene       = errors.New("render: no scene")
	ErrNoCamera      = errors.New("render: no camera")
	ErrNoFramebuffer = errors.New("render: no framebuffer")

	// ErrFramebufferSize means Pixels does not hold Width*Height entries,
	// as happens when a Framebuffer is built without NewFramebuffer or
	// Resize.
	ErrFramebufferSize = errors.New("render: framebuffer size does not match its pixels")
)

// FrameStats describes one rendered frame.
type FrameStats struct {
	Rays    int
	Hits    int
	Elapsed time.Duration
}

// Coverage returns the fraction of rays that hit something.
func (s FrameStats) Coverage() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Rays)
}

// Renderer casts one ray per pixel and writes Lit on a hit and Unlit on a
// miss.
type Renderer struct {
	// Workers is the number of goroutines sharing the rows of a frame.
	// Values below 1 use runtime.NumCPU().
	Workers int

	Lit   Color
	Unlit Color

	// Logger receives a debug line per frame. Nil disables it.
	Logger *slog.Logger
}

// NewRenderer creates a renderer with one worker per CPU.
func NewRenderer() *Renderer {
	return &Renderer{
		Workers: runtime.NumCPU(),
		Lit:     ColorLit,
		Unlit:   ColorUnlit,
	}
}

// RenderFrame redraws every pixel of fb from scratch. The scene and camera
// are read concurrently and must not change until it returns; each pixel is
// written by exactly one worker.
func (r *Renderer) RenderFrame(scene *raycast.Scene, cam *Camera, fb *Framebuffer) (FrameStats, error) {
	switch {
	case scene == nil:
		return FrameStats{}, ErrNoScene
	case cam == nil:
		return FrameStats{}, ErrNoCamera
	case fb == nil:
		return FrameStats{}, ErrNoFramebuffer
	case fb.Width < 0 || fb.Height < 0 || len(fb.Pixels) != fb.Width*fb.Height:
		return FrameStats{}, ErrFramebufferSize
	}

	start := time.Now()
	basis := cam.basis(fb.Width, fb.Height)

	workers := r.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	workers = max(min(workers, fb.Height), 1)

	var wg sync.WaitGroup
	hits := make([]int, workers)

	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			n := 0
			for y := w; y < fb.Height; y += workers {
				row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
				for x := range row {
					if _, ok := scene.Intersect(basis.ray(x, y)); ok {
						row[x] = r.Lit
						n++
					} else {
						row[x] = r.Unlit
					}
				}
			}
			hits[w] = n
		}(w)
	}
	wg.Wait()

	stats := FrameStats{
		Rays:    fb.Width * fb.Height,
		Elapsed: time.Since(start),
	}
	for _, n := range hits {
		stats.Hits += n
	}

	if r.Logger != nil {
		r.Logger.Debug("frame rendered",
			"width", fb.Width, "height", fb.Height,
			"triangles", scene.Len(), "hits", stats.Hits,
			"workers", workers, "elapsed", stats.Elapsed)
	}

	return stats, nil
}
