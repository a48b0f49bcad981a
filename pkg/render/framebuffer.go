// Package render turns a raycast scene into lit/unlit frames and presents
// them on a terminal or as image files.
package render

import (
	"image"
	"image/color"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Frame colors. Alpha is one short of fully opaque to match the window
// buffer the renderer was first written against.
var (
	ColorLit   = Color{R: 255, G: 255, B: 255, A: 254}
	ColorUnlit = Color{R: 0, G: 0, B: 0, A: 254}
	ColorEdge  = Color{R: 255, G: 0, B: 0, A: 255}
)

// Framebuffer is a row-major grid of pixels written by the renderer.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Resize reallocates the pixel buffer when the dimensions change.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]Color, width*height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// Count returns how many pixels equal c.
func (fb *Framebuffer) Count(c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage copies the framebuffer into a standard Go image. Channels are
// stored unpremultiplied so the 254 alpha round-trips through encoders.
func (fb *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		off := img.PixOffset(0, y)
		for x, c := range row {
			img.Pix[off+x*4+0] = c.R
			img.Pix[off+x*4+1] = c.G
			img.Pix[off+x*4+2] = c.B
			img.Pix[off+x*4+3] = c.A
		}
	}
	return img
}

// Bytes returns the pixels as packed RGBA bytes, row-major, for surfaces
// that take raw pixel uploads.
func (fb *Framebuffer) Bytes() []byte {
	return fb.ToImage().Pix
}
