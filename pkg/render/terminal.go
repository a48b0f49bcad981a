package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

// Draw converts the framebuffer to half-block terminal cells and draws them
// on the screen. Each terminal row shows two framebuffer rows: ▀ with the
// top pixel as foreground and the bottom pixel as background.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts a pixel to a terminal color, dropping alpha since
// cells are opaque.
func rgbaToColor(c Color) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return color.RGBA{c.R, c.G, c.B, 255}
}

// CellGrid returns the framebuffer size that exactly fills a terminal of
// cols×rows cells with half-block drawing.
func CellGrid(cols, rows int) (width, height int) {
	return max(cols, 0), max(rows, 0) * 2
}

// Fit scales src to width×height with nearest-neighbour sampling, which
// keeps the output strictly two-colored.
func Fit(src *Framebuffer, width, height int) *Framebuffer {
	if src.Width == width && src.Height == height {
		out := NewFramebuffer(width, height)
		copy(out.Pixels, src.Pixels)
		return out
	}
	dst := image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src.ToImage(), image.Rect(0, 0, src.Width, src.Height), draw.Src, nil)
	return FromImage(dst)
}

// FromImage copies any image into a new framebuffer.
func FromImage(img image.Image) *Framebuffer {
	b := img.Bounds()
	fb := NewFramebuffer(b.Dx(), b.Dy())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			fb.Pixels[y*fb.Width+x] = Color{R: c.R, G: c.G, B: c.B, A: c.A}
		}
	}
	return fb
}
