package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// ErrUnsupportedFormat is returned for output paths with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("render: unsupported image format")

// Format is an output image encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
	FormatTGA
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatTGA:
		return "tga"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	case ".tga":
		return FormatTGA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Encode writes img to w. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// Upscale enlarges fb by an integer factor. Factors below 2 return fb.
func Upscale(fb *Framebuffer, factor int) *Framebuffer {
	if factor < 2 {
		return fb
	}
	return Fit(fb, fb.Width*factor, fb.Height*factor)
}

// Export writes fb to path, encoded by extension and enlarged by scale.
func Export(path string, fb *Framebuffer, scale int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := Encode(f, Upscale(fb, scale).ToImage(), format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return f.Close()
}
