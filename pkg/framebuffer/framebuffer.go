// Package framebuffer turns linear-light renders into displayable 8-bit
// images and writes them out.
package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// Gamma applied before quantization
const Gamma = 2.0

// ToColor converts a linear color to 8-bit sRGB-ish: gamma 2, clamp to
// [0,1], scale by 255.99. NaN channels become 0.
func ToColor(c core.Vec3) color.NRGBA {
	corrected := c.GammaCorrect(Gamma).Clamp(0, 1)
	return color.NRGBA{
		R: quantize(corrected.X),
		G: quantize(corrected.Y),
		B: quantize(corrected.Z),
		A: 255,
	}
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(255.99 * v)
}

// ToNRGBA converts a composited render into an 8-bit image with the same
// orientation (row 0 at the top)
func ToNRGBA(img *renderer.Image) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.SetNRGBA(x, y, ToColor(img.At(x, y)))
		}
	}
	return out
}

// TileToNRGBA converts a finished tile into an 8-bit image oriented like
// the final picture, ready to paint at tile.OutputBounds
func TileToNRGBA(buffer *renderer.TileBuffer) *image.NRGBA {
	bounds := buffer.Tile.Bounds
	raw := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			raw.SetNRGBA(x, y, ToColor(buffer.Pix[y*bounds.Dx()+x]))
		}
	}
	// Tile rows are stored bottom-up
	return imaging.FlipV(raw)
}

// Encode writes img as PNG
func Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// Save writes img to path, creating parent directories. The format follows
// the file extension.
func Save(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img down to fit within maxWidth x maxHeight, keeping
// the aspect ratio. Smaller images are returned unchanged.
func Thumbnail(img image.Image, maxWidth, maxHeight uint) image.Image {
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Bilinear)
}
