package renderer

import "github.com/df07/go-tile-raytracer/pkg/core"

// Image is a linear-light color buffer stored row-major. Row 0 is the top
// of the picture.
type Image struct {
	Width, Height int
	Pix           []core.Vec3
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]core.Vec3, width*height),
	}
}

// At returns the color at column x, row y
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pix[y*img.Width+x]
}

// Set stores the color at column x, row y
func (img *Image) Set(x, y int, c core.Vec3) {
	img.Pix[y*img.Width+x] = c
}

// Row returns the pixels of row y, sharing storage with the image
func (img *Image) Row(y int) []core.Vec3 {
	return img.Pix[y*img.Width : (y+1)*img.Width]
}
