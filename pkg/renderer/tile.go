package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ErrTileSize is returned when the viewport cannot be split into whole tiles
var ErrTileSize = errors.New("viewport is not a multiple of the tile size")

// Tile represents a square region of the viewport rendered by one worker.
// Bounds are in sample space: y grows upward, so row 0 is the bottom of the
// view plane.
type Tile struct {
	ID     int             // Position in row-major tile order
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
	}
}

// OutputBounds returns where the tile lands in an image of the given height
// once the compositor has flipped it
func (t *Tile) OutputBounds(height int) image.Rectangle {
	return image.Rect(t.Bounds.Min.X, height-t.Bounds.Max.Y, t.Bounds.Max.X, height-t.Bounds.Min.Y)
}

// NewTileGrid creates a grid of tiles covering the entire viewport in
// row-major order. Width and height must be multiples of tileSize.
func NewTileGrid(width, height, tileSize int) ([]*Tile, error) {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return nil, fmt.Errorf("viewport %dx%d, tile %d: %w", width, height, tileSize, ErrTileSize)
	}
	if width%tileSize != 0 || height%tileSize != 0 {
		return nil, fmt.Errorf("viewport %dx%d, tile %d: %w", width, height, tileSize, ErrTileSize)
	}

	tilesX := width / tileSize
	tilesY := height / tileSize
	tiles := make([]*Tile, 0, tilesX*tilesY)

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			bounds := image.Rect(x0, y0, x0+tileSize, y0+tileSize)
			tiles = append(tiles, NewTile(len(tiles), bounds))
		}
	}

	return tiles, nil
}

// TileBuffer is the private pixel buffer a worker fills for one tile.
// Pix is row-major in sample space: Pix[0] is the tile's lower-left pixel.
type TileBuffer struct {
	Tile    *Tile
	Pix     []core.Vec3
	Samples int // Camera rays traced for this tile
}

// NewTileBuffer allocates a black buffer sized for tile
func NewTileBuffer(tile *Tile) *TileBuffer {
	return &TileBuffer{
		Tile: tile,
		Pix:  make([]core.Vec3, tile.Bounds.Dx()*tile.Bounds.Dy()),
	}
}

// At returns the color at viewport coordinates (x, y) inside the tile
func (b *TileBuffer) At(x, y int) core.Vec3 {
	bounds := b.Tile.Bounds
	return b.Pix[(y-bounds.Min.Y)*bounds.Dx()+(x-bounds.Min.X)]
}

func (b *TileBuffer) set(x, y int, c core.Vec3) {
	bounds := b.Tile.Bounds
	b.Pix[(y-bounds.Min.Y)*bounds.Dx()+(x-bounds.Min.X)] = c
}
