package renderer

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator.
// It only reads shared state, so one instance serves every worker.
type TileRenderer struct {
	camera        *geometry.Camera
	world         geometry.Hitable
	integrator    integrator.Integrator
	config        SamplingConfig
	width, height int
}

// NewTileRenderer creates a new tile renderer for a width x height viewport
func NewTileRenderer(camera *geometry.Camera, world geometry.Hitable, integratorInst integrator.Integrator,
	config SamplingConfig, width, height int) *TileRenderer {
	return &TileRenderer{
		camera:     camera,
		world:      world,
		integrator: integratorInst,
		config:     config,
		width:      width,
		height:     height,
	}
}

// RenderTile fills a fresh buffer for tile, drawing all randomness from sampler
func (tr *TileRenderer) RenderTile(tile *Tile, sampler core.Sampler) *TileBuffer {
	buffer := NewTileBuffer(tile)
	bounds := tile.Bounds

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			buffer.set(x, y, tr.samplePixel(x, y, sampler))
		}
	}

	buffer.Samples = bounds.Dx() * bounds.Dy() * tr.config.SamplesPerPixel
	return buffer
}

// samplePixel averages SamplesPerPixel jittered camera rays through pixel (x, y)
func (tr *TileRenderer) samplePixel(x, y int, sampler core.Sampler) core.Vec3 {
	var sum core.Vec3
	for i := 0; i < tr.config.SamplesPerPixel; i++ {
		p, q := core.SamplePixelOffset(sampler)
		s := (float64(x) + p) / float64(tr.width)
		t := (float64(y) + q) / float64(tr.height)

		ray := tr.camera.GetRay(s, t, sampler)
		sum = sum.Add(tr.integrator.Radiance(ray, tr.world, sampler))
	}
	return sum.Divide(float64(tr.config.SamplesPerPixel))
}
