package integrator

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
)

// PathTracingIntegrator bounces a ray through the scene, multiplying the
// attenuation of every scatter, until it escapes to the background, gets
// absorbed or runs out of bounces.
type PathTracingIntegrator struct {
	maxDepth   int
	background core.Background
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// A nil background is treated as black.
func NewPathTracingIntegrator(maxDepth int, background core.Background) *PathTracingIntegrator {
	if background == nil {
		background = func(core.Ray) core.Vec3 { return core.Vec3{} }
	}
	return &PathTracingIntegrator{
		maxDepth:   maxDepth,
		background: background,
	}
}

// MaxDepth returns the bounce budget
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// Radiance computes the color for a single ray.
// The bounce chain runs as a loop carrying the accumulated attenuation, so
// stack use does not grow with the depth budget.
func (pt *PathTracingIntegrator) Radiance(ray core.Ray, world geometry.Hitable, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	limits := core.Forward(Epsilon)

	for depth := pt.maxDepth; ; depth-- {
		hit, isHit := world.Hit(ray, limits)
		if !isHit {
			return throughput.MultiplyVec(pt.background(ray))
		}

		if hit.Material == nil {
			return core.Vec3{}
		}

		// Scatter runs even on the last bounce so every hit draws the same
		// samples; out of bounces, the hit contributes nothing
		scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
		if !didScatter || depth <= 0 {
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}
}
