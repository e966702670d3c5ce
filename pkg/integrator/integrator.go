package integrator

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
)

// Epsilon is the lower bound of the hit range. It keeps scattered rays from
// re-hitting the surface they leave ("shadow acne").
const Epsilon = 1e-3

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe to call from many workers at once as long as
// each worker passes its own sampler.
type Integrator interface {
	// Radiance returns the light arriving along ray from world
	Radiance(ray core.Ray, world geometry.Hitable, sampler core.Sampler) core.Vec3
}
