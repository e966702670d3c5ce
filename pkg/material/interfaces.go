package material

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Material interface for objects that can scatter rays.
// Scatter returns false when the incoming ray is absorbed.
type Material interface {
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection.
// Normal is the geometric outward normal as reported by the shape; it is
// not flipped toward the incoming ray.
type HitRecord struct {
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Surface normal at intersection
	T        float64   // Parameter t along the ray
	Material Material  // Material of the hit object
}
