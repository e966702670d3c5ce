package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ErrInvalidRefractiveIndex is returned for a non-positive refractive index
var ErrInvalidRefractiveIndex = errors.New("refractive index must be positive")

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) (*Dielectric, error) {
	if !(refractiveIndex > 0) || math.IsInf(refractiveIndex, 0) {
		return nil, fmt.Errorf("dielectric %v: %w", refractiveIndex, ErrInvalidRefractiveIndex)
	}
	return &Dielectric{RefractiveIndex: refractiveIndex}, nil
}

// MustDielectric is NewDielectric for literal scene definitions; it panics on error
func MustDielectric(refractiveIndex float64) *Dielectric {
	d, err := NewDielectric(refractiveIndex)
	if err != nil {
		panic(err)
	}
	return d
}

// Scatter implements the Material interface for dielectric scattering.
// Entering versus exiting is decided from the sign of dot(direction, normal),
// so it works with normals that always point out of the shape.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Dielectrics always attenuate by 1.0 (no color absorption for clear glass)
	attenuation := core.NewVec3(1.0, 1.0, 1.0)
	reflected := core.Reflect(rayIn.Direction, hit.Normal)

	dot := rayIn.Direction.Dot(hit.Normal)
	length := rayIn.Direction.Length()

	var outwardNormal core.Vec3
	var relIndex, cosine float64
	if dot > 0 {
		// Exiting the material
		outwardNormal = hit.Normal.Negate()
		relIndex = d.RefractiveIndex
		cosine = relIndex * dot
	} else {
		// Entering the material
		outwardNormal = hit.Normal
		relIndex = 1.0 / d.RefractiveIndex
		cosine = -dot
	}
	if length > 0 {
		cosine /= length
	} else {
		cosine = 0
	}

	direction := reflected
	if refracted, ok := core.Refract(rayIn.Direction, outwardNormal, relIndex); ok {
		if sampler.Get1D() >= Reflectance(cosine, relIndex) {
			direction = refracted
		}
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
	}, true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
