package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// skyBackground is a view-dependent background for exactness checks
func skyBackground(ray core.Ray) core.Vec3 {
	t := 0.5 * (ray.Direction.Normalize().Y + 1.0)
	return core.Lerp(core.NewVec3(1, 1, 1), core.NewVec3(0.5, 0.7, 1.0), t)
}

// absorbingMaterial never scatters
type absorbingMaterial struct{}

func (absorbingMaterial) Scatter(core.Ray, material.HitRecord, core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

// inwardMaterial always sends the ray back toward the origin and counts
// how often it was asked to scatter
type inwardMaterial struct {
	calls int
}

func (m *inwardMaterial) Scatter(_ core.Ray, hit material.HitRecord, _ core.Sampler) (material.ScatterResult, bool) {
	m.calls++
	return material.ScatterResult{
		Scattered:   core.NewRay(hit.Point, hit.Point.Negate()),
		Attenuation: core.NewVec3(0.9, 0.9, 0.9),
	}, true
}

func TestRadiance_MissReturnsBackgroundExactly(t *testing.T) {
	integrator := NewPathTracingIntegrator(10, skyBackground)
	sampler := core.NewSeededSampler(42)

	worlds := map[string]geometry.Hitable{
		"empty list": geometry.NewHitableList(),
		"sphere behind the ray": geometry.NewHitableList(
			geometry.MustSphere(core.NewVec3(0, 0, 5), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		),
	}

	directions := []core.Vec3{
		core.NewVec3(0, 0, -1),
		core.NewVec3(0, 1, -0.3),
		core.NewVec3(0.2, -0.7, -1),
	}

	for name, world := range worlds {
		t.Run(name, func(t *testing.T) {
			for _, dir := range directions {
				ray := core.NewRay(core.NewVec3(0, 0, 0), dir)
				got := integrator.Radiance(ray, world, sampler)
				if got != skyBackground(ray) {
					t.Errorf("direction %v: expected %v, got %v", dir, skyBackground(ray), got)
				}
			}
		})
	}
}

func TestRadiance_ZeroDepthIsBlackOnHit(t *testing.T) {
	glass := material.MustDielectric(1.5)
	materials := map[string]material.Material{
		"lambertian": material.NewLambertian(core.NewVec3(0.9, 0.9, 0.9)),
		"metal":      material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0),
		"dielectric": glass,
		"absorbing":  absorbingMaterial{},
	}

	integrator := NewPathTracingIntegrator(0, skyBackground)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for name, mat := range materials {
		t.Run(name, func(t *testing.T) {
			world := geometry.NewHitableList(geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5, mat))
			got := integrator.Radiance(ray, world, core.NewSeededSampler(1))
			if got != (core.Vec3{}) {
				t.Errorf("Expected black at depth 0, got %v", got)
			}
		})
	}
}

func TestRadiance_AbsorbedIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator(5, skyBackground)
	world := geometry.NewHitableList(geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5, absorbingMaterial{}))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if got := integrator.Radiance(ray, world, core.NewSeededSampler(1)); got != (core.Vec3{}) {
		t.Errorf("Expected black for absorbed ray, got %v", got)
	}
}

func TestRadiance_MirrorAppliesAttenuation(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.4)
	integrator := NewPathTracingIntegrator(5, skyBackground)
	world := geometry.NewHitableList(geometry.MustSphere(core.NewVec3(0, 0, -2), 1, material.NewMetal(albedo, 0)))

	// Head-on hit reflects straight back toward +z and escapes
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	got := integrator.Radiance(ray, world, core.NewSeededSampler(1))

	escaped := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
	expected := albedo.MultiplyVec(skyBackground(escaped))
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestRadiance_BounceBudget(t *testing.T) {
	// A ray trapped inside a sphere that always scatters inward never escapes
	counter := &inwardMaterial{}
	world := geometry.NewHitableList(geometry.MustSphere(core.NewVec3(0, 0, 0), 10, counter))

	tests := []int{0, 1, 7, 20}
	for _, depth := range tests {
		counter.calls = 0
		integrator := NewPathTracingIntegrator(depth, skyBackground)
		got := integrator.Radiance(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, core.NewSeededSampler(3))

		if got != (core.Vec3{}) {
			t.Errorf("depth %d: enclosed ray should be black, got %v", depth, got)
		}
		// One scatter per bounce plus the one refused by the depth gate
		if counter.calls != depth+1 {
			t.Errorf("depth %d: expected %d scatters, got %d", depth, depth+1, counter.calls)
		}
	}
}

// dimMaterial scatters along the outward normal with a tiny albedo
type dimMaterial struct{}

func (dimMaterial) Scatter(_ core.Ray, hit material.HitRecord, _ core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{
		Scattered:   core.NewRay(hit.Point, hit.Normal),
		Attenuation: core.NewVec3(1e-9, 1e-9, 1e-9),
	}, true
}

func TestRadiance_TinyAttenuationKeepsBrightBackground(t *testing.T) {
	bright := core.NewVec3(1e12, 1e12, 1e12)
	integrator := NewPathTracingIntegrator(5, func(core.Ray) core.Vec3 { return bright })
	world := geometry.NewHitableList(geometry.MustSphere(core.NewVec3(0, 0, -2), 1, dimMaterial{}))

	got := integrator.Radiance(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, core.NewSeededSampler(1))
	expected := core.NewVec3(1e-9, 1e-9, 1e-9).MultiplyVec(bright)
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestRadiance_FiniteAndNonNegative(t *testing.T) {
	world := geometry.NewHitableList(
		geometry.MustSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
		geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.MustSphere(core.NewVec3(-1, 0, -1), 0.5, material.MustDielectric(1.5)),
		geometry.MustSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
	)
	integrator := NewPathTracingIntegrator(50, skyBackground)
	sampler := core.NewSeededSampler(99)

	for i := 0; i < 2000; i++ {
		dir := core.RandomUnitVector(sampler)
		c := integrator.Radiance(core.NewRay(core.NewVec3(0, 0, 0.5), dir), world, sampler)
		if !c.IsFinite() {
			t.Fatalf("Non-finite radiance %v", c)
		}
		if c.X < 0 || c.Y < 0 || c.Z < 0 || math.Max(c.X, math.Max(c.Y, c.Z)) > 1 {
			t.Fatalf("Radiance out of [0,1] for a [0,1] background: %v", c)
		}
	}
}

func TestNewPathTracingIntegrator_NilBackground(t *testing.T) {
	integrator := NewPathTracingIntegrator(3, nil)
	got := integrator.Radiance(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), geometry.NewHitableList(), core.NewSeededSampler(1))
	if got != (core.Vec3{}) {
		t.Errorf("Expected black background, got %v", got)
	}
	if integrator.MaxDepth() != 3 {
		t.Errorf("Expected max depth 3, got %d", integrator.MaxDepth())
	}
}
