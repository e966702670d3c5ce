package material

import (
	"math"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func TestLambertian_AlwaysScatters(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewSeededSampler(42)

	normal := core.NewVec3(0, 0, 1)
	hit := HitRecord{
		Point:    core.NewVec3(1, 2, 3),
		Normal:   normal,
		T:        1,
		Material: lambertian,
	}
	ray := core.NewRay(core.NewVec3(1, 2, 4), core.NewVec3(0, 0, -1))

	for i := 0; i < 100; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if scatter.Attenuation != albedo {
			t.Errorf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}
		if scatter.Scattered.Origin != hit.Point {
			t.Errorf("Scattered ray should start at the hit point, got %v", scatter.Scattered.Origin)
		}

		// direction = normal + unit vector
		offset := scatter.Scattered.Direction.Subtract(normal).Length()
		if math.Abs(offset-1) > 1e-9 {
			t.Errorf("Expected |direction - normal| = 1, got %f", offset)
		}
	}
}

func TestLambertian_DegenerateDirectionFallsBackToNormal(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	normal := core.NewVec3(0, 0, 1)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal, Material: lambertian}

	// (1, 0) maps to the south pole (0,0,-1), cancelling the normal
	sampler := fixedSampler{pair: core.NewVec2(1, 0)}

	scatter, didScatter := lambertian.Scatter(core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)), hit, sampler)
	if !didScatter {
		t.Fatal("Lambertian should always scatter")
	}
	if scatter.Scattered.Direction != normal {
		t.Errorf("Expected fallback direction %v, got %v", normal, scatter.Scattered.Direction)
	}
}
