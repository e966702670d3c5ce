package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func TestNewDielectric_Validation(t *testing.T) {
	tests := []struct {
		name      string
		index     float64
		expectErr bool
	}{
		{"glass", 1.5, false},
		{"below one", 0.5, false},
		{"zero", 0, true},
		{"negative", -1.5, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDielectric(tt.index)
			if tt.expectErr {
				if !errors.Is(err, ErrInvalidRefractiveIndex) {
					t.Errorf("Expected ErrInvalidRefractiveIndex, got %v", err)
				}
				if d != nil {
					t.Errorf("Expected nil material on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
		})
	}
}

func TestDielectric_AlwaysScattersWithWhiteAttenuation(t *testing.T) {
	glass := MustDielectric(1.5)
	sampler := core.NewSeededSampler(42)
	hit := HitRecord{
		Point:    core.NewVec3(0, 0, 0),
		Normal:   core.NewVec3(0, 1, 0),
		T:        1.0,
		Material: glass,
	}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0))

	for i := 0; i < 100; i++ {
		result, scattered := glass.Scatter(ray, hit, sampler)
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Attenuation != core.NewVec3(1, 1, 1) {
			t.Fatalf("Expected white attenuation, got %v", result.Attenuation)
		}
	}
}

func TestDielectric_NormalIncidenceChoosesBySchlick(t *testing.T) {
	glass := MustDielectric(1.5)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Material: glass}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	// r0 = ((1 - 1/1.5) / (1 + 1/1.5))^2 = 0.04
	r0 := Reflectance(1, 1/1.5)
	if math.Abs(r0-0.04) > 1e-12 {
		t.Fatalf("Expected r0 = 0.04, got %f", r0)
	}

	tests := []struct {
		name     string
		draw     float64
		expected core.Vec3
	}{
		{"draw above reflectance refracts", 0.5, core.NewVec3(0, -1, 0)},
		{"draw below reflectance reflects", 0.01, core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := glass.Scatter(ray, hit, fixedSampler{value: tt.draw})
			got := result.Scattered.Direction
			if got.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := MustDielectric(1.5)

	// Leaving the glass at a grazing angle: dot(direction, normal) > 0
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Material: glass}
	ray := core.NewRay(core.NewVec3(-1, -0.1, 0), core.NewVec3(1, 0.1, 0))

	// Any draw must reflect
	for _, draw := range []float64{0, 0.5, 0.999} {
		result, scattered := glass.Scatter(ray, hit, fixedSampler{value: draw})
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		expected := core.NewVec3(1, -0.1, 0)
		if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
			t.Errorf("draw %f: expected reflected %v, got %v", draw, expected, result.Scattered.Direction)
		}
	}
}

func TestDielectric_ZeroDirectionStaysFinite(t *testing.T) {
	glass := MustDielectric(1.5)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Material: glass}
	result, _ := glass.Scatter(core.NewRay(core.NewVec3(0, 1, 0), core.Vec3{}), hit, core.NewSeededSampler(1))
	if !result.Scattered.Direction.IsFinite() {
		t.Errorf("Expected finite direction, got %v", result.Scattered.Direction)
	}
}
