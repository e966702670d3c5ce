package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func defaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          90,
		AspectRatio:   1,
		Aperture:      0,
		FocusDistance: 1,
	}
}

func TestNewCamera_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
	}{
		{"zero aspect", func(c *CameraConfig) { c.AspectRatio = 0 }},
		{"negative aspect", func(c *CameraConfig) { c.AspectRatio = -1 }},
		{"zero focus distance", func(c *CameraConfig) { c.FocusDistance = 0 }},
		{"negative focus distance", func(c *CameraConfig) { c.FocusDistance = -2 }},
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }},
		{"straight fov", func(c *CameraConfig) { c.VFov = 180 }},
		{"negative aperture", func(c *CameraConfig) { c.Aperture = -0.1 }},
		{"looking at itself", func(c *CameraConfig) { c.LookAt = c.Center }},
		{"up parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultCameraConfig()
			tt.modify(&config)
			camera, err := NewCamera(config)
			if !errors.Is(err, ErrInvalidCamera) {
				t.Errorf("Expected ErrInvalidCamera, got %v", err)
			}
			if camera != nil {
				t.Error("Expected nil camera on error")
			}
		})
	}
}

func TestCamera_BasisMatchesLookAt(t *testing.T) {
	config := CameraConfig{
		Center:        core.NewVec3(18, 3, 4),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          10,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.1,
		FocusDistance: 10,
	}
	camera := MustCamera(config)

	view := mgl64.LookAtV(
		mgl64.Vec3{config.Center.X, config.Center.Y, config.Center.Z},
		mgl64.Vec3{config.LookAt.X, config.LookAt.Y, config.LookAt.Z},
		mgl64.Vec3{config.Up.X, config.Up.Y, config.Up.Z},
	)

	// Rows of the view matrix are the camera's right, up and backward axes
	for i, axis := range []core.Vec3{camera.u, camera.v, camera.w} {
		row := view.Row(i).Vec3()
		expected := core.NewVec3(row[0], row[1], row[2])
		if axis.Subtract(expected).Length() > 1e-9 {
			t.Errorf("Axis %d: expected %v, got %v", i, expected, axis)
		}
	}

	if camera.LensRadius() != 0.05 {
		t.Errorf("Expected lens radius 0.05, got %f", camera.LensRadius())
	}
}

func TestCamera_GetRay_Pinhole(t *testing.T) {
	camera := MustCamera(defaultCameraConfig())
	sampler := core.NewSeededSampler(42)

	tests := []struct {
		name     string
		s, t     float64
		expected core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-1, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(1, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, sampler)
			if ray.Origin != (core.Vec3{}) {
				t.Errorf("Pinhole rays should start at the camera center, got %v", ray.Origin)
			}
			if ray.Direction.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCamera_GetRay_ThinLensConvergesOnFocusPlane(t *testing.T) {
	config := defaultCameraConfig()
	config.Aperture = 0.5
	config.FocusDistance = 3
	camera := MustCamera(config)
	sampler := core.NewSeededSampler(3)

	// Every ray through the same (s,t) meets at the same point on the focus plane
	focusPoint := core.NewVec3(0, 0, -3)
	for i := 0; i < 100; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)
		if math.Hypot(ray.Origin.X, ray.Origin.Y) > 0.25+1e-9 || ray.Origin.Z != 0 {
			t.Fatalf("Ray origin outside lens: %v", ray.Origin)
		}
		if ray.At(1).Subtract(focusPoint).Length() > 1e-9 {
			t.Fatalf("Expected ray to pass through %v, got %v", focusPoint, ray.At(1))
		}
	}
}
