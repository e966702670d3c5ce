package scene

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// NewThreeSpheresScene creates a row of lambertian, metal and glass spheres
// resting on a large ground sphere
func NewThreeSpheresScene(aspectRatio float64) (*Scene, error) {
	camera, cameraConfig, err := newCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0.5, 1.5),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        50,
		AspectRatio: aspectRatio,
	})
	if err != nil {
		return nil, err
	}

	glass, err := material.NewDielectric(1.5)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Camera:       camera,
		CameraConfig: cameraConfig,
		Background:   DefaultSky(),
	}

	spheres := []struct {
		center core.Vec3
		radius float64
		mat    material.Material
	}{
		{core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8))},
		{core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))},
		{core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.2)},
		{core.NewVec3(-1, 0, -1), 0.5, glass},
	}
	for _, sp := range spheres {
		if err := s.AddSphere(sp.center, sp.radius, sp.mat); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NewSingleSphereScene creates a grey lambertian sphere of radius 0.5 at
// (0,0,-1) seen by a pinhole camera at the origin with a 90 degree view
func NewSingleSphereScene(aspectRatio float64, background core.Background) (*Scene, error) {
	s, err := newFrontCamera(aspectRatio, background)
	if err != nil {
		return nil, err
	}
	if err := s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))); err != nil {
		return nil, err
	}
	return s, nil
}

// NewEmptyScene creates a scene with no geometry; every ray sees background
func NewEmptyScene(aspectRatio float64, background core.Background) (*Scene, error) {
	return newFrontCamera(aspectRatio, background)
}

func newFrontCamera(aspectRatio float64, background core.Background) (*Scene, error) {
	if background == nil {
		background = DefaultSky()
	}
	camera, cameraConfig, err := newCamera(geometry.CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          90,
		AspectRatio:   aspectRatio,
		FocusDistance: 1,
	})
	if err != nil {
		return nil, err
	}
	return &Scene{
		Camera:       camera,
		CameraConfig: cameraConfig,
		Background:   background,
	}, nil
}
