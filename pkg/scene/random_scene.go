package scene

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// NewRandomScene creates the classic "random spheres" world: a huge ground
// sphere, three large feature spheres and a grid of small spheres whose
// positions and materials come from seed.
func NewRandomScene(aspectRatio float64, seed int64) (*Scene, error) {
	camera, cameraConfig, err := newCamera(geometry.CameraConfig{
		Center:      core.NewVec3(18, 3, 4),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        10,
		AspectRatio: aspectRatio,
		Aperture:    0.1,
	})
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Camera:       camera,
		CameraConfig: cameraConfig,
		Background:   DefaultSky(),
		UseBVH:       true,
	}

	glass, err := material.NewDielectric(1.5)
	if err != nil {
		return nil, err
	}

	// Ground
	s.Shapes = append(s.Shapes,
		geometry.MustSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	// Large spheres
	s.Shapes = append(s.Shapes,
		geometry.MustSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.8, 0.6, 0.5), 0)),
		geometry.MustSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.33, 0.33, 0.33))),
		geometry.MustSphere(core.NewVec3(0, 1, 0), 1.0, glass),
	)

	// Small spheres, kept clear of the metal sphere
	sampler := core.NewSeededSampler(seed)
	anchor := core.NewVec3(4, 0.2, 0)
	for z := -3; z < 3; z++ {
		for x := -8; x < 8; x++ {
			center := core.NewVec3(
				float64(x)+core.RandomInRange(sampler, -0.5, 0.5)*0.9,
				0.2,
				float64(z)+core.RandomInRange(sampler, -0.5, 0.5)*0.9,
			)
			if center.Subtract(anchor).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch m := sampler.Get1D(); {
			case m > 0.2:
				mat = material.NewLambertian(core.RandomVec3InRange(sampler, 0.2, 0.8))
			case m > 0.1:
				mat = material.NewMetal(core.RandomVec3InRange(sampler, 0.2, 0.8), 0)
			default:
				mat = glass
			}

			if err := s.AddSphere(center, 0.2, mat); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}
