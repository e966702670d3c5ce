package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// ErrNoCamera is returned when a scene is prepared without a camera
var ErrNoCamera = errors.New("scene has no camera")

// Scene contains all the elements needed for rendering.
// Build it, call Preprocess once, then treat it as read-only: workers share
// it without locking.
type Scene struct {
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	Shapes       []geometry.Shape // Objects in the scene
	Background   core.Background  // Radiance for rays that hit nothing
	UseBVH       bool             // Trace through a BVH instead of the flat list

	world geometry.Hitable
}

// AddSphere validates and appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) error {
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		return err
	}
	s.Shapes = append(s.Shapes, sphere)
	return nil
}

// Preprocess prepares the scene for rendering by building the traversal
// structure over Shapes. A missing background renders as black.
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		return ErrNoCamera
	}
	if s.Background == nil {
		s.Background = SolidBackground(core.Vec3{})
	}

	if s.UseBVH {
		s.world = geometry.NewBVH(s.Shapes)
		return nil
	}

	list := geometry.NewHitableList()
	for _, shape := range s.Shapes {
		list.Add(shape)
	}
	s.world = list
	return nil
}

// World returns the structure rays are traced against. It is nil until
// Preprocess has run.
func (s *Scene) World() geometry.Hitable {
	return s.world
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// String summarizes the scene for logs
func (s *Scene) String() string {
	return fmt.Sprintf("%d spheres, camera at %v looking at %v, bvh=%t",
		len(s.Shapes), s.CameraConfig.Center, s.CameraConfig.LookAt, s.UseBVH)
}

// newCamera builds the camera for a built-in scene, focusing on the look-at
// point when no focus distance is given
func newCamera(config geometry.CameraConfig) (*geometry.Camera, geometry.CameraConfig, error) {
	if config.FocusDistance == 0 {
		config.FocusDistance = config.Center.Subtract(config.LookAt).Length()
	}
	camera, err := geometry.NewCamera(config)
	if err != nil {
		return nil, config, err
	}
	return camera, config, nil
}
