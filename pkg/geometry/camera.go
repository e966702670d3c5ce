package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ErrInvalidCamera is returned for camera parameters that cannot form a view
var ErrInvalidCamera = errors.New("invalid camera configuration")

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look origin)
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually 0,1,0)
	VFov          float64   // Vertical field of view in degrees, in (0, 180)
	AspectRatio   float64   // Width / height, > 0
	Aperture      float64   // Lens diameter; 0 is a pinhole
	FocusDistance float64   // Distance to the plane in perfect focus, > 0
}

// Camera is a thin-lens camera. It is immutable after construction and
// safe to share between render workers.
type Camera struct {
	origin     core.Vec3
	corner     core.Vec3 // lower-left corner of the view plane
	horizontal core.Vec3
	vertical   core.Vec3
	u, v, w    core.Vec3
	lensRadius float64
}

// NewCamera validates config and derives the view plane
func NewCamera(config CameraConfig) (*Camera, error) {
	if !(config.AspectRatio > 0) {
		return nil, fmt.Errorf("aspect ratio %v: %w", config.AspectRatio, ErrInvalidCamera)
	}
	if !(config.FocusDistance > 0) {
		return nil, fmt.Errorf("focus distance %v: %w", config.FocusDistance, ErrInvalidCamera)
	}
	if !(config.VFov > 0 && config.VFov < 180) {
		return nil, fmt.Errorf("field of view %v: %w", config.VFov, ErrInvalidCamera)
	}
	if config.Aperture < 0 {
		return nil, fmt.Errorf("aperture %v: %w", config.Aperture, ErrInvalidCamera)
	}

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	if w.NearZero() || u.NearZero() {
		return nil, fmt.Errorf("degenerate view basis (center %v, look at %v, up %v): %w",
			config.Center, config.LookAt, config.Up, ErrInvalidCamera)
	}
	v := w.Cross(u)

	theta := config.VFov * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	halfWidth := config.AspectRatio * halfHeight
	tw := halfWidth * config.FocusDistance
	th := halfHeight * config.FocusDistance

	return &Camera{
		origin: config.Center,
		corner: config.Center.
			Subtract(u.Multiply(tw)).
			Subtract(v.Multiply(th)).
			Subtract(w.Multiply(config.FocusDistance)),
		horizontal: u.Multiply(2 * tw),
		vertical:   v.Multiply(2 * th),
		u:          u,
		v:          v,
		w:          w,
		lensRadius: config.Aperture / 2,
	}, nil
}

// MustCamera is NewCamera for literal scene definitions; it panics on error
func MustCamera(config CameraConfig) *Camera {
	c, err := NewCamera(config)
	if err != nil {
		panic(err)
	}
	return c
}

// GetRay generates a ray for view-plane coordinates (s, t) in [0,1],
// where (0,0) is the lower-left corner. The origin is jittered across the
// lens disk for depth of field.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	disk := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
	offset := c.u.Multiply(disk.X).Add(c.v.Multiply(disk.Y))
	origin := c.origin.Add(offset)

	direction := c.corner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin).
		Subtract(offset)

	return core.NewRay(origin, direction)
}

// LensRadius returns aperture / 2
func (c *Camera) LensRadius() float64 {
	return c.lensRadius
}
