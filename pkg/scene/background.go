package scene

import "github.com/df07/go-tile-raytracer/pkg/core"

// Sky colors of the classic gradient
var (
	SkyHorizon = core.NewVec3(1.0, 1.0, 1.0)
	SkyZenith  = core.NewVec3(0.5, 0.7, 1.0)
)

// SkyGradient blends from bottom to top by the height of the normalized ray
// direction, t = 0.5*(dir.y+1)
func SkyGradient(bottom, top core.Vec3) core.Background {
	return func(ray core.Ray) core.Vec3 {
		unitDirection := ray.Direction.Normalize()
		t := 0.5 * (unitDirection.Y + 1.0)
		return core.Lerp(bottom, top, t)
	}
}

// DefaultSky is the white-to-blue sky gradient
func DefaultSky() core.Background {
	return SkyGradient(SkyHorizon, SkyZenith)
}

// SolidBackground returns the same color for every ray
func SolidBackground(color core.Vec3) core.Background {
	return func(core.Ray) core.Vec3 {
		return color
	}
}
