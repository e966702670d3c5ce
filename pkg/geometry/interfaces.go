package geometry

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// Hitable is anything a ray can be intersected with. Hit reports the
// intersection only when its parameter lies strictly inside limits.
type Hitable interface {
	Hit(ray core.Ray, limits core.Range) (material.HitRecord, bool)
}

// Shape is a Hitable with finite bounds, suitable for a BVH
type Shape interface {
	Hitable
	BoundingBox() core.AABB
}
