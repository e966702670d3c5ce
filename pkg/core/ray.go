package core

import "math"

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Range is the open interval (Min, Max) of accepted ray parameters.
// Scene traversal narrows Max as closer hits are found.
type Range struct {
	Min, Max float64
}

// NewRange creates a range; callers must ensure min < max
func NewRange(min, max float64) Range {
	return Range{Min: min, Max: max}
}

// Forward is the range used for primary and scattered rays: everything in
// front of the origin beyond epsilon.
func Forward(epsilon float64) Range {
	return Range{Min: epsilon, Max: math.Inf(1)}
}

// Contains reports whether t lies strictly inside the range
func (r Range) Contains(t float64) bool {
	return t > r.Min && t < r.Max
}

// WithMax returns a copy of the range with its upper bound lowered to t
func (r Range) WithMax(t float64) Range {
	r.Max = t
	return r
}
