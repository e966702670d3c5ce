package core

import "math"

// Vec3 represents a 3D vector. It doubles as a linear RGB color where
// R, G and B alias X, Y and Z. No clamping is ever applied.
type Vec3 struct {
	X, Y, Z float64
}

// Color is a Vec3 interpreted as linear-light RGB.
type Color = Vec3

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewColor creates a color from its red, green and blue components
func NewColor(r, g, b float64) Color {
	return Vec3{X: r, Y: g, Z: b}
}

// R returns the red channel
func (v Vec3) R() float64 { return v.X }

// G returns the green channel
func (v Vec3) G() float64 { return v.Y }

// B returns the blue channel
func (v Vec3) B() float64 { return v.Z }

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// AddScalar adds t to every component
func (v Vec3) AddScalar(t float64) Vec3 {
	return Vec3{v.X + t, v.Y + t, v.Z + t}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

// Divide returns the vector divided by a scalar.
// Division by zero yields the zero vector.
func (v Vec3) Divide(scalar float64) Vec3 {
	if scalar == 0 {
		return Vec3{}
	}
	return Vec3{v.X / scalar, v.Y / scalar, v.Z / scalar}
}

// DivideVec returns component-wise division. A zero divisor component
// produces a zero result component.
func (v Vec3) DivideVec(other Vec3) Vec3 {
	return Vec3{
		X: safeDiv(v.X, other.X),
		Y: safeDiv(v.Y, other.Y),
		Z: safeDiv(v.Z, other.Z),
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// NearZero reports whether every component is within 1e-8 of zero
func (v Vec3) NearZero() bool {
	const s = 1e-8
	return math.Abs(v.X) < s && math.Abs(v.Y) < s && math.Abs(v.Z) < s
}

// IsFinite reports whether no component is NaN or infinite
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Reflect mirrors v about the normal n: v - 2·dot(v,n)·n
func Reflect(v, n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends v through a surface with normal n and relative index eta
// (incident over transmitted). The second return value is false on total
// internal reflection, i.e. when the discriminant is not positive.
func Refract(v, n Vec3, eta float64) (Vec3, bool) {
	d, uv, cosTheta := refractDiscriminant(v, n, eta)
	if d <= 0 {
		return Vec3{}, false
	}
	return uv.Subtract(n.Multiply(cosTheta)).Multiply(eta).Subtract(n.Multiply(math.Sqrt(d))), true
}

// RefractDiscriminant returns 1 - eta²·(1 - cos²θ) for the given direction and normal
func RefractDiscriminant(v, n Vec3, eta float64) float64 {
	d, _, _ := refractDiscriminant(v, n, eta)
	return d
}

func refractDiscriminant(v, n Vec3, eta float64) (d float64, uv Vec3, cosTheta float64) {
	uv = v.Normalize()
	cosTheta = uv.Dot(n)
	d = 1.0 - eta*eta*(1-cosTheta*cosTheta)
	return d, uv, cosTheta
}

// Lerp linearly interpolates from a to b: a·(1-t) + b·t
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Multiply(1.0 - t).Add(b.Multiply(t))
}

// Clamp returns a vector with components clamped to [min, max]
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: max(minVal, min(maxVal, v.X)),
		Y: max(minVal, min(maxVal, v.Y)),
		Z: max(minVal, min(maxVal, v.Z)),
	}
}

// GammaCorrect applies gamma correction to color values.
// Negative components are treated as zero.
func (v Vec3) GammaCorrect(gamma float64) Vec3 {
	invGamma := 1.0 / gamma
	return Vec3{
		X: math.Pow(math.Max(v.X, 0), invGamma),
		Y: math.Pow(math.Max(v.Y, 0), invGamma),
		Z: math.Pow(math.Max(v.Z, 0), invGamma),
	}
}
