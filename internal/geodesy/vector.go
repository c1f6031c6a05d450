// ABOUTME: Minimal 3D vector arithmetic
// ABOUTME: Used by the plane-section projection onto a target line

package geodesy

import "math"

// Vector is a 3D cartesian vector in meters.
type Vector struct {
	X, Y, Z float64
}

// Cross returns v × o.
func (v Vector) Cross(o Vector) Vector {
	return Vector{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Dot returns v · o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * k.
func (v Vector) Scale(k float64) Vector {
	return Vector{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Norm returns the euclidean length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to length 1. The zero vector yields NaN components.
func (v Vector) Unit() Vector {
	return v.Scale(1 / v.Norm())
}
