// SPDX-License-Identifier: EPL-2.0

// Package geom holds the small amount of 3D math the engine needs.
package geom

import "math"

// Vec3 is a point or direction in listener space.
type Vec3 struct {
	X, Y, Z float32
}

// Origin is the default listener position.
var Origin = Vec3{}

// V is shorthand for Vec3{x, y, z}.
func V(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale multiplies every component by f.
func (v Vec3) Scale(f float32) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

// Div divides every component by d.
func (v Vec3) Div(d float32) Vec3 { return Vec3{v.X / d, v.Y / d, v.Z / d} }

// Len returns the euclidean length, computed in float64.
func (v Vec3) Len() float64 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vec3) float64 { return a.Sub(b).Len() }
