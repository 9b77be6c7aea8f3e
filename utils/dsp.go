// SPDX-License-Identifier: EPL-2.0

// Package utils holds sample-level helpers shared by decoders, the clip
// converter and the mixer.
package utils

// Clamp limits x to [lo, hi]. NaN maps to lo.
func Clamp(x, lo, hi float32) float32 {
	if x != x {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Float32ToInt16 converts a normalized sample to 16-bit PCM, clipping
// anything outside [-1, 1].
func Float32ToInt16(x float32) int16 {
	// 32767 on both sides keeps +1.0 from wrapping.
	return int16(Clamp(x, -1, 1) * 32767.0)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 for decoder output.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// CubicInterpolate evaluates a Catmull-Rom spline through y0..y3 at x, the
// fractional position between y1 (x=0) and y2 (x=1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return ((a0*x+a1)*x+a2)*x + y1
}
