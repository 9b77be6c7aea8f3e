// SPDX-License-Identifier: EPL-2.0

package spatial

import "math"

// Attenuation is the linear falloff used by the mapper: 1 at the listener,
// 0 at maxDistance and beyond. A non-positive maxDistance silences every
// source not exactly at the listener.
func Attenuation(distance, maxDistance float64) float32 {
	if distance <= 0 {
		return 1
	}
	if maxDistance <= 0 || math.IsNaN(distance) || distance >= maxDistance {
		return 0
	}
	return float32(1 - distance/maxDistance)
}
