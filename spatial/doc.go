// SPDX-License-Identifier: EPL-2.0

// Package spatial maps a source's world position to what a voice needs:
// a position relative to the listener and an attenuated gain.
//
//	distance = |world - listener| / unitsPerDistance
//	gain     = clamp(1 - distance/maxDistance, 0, 1)
//
// With the defaults (max distance 5, one world unit per distance unit) a
// source at (5, 0, 0) is silent. A scene measured in pixels where 100 px is
// one unit uses WithUnitsPerDistance(100), and (500, 0, 0) is then silent.
package spatial
