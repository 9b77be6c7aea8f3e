// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"math"

	"github.com/ik5/orbscape/geom"
)

const (
	DefaultMaxDistance      = 5.0
	DefaultUnitsPerDistance = 1.0
)

// Updater receives computed spatial parameters. *engine.Registry is one.
type Updater interface {
	UpdateSpatial(key string, pos geom.Vec3, gain float32)
}

// Mapper turns world positions into listener-relative positions and gains.
// It keeps no per-source state.
type Mapper struct {
	updater          Updater
	listener         geom.Vec3
	maxDistance      float64
	unitsPerDistance float64
}

type Option func(*Mapper)

// WithListener places the listener. The default is the origin.
func WithListener(p geom.Vec3) Option {
	return func(m *Mapper) { m.listener = p }
}

// WithMaxDistance sets the distance, in distance units, at which sources
// become silent.
func WithMaxDistance(d float64) Option {
	return func(m *Mapper) { m.maxDistance = d }
}

// WithUnitsPerDistance sets how many world units make one distance unit,
// for scenes that work in pixels.
func WithUnitsPerDistance(u float64) Option {
	return func(m *Mapper) {
		if u > 0 && !math.IsInf(u, 0) {
			m.unitsPerDistance = u
		}
	}
}

func New(updater Updater, opts ...Option) *Mapper {
	m := &Mapper{
		updater:          updater,
		maxDistance:      DefaultMaxDistance,
		unitsPerDistance: DefaultUnitsPerDistance,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mapper) Listener() geom.Vec3  { return m.listener }
func (m *Mapper) MaxDistance() float64 { return m.maxDistance }

// Compute returns the listener-relative position, in distance units, and
// the gain for a source at world.
func (m *Mapper) Compute(world geom.Vec3) (geom.Vec3, float32) {
	rel := world.Sub(m.listener).Div(float32(m.unitsPerDistance))
	return rel, Attenuation(rel.Len(), m.maxDistance)
}

// ComputeAndApply forwards Compute's result for key to the updater.
func (m *Mapper) ComputeAndApply(key string, world geom.Vec3) {
	rel, gain := m.Compute(world)
	m.updater.UpdateSpatial(key, rel, gain)
}
