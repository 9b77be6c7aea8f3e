// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ik5/orbscape"
	"github.com/ik5/orbscape/geom"
)

var errBadOrb = errors.New("orb must look like key=clip or key=clip@x,y,z")

// defaultOrbPosition is one unit in front of the listener.
var defaultOrbPosition = geom.V(0, 0, -1)

type orb struct {
	key  string
	clip string
	pos  geom.Vec3
}

func parseOrb(s string) (orb, error) {
	key, rest, ok := strings.Cut(s, "=")
	if !ok || key == "" || rest == "" {
		return orb{}, fmt.Errorf("%w: %q", errBadOrb, s)
	}

	o := orb{key: key, clip: rest, pos: defaultOrbPosition}
	if i := strings.LastIndexByte(rest, '@'); i >= 0 {
		o.clip = rest[:i]
		pos, err := parseVec(rest[i+1:])
		if err != nil {
			return orb{}, fmt.Errorf("%w: %q: %w", errBadOrb, s, err)
		}
		o.pos = pos
	}
	if o.clip == "" {
		return orb{}, fmt.Errorf("%w: %q", errBadOrb, s)
	}
	return o, nil
}

func parseVec(s string) (geom.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Vec3{}, fmt.Errorf("position %q needs three components", s)
	}

	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("position %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return geom.V(v[0], v[1], v[2]), nil
}

func parseOrbs(specs []string) ([]orb, error) {
	orbs := make([]orb, 0, len(specs))
	seen := make(map[string]bool, len(specs))

	for _, s := range specs {
		o, err := parseOrb(s)
		if err != nil {
			return nil, err
		}
		if seen[o.key] {
			return nil, fmt.Errorf("orb key %q given twice", o.key)
		}
		seen[o.key] = true
		orbs = append(orbs, o)
	}
	return orbs, nil
}

// motion moves orbs over time. With orbit set every orb circles the
// listener around the vertical axis once per period.
type motion struct {
	orbit  bool
	period time.Duration
}

func (m motion) at(o orb, elapsed time.Duration) geom.Vec3 {
	if !m.orbit || m.period <= 0 {
		return o.pos
	}

	angle := 2 * math.Pi * float64(elapsed%m.period) / float64(m.period)
	sin, cos := math.Sincos(angle)
	x, z := float64(o.pos.X), float64(o.pos.Z)

	return geom.V(float32(x*cos-z*sin), o.pos.Y, float32(x*sin+z*cos))
}

func (m motion) apply(s *orbscape.Session, orbs []orb, elapsed time.Duration) {
	for _, o := range orbs {
		s.UpdateSpatial(o.key, m.at(o, elapsed))
	}
}

func startOrbs(ctx context.Context, s *orbscape.Session, orbs []orb) error {
	for _, o := range orbs {
		if err := s.RegisterAndPlay(ctx, o.key, o.clip); err != nil {
			return fmt.Errorf("starting orb %q: %w", o.key, err)
		}
		s.UpdateSpatial(o.key, o.pos)
	}
	return nil
}
