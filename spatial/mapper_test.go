// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"math"
	"sync"
	"testing"

	"github.com/ik5/orbscape/geom"
)

type update struct {
	key  string
	pos  geom.Vec3
	gain float32
}

type recorder struct {
	mtx     sync.Mutex
	updates []update
}

func (r *recorder) UpdateSpatial(key string, pos geom.Vec3, gain float32) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.updates = append(r.updates, update{key, pos, gain})
}

func (r *recorder) last() update {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.updates[len(r.updates)-1]
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestAttenuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		distance float64
		max      float64
		want     float32
	}{
		{"at listener", 0, 5, 1},
		{"negative", -1, 5, 1},
		{"fifth", 1, 5, 0.8},
		{"half", 2.5, 5, 0.5},
		{"boundary", 5, 5, 0},
		{"beyond", 12, 5, 0},
		{"infinite", math.Inf(1), 5, 0},
		{"nan", math.NaN(), 5, 0},
		{"zero max", 0.1, 0, 0},
		{"zero max at listener", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Attenuation(tt.distance, tt.max); !approx(got, tt.want) {
				t.Errorf("Attenuation(%v, %v) = %v, want %v", tt.distance, tt.max, got, tt.want)
			}
		})
	}
}

func TestAttenuation_Monotonic(t *testing.T) {
	t.Parallel()

	const maxD = 5.0
	prev := Attenuation(0, maxD)
	for d := 0.01; d <= 2*maxD; d += 0.01 {
		g := Attenuation(d, maxD)
		if g > prev {
			t.Fatalf("gain rose from %v to %v at d=%v", prev, g, d)
		}
		if g < 0 || g > 1 {
			t.Fatalf("gain %v out of range at d=%v", g, d)
		}
		if d >= maxD && g != 0 {
			t.Fatalf("gain %v beyond max distance at d=%v", g, d)
		}
		prev = g
	}
}

func TestMapper_Defaults(t *testing.T) {
	t.Parallel()

	var rec recorder
	m := New(&rec)

	if m.MaxDistance() != DefaultMaxDistance || m.Listener() != geom.Origin {
		t.Errorf("defaults = %v/%v", m.MaxDistance(), m.Listener())
	}

	m.ComputeAndApply("orb2", geom.V(5, 0, 0))
	if u := rec.last(); u.key != "orb2" || u.gain != 0 || u.pos != geom.V(5, 0, 0) {
		t.Errorf("update = %+v, want orb2 at (5,0,0) gain 0", u)
	}

	m.ComputeAndApply("orb3", geom.V(0, 3, 4)) // distance 5
	if u := rec.last(); u.gain != 0 {
		t.Errorf("gain at distance 5 = %v, want 0", u.gain)
	}

	m.ComputeAndApply("orb4", geom.V(0, 0, 1))
	if u := rec.last(); !approx(u.gain, 0.8) {
		t.Errorf("gain at distance 1 = %v, want 0.8", u.gain)
	}
}

func TestMapper_PixelScale(t *testing.T) {
	t.Parallel()

	var rec recorder
	m := New(&rec, WithUnitsPerDistance(100), WithMaxDistance(5))

	tests := []struct {
		world   geom.Vec3
		wantPos geom.Vec3
		gain    float32
	}{
		{geom.V(500, 0, 0), geom.V(5, 0, 0), 0},
		{geom.V(250, 0, 0), geom.V(2.5, 0, 0), 0.5},
		{geom.V(0, -100, 0), geom.V(0, -1, 0), 0.8},
		{geom.Origin, geom.Origin, 1},
	}

	for _, tt := range tests {
		m.ComputeAndApply("orb", tt.world)
		u := rec.last()
		if u.pos != tt.wantPos || !approx(u.gain, tt.gain) {
			t.Errorf("ComputeAndApply(%v) = %v gain %v, want %v gain %v", tt.world, u.pos, u.gain, tt.wantPos, tt.gain)
		}
	}
}

func TestMapper_Listener(t *testing.T) {
	t.Parallel()

	var rec recorder
	m := New(&rec, WithListener(geom.V(10, 0, 0)))

	pos, gain := m.Compute(geom.V(10, 0, 0))
	if pos != geom.Origin || gain != 1 {
		t.Errorf("Compute(listener) = %v, %v, want origin, 1", pos, gain)
	}

	pos, gain = m.Compute(geom.V(12, 0, 0))
	if pos != geom.V(2, 0, 0) || !approx(gain, 0.6) {
		t.Errorf("Compute() = %v, %v, want (2,0,0), 0.6", pos, gain)
	}

	if len(rec.updates) != 0 {
		t.Error("Compute() called the updater")
	}
}

func TestWithUnitsPerDistance_IgnoresInvalid(t *testing.T) {
	t.Parallel()

	for _, u := range []float64{0, -3, math.Inf(1)} {
		m := New(&recorder{}, WithUnitsPerDistance(u))
		if pos, _ := m.Compute(geom.V(2, 0, 0)); pos != geom.V(2, 0, 0) {
			t.Errorf("WithUnitsPerDistance(%v): Compute() = %v, want unscaled", u, pos)
		}
	}
}

func BenchmarkMapper_ComputeAndApply(b *testing.B) {
	m := New(nopUpdater{}, WithUnitsPerDistance(100))
	p := geom.V(120, 40, -300)

	b.ReportAllocs()
	for range b.N {
		m.ComputeAndApply("orb", p)
	}
}

type nopUpdater struct{}

func (nopUpdater) UpdateSpatial(string, geom.Vec3, float32) {}
