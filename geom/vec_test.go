// SPDX-License-Identifier: EPL-2.0

package geom

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{name: "same point", a: V(1, 2, 3), b: V(1, 2, 3), want: 0},
		{name: "unit x", a: Origin, b: V(1, 0, 0), want: 1},
		{name: "3-4-5", a: V(3, 4, 0), b: Origin, want: 5},
		{name: "negative", a: V(-2, 0, 0), b: V(2, 0, 0), want: 4},
		{name: "all axes", a: V(1, 2, 2), b: Origin, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	t.Parallel()

	v := V(1, 2, 3)
	if got := v.Add(V(1, 1, 1)); got != V(2, 3, 4) {
		t.Errorf("Add() = %v, want (2,3,4)", got)
	}
	if got := v.Sub(V(1, 1, 1)); got != V(0, 1, 2) {
		t.Errorf("Sub() = %v, want (0,1,2)", got)
	}
	if got := v.Scale(0.5); got != V(0.5, 1, 1.5) {
		t.Errorf("Scale() = %v, want (0.5,1,1.5)", got)
	}
	if got := V(500, -250, 100).Div(100); got != V(5, -2.5, 1) {
		t.Errorf("Div() = %v, want (5,-2.5,1)", got)
	}
}
