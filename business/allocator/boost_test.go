//go:build !integration

package allocator

import (
	"math"
	"testing"
)

func TestDNABoostBounds(t *testing.T) {
	cases := []struct {
		name string
		sim  float64
		ok   bool
		want float64
	}{
		{"no entry", 0, false, 1.0},
		{"zero similarity", 0, true, 1.0},
		{"strong match", 0.95, true, 1.19},
		{"perfect match", 1.0, true, 1.2},
		{"half match", 0.5, true, 1.1},
		{"negative clamps to no boost", -0.3, true, 1.0},
		{"above one clamps to max", 1.5, true, 1.2},
	}

	for _, tc := range cases {
		got := dnaBoost(tc.sim, tc.ok)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: dnaBoost(%v, %v) = %v, want %v", tc.name, tc.sim, tc.ok, got, tc.want)
		}
		if got < 1.0 || got > 1.2 {
			t.Errorf("%s: boost %v outside [1.0, 1.2]", tc.name, got)
		}
	}
}
