//go:build !integration

package allocator

import "testing"

func TestConfidenceRange(t *testing.T) {
	cases := []struct {
		impressions int64
		ageHours    float64
	}{
		{0, 0},
		{100, 1},
		{5000, 48},
		{1000000, 10000},
		{-5, -2}, // clamped, not panicking
	}

	for _, tc := range cases {
		c := confidenceScore(tc.impressions, tc.ageHours)
		if c < 0 || c >= 1 {
			t.Errorf("confidence(%d, %.1f) = %v, outside [0,1)", tc.impressions, tc.ageHours, c)
		}
	}
}

func TestConfidenceMonotonicInImpressions(t *testing.T) {
	const age = 24.0

	prev := confidenceScore(0, age)
	for _, impressions := range []int64{10, 100, 1000, 5000, 20000, 100000} {
		c := confidenceScore(impressions, age)
		if c < prev {
			t.Fatalf("confidence dropped from %v to %v at %d impressions", prev, c, impressions)
		}
		prev = c
	}
}

func TestConfidenceMonotonicInAge(t *testing.T) {
	const impressions = 2000

	prev := confidenceScore(impressions, 0)
	for _, age := range []float64{1, 6, 12, 24, 48, 96, 240} {
		c := confidenceScore(impressions, age)
		if c < prev {
			t.Fatalf("confidence dropped from %v to %v at age %.1fh", prev, c, age)
		}
		prev = c
	}
}

func TestConfidenceGrowsWithBothSignals(t *testing.T) {
	low := confidenceScore(100, 2)
	high := confidenceScore(50000, 120)

	if high <= low {
		t.Errorf("confidence with volume and age (%v) not above a fresh thin ad (%v)", high, low)
	}
	if high < 0.9 {
		t.Errorf("well-seasoned ad confidence = %v, want near 1", high)
	}
	if low > 0.1 {
		t.Errorf("fresh thin ad confidence = %v, want near 0", low)
	}
}
