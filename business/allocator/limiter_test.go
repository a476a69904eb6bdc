//go:build !integration

package allocator

import (
	"math"
	"testing"

	"adPulse/domain"
)

func sumOf(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}

func TestLimiterSingleAdHitsTheCap(t *testing.T) {
	// softmax wants to hand the whole 250 to the only ad; the cap holds it
	// at 150 and the rest stays unplaced
	budgets, capped, residual := limitChangeRate(
		[]float64{250}, []float64{100}, []float64{1.0}, 250, 0.5)

	if budgets[0] != 150 {
		t.Errorf("budget = %v, want capped at 150", budgets[0])
	}
	if !capped[0] {
		t.Error("ad not marked capped")
	}
	if math.Abs(residual-100) > 0.01 {
		t.Errorf("residual = %v, want 100", residual)
	}
	if math.Abs(sumOf(budgets)+residual-250) > 0.01 {
		t.Errorf("budgets %v + residual %v do not account for the total", budgets, residual)
	}
}

func TestLimiterLeavesInBandAllocationsAlone(t *testing.T) {
	raw := []float64{120, 100, 80}
	budgets, capped, residual := limitChangeRate(
		raw, []float64{100, 100, 100}, []float64{0.6, 0.5, 0.4}, 300, 0.5)

	for i := range raw {
		if budgets[i] != raw[i] {
			t.Errorf("ad %d moved from %v to %v with no cap binding", i, raw[i], budgets[i])
		}
		if capped[i] {
			t.Errorf("ad %d marked capped with no cap binding", i)
		}
	}
	if residual != 0 {
		t.Errorf("residual = %v, want 0", residual)
	}
}

func TestLimiterRedistributesSurplusAndShortfall(t *testing.T) {
	// ad0 clipped down to 150, ad2 lifted to 50; the displaced budget lands
	// on the one ad still free to move
	budgets, capped, residual := limitChangeRate(
		[]float64{200, 60, 40}, []float64{100, 100, 100}, []float64{0.8, 0.5, 0.3}, 300, 0.5)

	want := []float64{150, 100, 50}
	for i := range want {
		if math.Abs(budgets[i]-want[i]) > 0.01 {
			t.Errorf("ad %d budget = %v, want %v", i, budgets[i], want[i])
		}
	}
	if !capped[0] || capped[1] || !capped[2] {
		t.Errorf("capped flags = %v, want [true false true]", capped)
	}
	if residual != 0 {
		t.Errorf("residual = %v, want 0", residual)
	}
	if math.Abs(sumOf(budgets)-300) > 0.01 {
		t.Errorf("budgets sum to %v, want 300", sumOf(budgets))
	}
}

func TestLimiterCascadeTerminatesWithResidual(t *testing.T) {
	// redistribution pushes the middle ad past its own cap, second pass pins
	// it, nothing is left free and the leftover is reported
	budgets, _, residual := limitChangeRate(
		[]float64{300, 80, 20}, []float64{100, 100, 100}, []float64{0.9, 0.6, 0.2}, 400, 0.5)

	want := []float64{150, 150, 50}
	for i := range want {
		if math.Abs(budgets[i]-want[i]) > 0.01 {
			t.Errorf("ad %d budget = %v, want %v", i, budgets[i], want[i])
		}
	}
	if math.Abs(residual-50) > 0.01 {
		t.Errorf("residual = %v, want 50", residual)
	}
	if math.Abs(sumOf(budgets)+residual-400) > 0.01 {
		t.Errorf("budgets %v + residual %v do not account for the total", budgets, residual)
	}
}

func TestLimiterShortfallPulledFromFreeAds(t *testing.T) {
	budgets, capped, residual := limitChangeRate(
		[]float64{10, 140, 150}, []float64{100, 100, 100}, []float64{0.1, 0.5, 0.6}, 300, 0.5)

	if !capped[0] || budgets[0] != 50 {
		t.Errorf("ad 0 = %v capped=%v, want lifted to its floor of 50", budgets[0], capped[0])
	}
	if residual != 0 {
		t.Errorf("residual = %v, want 0", residual)
	}
	if math.Abs(sumOf(budgets)-300) > 0.01 {
		t.Errorf("budgets sum to %v, want 300", sumOf(budgets))
	}
	// the ad that was asked to give up more is the higher-scored one
	if (140-budgets[1])/0.5 <= 0 || math.Abs((140-budgets[1])/0.5-(150-budgets[2])/0.6) > 0.01 {
		t.Errorf("shortfall not proportional to score: %v", budgets)
	}
}

func TestLimiterTotalBelowTheFloors(t *testing.T) {
	// every lower bound exceeds its share of the total; the caps win and the
	// overcommitment is reported as a negative residual
	budgets, _, residual := limitChangeRate(
		[]float64{10, 10}, []float64{100, 100}, []float64{0.5, 0.5}, 20, 0.5)

	if budgets[0] != 50 || budgets[1] != 50 {
		t.Errorf("budgets = %v, want both held at the 50 floor", budgets)
	}
	if math.Abs(residual-(-80)) > 0.01 {
		t.Errorf("residual = %v, want -80", residual)
	}
}

func TestLimiterDisabledPassesThrough(t *testing.T) {
	raw := []float64{260, 40}
	budgets, capped, residual := limitChangeRate(
		raw, []float64{100, 100}, []float64{0.9, 0.1}, 300, 0)

	for i := range raw {
		if budgets[i] != raw[i] {
			t.Errorf("ad %d budget = %v, want untouched %v", i, budgets[i], raw[i])
		}
		if capped[i] {
			t.Errorf("ad %d marked capped with the limiter disabled", i)
		}
	}
	if residual != 0 {
		t.Errorf("residual = %v, want 0", residual)
	}
}

func TestCurrentBudgetsDefaultToEqualSplit(t *testing.T) {
	snaps := []domain.AdSnapshot{{AdID: "a"}, {AdID: "b"}, {AdID: "c"}}

	cases := []struct {
		name     string
		supplied map[string]float64
		want     []float64
	}{
		{"nil map", nil, []float64{100, 100, 100}},
		{"partial map", map[string]float64{"a": 180}, []float64{180, 100, 100}},
		{"non-positive treated as unset", map[string]float64{"a": 0, "b": -20, "c": 90}, []float64{100, 100, 90}},
	}

	for _, tc := range cases {
		got := currentBudgets(snaps, tc.supplied, 300)
		for i := range tc.want {
			if math.Abs(got[i]-tc.want[i]) > 1e-9 {
				t.Errorf("%s: budgets = %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}
}
