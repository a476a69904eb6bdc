//go:build !integration

package allocator

import (
	"math"
	"strings"
	"testing"

	"adPulse/domain"
)

func TestCtrWeightPhaseBoundaries(t *testing.T) {
	cfg := DefaultConfig()

	for _, age := range []float64{0, 1, 3, 6} {
		if w := ctrWeight(age, cfg); w != 1.0 {
			t.Errorf("age %.1fh: ctr weight = %v, want 1.0", age, w)
		}
	}

	for _, age := range []float64{72, 96, 200, 1000} {
		w := ctrWeight(age, cfg)
		if w >= 0.3 {
			t.Errorf("age %.1fh: ctr weight = %v, want < 0.3", age, w)
		}
		if 1-w <= 0.7 {
			t.Errorf("age %.1fh: roas weight = %v, want > 0.7", age, 1-w)
		}
	}
}

func TestCtrWeightMonotonicDescent(t *testing.T) {
	cfg := DefaultConfig()

	prev := ctrWeight(0, cfg)
	for age := 0.5; age <= 120; age += 0.5 {
		w := ctrWeight(age, cfg)
		if w > prev {
			t.Fatalf("ctr weight increased from %v to %v at age %.1fh", prev, w, age)
		}
		prev = w
	}

	// strictly decreasing inside the ramp
	if ctrWeight(10, cfg) <= ctrWeight(40, cfg) {
		t.Errorf("ctr weight not strictly decreasing inside the ramp: w(10h)=%v w(40h)=%v",
			ctrWeight(10, cfg), ctrWeight(40, cfg))
	}
}

func TestWeightsSumToOne(t *testing.T) {
	cfg := DefaultConfig()

	for age := 0.0; age <= 150; age += 1.5 {
		bd := blendScore(domain.AdSnapshot{AdID: "a", AgeHours: age}, cfg)
		if diff := math.Abs(bd.CTRWeight + bd.ROASWeight - 1.0); diff > 1e-12 {
			t.Errorf("age %.1fh: weights sum to %v", age, bd.CTRWeight+bd.ROASWeight)
		}
	}
}

func TestNormalizeSignalClamps(t *testing.T) {
	cases := []struct {
		name    string
		raw     float64
		ceiling float64
		want    float64
	}{
		{"at ceiling", 0.05, 0.05, 1.0},
		{"half ceiling", 0.025, 0.05, 0.5},
		{"above ceiling clamps", 0.2, 0.05, 1.0},
		{"zero raw", 0, 0.05, 0},
		{"zero ceiling", 0.05, 0, 0},
	}

	for _, tc := range cases {
		if got := normalizeSignal(tc.raw, tc.ceiling); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("%s: normalizeSignal(%v, %v) = %v, want %v", tc.name, tc.raw, tc.ceiling, got, tc.want)
		}
	}
}

func TestBlendScoreZeroVolumeEdges(t *testing.T) {
	cfg := DefaultConfig()

	// zero impressions → normalized ctr 0
	bd := blendScore(domain.AdSnapshot{AdID: "a", AgeHours: 2, Spend: 10, PipelineValue: 40}, cfg)
	if bd.NormalizedCTR != 0 {
		t.Errorf("zero impressions: normalized ctr = %v, want 0", bd.NormalizedCTR)
	}

	// zero spend → normalized roas 0
	bd = blendScore(domain.AdSnapshot{AdID: "a", AgeHours: 96, Impressions: 1000, Clicks: 50}, cfg)
	if bd.NormalizedROAS != 0 {
		t.Errorf("zero spend: normalized roas = %v, want 0", bd.NormalizedROAS)
	}
}

func TestYoungAdScoredPurelyOnCTR(t *testing.T) {
	cfg := DefaultConfig()

	// 2h old, CTR 5% at the ceiling, weak ROAS that must not matter yet
	snap := domain.AdSnapshot{
		AdID:          "ad-early",
		AgeHours:      2,
		Impressions:   1000,
		Clicks:        50,
		Spend:         100,
		PipelineValue: 50,
	}

	bd := blendScore(snap, cfg)

	if bd.CTRWeight != 1.0 || bd.ROASWeight != 0.0 {
		t.Fatalf("weights = %v/%v, want 1.0/0.0", bd.CTRWeight, bd.ROASWeight)
	}
	if math.Abs(bd.BlendedScore-bd.NormalizedCTR) > 1e-12 {
		t.Errorf("blended = %v, want pure normalized ctr %v", bd.BlendedScore, bd.NormalizedCTR)
	}
	if bd.NormalizedCTR != 1.0 {
		t.Errorf("normalized ctr = %v, want 1.0 at the ceiling", bd.NormalizedCTR)
	}
}

func TestMatureAdScoredMostlyOnROAS(t *testing.T) {
	cfg := DefaultConfig()

	// 96h old with ROAS at the 4.0x ceiling
	snap := domain.AdSnapshot{
		AdID:          "ad-mature",
		AgeHours:      96,
		Impressions:   10000,
		Clicks:        100,
		Spend:         1000,
		PipelineValue: 4000,
	}

	bd := blendScore(snap, cfg)

	if bd.ROASWeight <= 0.7 {
		t.Fatalf("roas weight = %v, want > 0.7", bd.ROASWeight)
	}

	roasPart := bd.ROASWeight * bd.NormalizedROAS
	if roasPart <= bd.CTRWeight*bd.NormalizedCTR {
		t.Errorf("roas contribution %v not dominant over ctr contribution %v",
			roasPart, bd.CTRWeight*bd.NormalizedCTR)
	}
	if roasPart/bd.BlendedScore < 0.9 {
		t.Errorf("roas share of blended score = %v, want score driven mostly by roas",
			roasPart/bd.BlendedScore)
	}
}

func TestReasonNamesTheDominantDriver(t *testing.T) {
	cfg := DefaultConfig()

	early := domain.AdSnapshot{AdID: "a", AgeHours: 2, Impressions: 1000, Clicks: 50, Spend: 10, PipelineValue: 5}
	bdEarly := blendScore(early, cfg)
	bdEarly.DecayFactor = 1
	bdEarly.DNABoost = 1

	reason := buildReason(early, bdEarly, false, false)
	if !strings.Contains(reason, "CTR") || !strings.Contains(reason, "early") {
		t.Errorf("early-phase reason missing CTR language: %q", reason)
	}

	mature := domain.AdSnapshot{AdID: "b", AgeHours: 96, Impressions: 10000, Clicks: 100, Spend: 1000, PipelineValue: 4000}
	bdMature := blendScore(mature, cfg)
	bdMature.DecayFactor = 1
	bdMature.DNABoost = 1

	reason = buildReason(mature, bdMature, false, false)
	if !strings.Contains(reason, "ROAS") || !strings.Contains(reason, "mature") {
		t.Errorf("mature-phase reason missing ROAS language: %q", reason)
	}
}
