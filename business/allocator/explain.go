package allocator

import (
	"fmt"
	"strings"

	"adPulse/domain"
)

// weight bands for the reason wording, plus the decay level worth calling out
const (
	ctrLedThreshold     = 0.7
	roasLedThreshold    = 0.7
	fatigueMentionBelow = 0.7
)

// buildRecommendation finishes one ad's output record: change math, the
// confidence value, and the reason naming the driver that actually decided
// the score.
func buildRecommendation(
	snap domain.AdSnapshot,
	bd domain.ScoreBreakdown,
	current float64,
	recommended float64,
	confidence float64,
	capped bool,
	degenerate bool,
) domain.BudgetRecommendation {
	changePct := 0.0
	if current > 0 {
		changePct = (recommended - current) / current * 100
	}

	return domain.BudgetRecommendation{
		AdID:              snap.AdID,
		CurrentBudget:     current,
		RecommendedBudget: recommended,
		ChangePercentage:  changePct,
		Confidence:        confidence,
		Reason:            buildReason(snap, bd, capped, degenerate),
		Breakdown:         bd,
	}
}

// buildReason names the dominant driver first, then any modifier that
// materially moved the score.
func buildReason(snap domain.AdSnapshot, bd domain.ScoreBreakdown, capped, degenerate bool) string {
	if degenerate {
		return "no impressions or spend recorded for any ad in the pool yet; budget split equally"
	}

	var parts []string

	switch {
	case bd.CTRWeight >= ctrLedThreshold:
		parts = append(parts, fmt.Sprintf(
			"early phase (%.0fh): CTR %.2f%% drives the score",
			snap.AgeHours, snap.CTR()*100))
	case bd.ROASWeight >= roasLedThreshold:
		parts = append(parts, fmt.Sprintf(
			"mature phase (%.0fh): pipeline ROAS %.2fx drives the score",
			snap.AgeHours, snap.ROAS()))
	default:
		parts = append(parts, fmt.Sprintf(
			"transitional phase (%.0fh): CTR weighted %.0f%%, pipeline ROAS %.0f%%",
			snap.AgeHours, bd.CTRWeight*100, bd.ROASWeight*100))
	}

	if bd.DecayFactor < fatigueMentionBelow {
		parts = append(parts, fmt.Sprintf(
			"fatigue discount %.2f after %d impressions", bd.DecayFactor, snap.Impressions))
	}

	if bd.DNABoost > 1.0 {
		parts = append(parts, fmt.Sprintf(
			"creative matches a winning pattern (+%.0f%% boost)", (bd.DNABoost-1)*100))
	}

	if capped {
		parts = append(parts, "change held at the per-cycle cap")
	}

	return strings.Join(parts, "; ")
}
