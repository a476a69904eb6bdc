package allocator

import (
	"fmt"

	"adPulse/domain"
)

// AllocationInput is everything one budget pass needs. The core holds no
// state between calls; current budgets and similarity scores arrive as
// explicit inputs.
type AllocationInput struct {
	Snapshots   []domain.AdSnapshot
	TotalBudget float64

	// optional; ads without a positive entry default to an equal split
	CurrentBudgets map[string]float64

	// optional; creative-similarity scores per ad, absence means no boost
	Similarities map[string]float64
}

type AllocationResult struct {
	Recommendations   []domain.BudgetRecommendation
	Skipped           []domain.SkippedAd
	UnallocatedBudget float64
	Degenerate        bool
}

// Allocate runs one full budget pass over a batch of snapshots:
// Score → Decay → Boost → Confidence → Softmax → Limit → Explain,
// strictly in that order. Pure computation, no I/O.
func Allocate(input AllocationInput, cfg Config) (AllocationResult, error) {
	if input.TotalBudget <= 0 {
		return AllocationResult{}, fmt.Errorf("%w: got %.2f", ErrNonPositiveBudget, input.TotalBudget)
	}
	if len(input.Snapshots) == 0 {
		return AllocationResult{}, ErrEmptyBatch
	}

	valid := make([]domain.AdSnapshot, 0, len(input.Snapshots))
	var skipped []domain.SkippedAd
	for _, snap := range input.Snapshots {
		if err := validateSnapshot(snap); err != nil {
			if cfg.InvalidPolicy == FailBatch {
				return AllocationResult{}, err
			}
			skipped = append(skipped, domain.SkippedAd{AdID: snap.AdID, Reason: err.Error()})
			continue
		}
		valid = append(valid, snap)
	}
	if len(valid) == 0 {
		return AllocationResult{Skipped: skipped}, fmt.Errorf("no valid snapshots in batch: %w", ErrEmptyBatch)
	}

	// degenerate batch: no impressions and no spend anywhere. The all-zero
	// scores fall through the softmax as an equal split; the flag is for
	// callers and the reason text.
	degenerate := true
	for _, snap := range valid {
		if snap.Impressions > 0 || snap.Spend > 0 {
			degenerate = false
			break
		}
	}

	breakdowns := make([]domain.ScoreBreakdown, len(valid))
	scores := make([]float64, len(valid))
	confidences := make([]float64, len(valid))
	for i, snap := range valid {
		bd := blendScore(snap, cfg)
		bd.DecayFactor = decayFactor(snap.Impressions, cfg.DecayConstant)

		sim, ok := input.Similarities[snap.AdID]
		bd.DNABoost = dnaBoost(sim, ok)

		bd.FinalScore = bd.BlendedScore * bd.DecayFactor * bd.DNABoost

		breakdowns[i] = bd
		scores[i] = bd.FinalScore
		confidences[i] = confidenceScore(snap.Impressions, snap.AgeHours)
	}

	shares := softmaxShares(scores, cfg.Temperature)
	raw := make([]float64, len(valid))
	for i, share := range shares {
		raw[i] = input.TotalBudget * share
	}

	current := currentBudgets(valid, input.CurrentBudgets, input.TotalBudget)
	budgets, capped, residual := limitChangeRate(raw, current, scores, input.TotalBudget, cfg.MaxBudgetChangePct)

	recs := make([]domain.BudgetRecommendation, len(valid))
	for i, snap := range valid {
		recs[i] = buildRecommendation(snap, breakdowns[i], current[i], budgets[i], confidences[i], capped[i], degenerate)
	}

	return AllocationResult{
		Recommendations:   recs,
		Skipped:           skipped,
		UnallocatedBudget: residual,
		Degenerate:        degenerate,
	}, nil
}
