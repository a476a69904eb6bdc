package allocator

import (
	"math"

	"adPulse/domain"
)

const residualEpsilon = 1e-9

// currentBudgets resolves the caller-supplied budget map. Ads without a
// positive entry default to an equal split of the total.
func currentBudgets(snaps []domain.AdSnapshot, supplied map[string]float64, total float64) []float64 {
	equal := total / float64(len(snaps))

	out := make([]float64, len(snaps))
	for i, snap := range snaps {
		cur, ok := supplied[snap.AdID]
		if !ok || cur <= 0 {
			cur = equal
		}
		out[i] = cur
	}

	return out
}

// limitChangeRate clips each raw allocation into its per-cycle change band
// around the current budget and redistributes whatever the clips displaced
// among the still-unclipped ads, proportionally by final score. A
// redistribution can push another ad past its own bound, so the procedure
// iterates to a fixed point; every non-terminating pass pins at least one
// more ad, which bounds the loop. Budget the caps refuse to place comes back
// as the residual (negative when lower bounds force more spend than the
// total allows).
func limitChangeRate(raw, current, scores []float64, totalBudget, maxChangePct float64) ([]float64, []bool, float64) {
	n := len(raw)
	budgets := make([]float64, n)
	copy(budgets, raw)
	capped := make([]bool, n)

	if maxChangePct <= 0 {
		// no cap configured; the softmax shares pass through untouched
		return budgets, capped, snappedResidual(budgets, totalBudget)
	}

	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range budgets {
		lower[i] = current[i] * (1 - maxChangePct)
		if lower[i] < 0 {
			lower[i] = 0
		}
		upper[i] = current[i] * (1 + maxChangePct)
	}

	for iter := 0; iter <= n; iter++ {
		for i := range budgets {
			if capped[i] {
				continue
			}
			if budgets[i] < lower[i] {
				budgets[i] = lower[i]
				capped[i] = true
			} else if budgets[i] > upper[i] {
				budgets[i] = upper[i]
				capped[i] = true
			}
		}

		residual := snappedResidual(budgets, totalBudget)
		if residual == 0 {
			return budgets, capped, 0
		}

		free := make([]int, 0, n)
		scoreSum := 0.0
		for i := range budgets {
			if !capped[i] {
				free = append(free, i)
				scoreSum += scores[i]
			}
		}
		if len(free) == 0 {
			// every ad is pinned; the caps win and the residual is reported
			return budgets, capped, residual
		}

		for _, i := range free {
			if scoreSum > 0 {
				budgets[i] += residual * scores[i] / scoreSum
			} else {
				budgets[i] += residual / float64(len(free))
			}
		}
	}

	return budgets, capped, snappedResidual(budgets, totalBudget)
}

// snappedResidual: the unplaced part of the total, with float dust zeroed.
func snappedResidual(budgets []float64, total float64) float64 {
	sum := 0.0
	for _, b := range budgets {
		sum += b
	}

	residual := total - sum
	if math.Abs(residual) <= residualEpsilon {
		return 0
	}
	return residual
}
