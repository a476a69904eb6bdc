package allocator

import "math"

// softmaxShares converts final scores into proportional budget shares.
// Temperature smooths the distribution: every ad with a positive score keeps
// a strictly positive share instead of a winner taking all. Max-subtraction
// keeps the exponentials from overflowing.
func softmaxShares(scores []float64, temperature float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	maxScore := scores[0]
	for _, sc := range scores[1:] {
		if sc > maxScore {
			maxScore = sc
		}
	}

	shares := make([]float64, len(scores))
	sum := 0.0
	for i, sc := range scores {
		e := math.Exp((sc - maxScore) / temperature)
		shares[i] = e
		sum += e
	}

	// sum >= 1 always: the max-score ad contributes exp(0)
	for i := range shares {
		shares[i] /= sum
	}

	return shares
}
