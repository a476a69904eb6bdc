package allocator

import "math"

const (
	// impressions for the volume term to reach ~63% of its weight
	confidenceVolumeScale = 5000.0
	// hours for the maturity term to reach ~63% of its weight
	confidenceMaturityScale = 48.0

	confidenceVolumeWeight   = 0.6
	confidenceMaturityWeight = 0.4
)

// confidenceScore says how much to trust a recommendation: more impressions
// and more time for attribution to settle both raise it. Monotonic
// non-decreasing in each input, always in [0,1). Output signal only; it never
// feeds back into scoring or allocation.
func confidenceScore(impressions int64, ageHours float64) float64 {
	if impressions < 0 {
		impressions = 0
	}
	if ageHours < 0 {
		ageHours = 0
	}

	volume := 1 - math.Exp(-float64(impressions)/confidenceVolumeScale)
	maturity := 1 - math.Exp(-ageHours/confidenceMaturityScale)

	return confidenceVolumeWeight*volume + confidenceMaturityWeight*maturity
}
