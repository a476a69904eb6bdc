package allocator

import "math"

// decayFactor discounts an ad's score as its audience wears out. Two ads with
// identical rates but different impression volume must come out different:
// with the default constant, a couple thousand impressions cost a few percent
// while tens of thousands cut the score by an order of magnitude.
func decayFactor(impressions int64, decayConstant float64) float64 {
	if impressions <= 0 || decayConstant <= 0 {
		return 1.0
	}

	return math.Exp(-decayConstant * float64(impressions))
}
