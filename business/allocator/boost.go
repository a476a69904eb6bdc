package allocator

import "context"

// SimilarityProvider reports how closely an ad's creative matches the best
// known winning pattern. ok=false means no match and no boost; the provider
// owns whatever index or storage produces the score.
type SimilarityProvider interface {
	Lookup(ctx context.Context, adID string) (float64, bool, error)
}

// NoopSimilarityProvider is the default implementation that never matches.
type NoopSimilarityProvider struct{}

func (NoopSimilarityProvider) Lookup(ctx context.Context, adID string) (float64, bool, error) {
	return 0, false, nil
}

const maxDNABoostUplift = 0.2

// dnaBoost converts a similarity score into a multiplicative uplift: at most
// +20%, never a penalty. No entry means no boost.
func dnaBoost(similarity float64, ok bool) float64 {
	if !ok {
		return 1.0
	}

	if similarity < 0 {
		similarity = 0
	}
	if similarity > 1 {
		similarity = 1
	}

	return 1.0 + similarity*maxDNABoostUplift
}
