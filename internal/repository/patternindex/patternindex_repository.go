package patternindex

import (
	"adPulse/business/similarity"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pobyzaarif/goshortcute"
)

type PatternIndexConfig struct {
	BaseUrl           string
	BasicAuthUsername string
	BasicAuthPassword string
}

// PatternIndexRepository talks to the remote creative pattern index that
// scores creatives against the library of historical winners.
type PatternIndexRepository struct {
	patternIndexConfig PatternIndexConfig
	client             *http.Client
}

var _ similarity.PatternIndexClient = (*PatternIndexRepository)(nil)

func NewPatternIndexRepository(cfg PatternIndexConfig) *PatternIndexRepository {
	return &PatternIndexRepository{
		patternIndexConfig: cfg,
		client:             &http.Client{Timeout: 5 * time.Second},
	}
}

type similarityResponse struct {
	CreativeKey string  `json:"creative_key"`
	PatternID   string  `json:"pattern_id"`
	Similarity  float64 `json:"similarity"`
}

// FetchSimilarity asks the index how closely one creative matches its nearest
// winning pattern. A creative the index has not scored yet is not an error.
func (r *PatternIndexRepository) FetchSimilarity(ctx context.Context, creativeKey string) (float64, string, bool, error) {
	endpoint := fmt.Sprintf("%s/v1/patterns/similarity?creative_key=%s",
		r.patternIndexConfig.BaseUrl, url.QueryEscape(creativeKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, "", false, err
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.patternIndexConfig.BasicAuthUsername + ":" + r.patternIndexConfig.BasicAuthPassword)
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := r.client.Do(req)
	if err != nil {
		return 0, "", false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return 0, "", false, nil
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return 0, "", false, fmt.Errorf("pattern index returned status %v", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, "", false, err
	}

	var parsed similarityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, "", false, fmt.Errorf("failed to parse pattern index response: %w", err)
	}

	return parsed.Similarity, parsed.PatternID, true, nil
}
