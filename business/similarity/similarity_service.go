package similarity

import (
	"adPulse/business/allocator"
	"adPulse/domain"
	"adPulse/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"
)

// PatternRepository contract interface
type PatternRepository interface {
	FindByCreativeKey(ctx context.Context, creativeKey string) (domain.WinningPattern, error)
	FindAll(ctx context.Context) ([]domain.WinningPattern, error)
	Upsert(ctx context.Context, pattern *domain.WinningPattern) error
	DeleteByCreativeKey(ctx context.Context, creativeKey string) error
}

// AdResolver maps the external ad id carried on snapshots to the registered ad
// that owns the creative.
type AdResolver interface {
	FindByExternalID(ctx context.Context, externalID string) (domain.Ad, error)
}

// PatternCache is the hot path in front of the winning_patterns table.
type PatternCache interface {
	GetSimilarity(ctx context.Context, creativeKey string) (float64, bool, error)
	SetSimilarity(ctx context.Context, creativeKey string, similarity float64, ttl time.Duration) error
	InvalidateSimilarity(ctx context.Context, creativeKey string) error
}

// PatternIndexClient talks to the remote creative pattern index.
type PatternIndexClient interface {
	FetchSimilarity(ctx context.Context, creativeKey string) (float64, string, bool, error)
}

type similarityService struct {
	patternRepo PatternRepository
	adResolver  AdResolver
	cache       PatternCache
	indexClient PatternIndexClient
}

// scoring consumes this service through the allocator's provider contract
var _ allocator.SimilarityProvider = (*similarityService)(nil)

const (
	cacheTTL = 15 * time.Minute

	SourceIndex  = "index"
	SourceManual = "manual"
)

func NewSimilarityService(
	patternRepo PatternRepository,
	adResolver AdResolver,
	cache PatternCache,
	indexClient PatternIndexClient,
) *similarityService {
	return &similarityService{
		patternRepo: patternRepo,
		adResolver:  adResolver,
		cache:       cache,
		indexClient: indexClient,
	}
}

// Lookup resolves an ad's creative similarity: cache, then the local
// winning_patterns table, then the remote index. An unknown ad or an
// unscored creative reports no similarity rather than an error.
func (s *similarityService) Lookup(ctx context.Context, adID string) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, fmt.Errorf("context error: %w", err)
	}

	ad, err := s.adResolver.FindByExternalID(ctx, adID)
	if err != nil || ad.CreativeKey == "" {
		return 0, false, nil
	}

	return s.lookupCreative(ctx, ad.CreativeKey)
}

func (s *similarityService) lookupCreative(ctx context.Context, creativeKey string) (float64, bool, error) {
	// cache failures degrade to the table, never block the lookup
	if s.cache != nil {
		sim, ok, err := s.cache.GetSimilarity(ctx, creativeKey)
		if err != nil {
			logger.Warn("similarity cache read failed", "creative_key", creativeKey, "error", err)
		} else if ok {
			return sim, true, nil
		}
	}

	pattern, err := s.patternRepo.FindByCreativeKey(ctx, creativeKey)
	if err == nil {
		s.fillCache(ctx, creativeKey, pattern.Similarity)
		return pattern.Similarity, true, nil
	}

	if s.indexClient == nil {
		return 0, false, nil
	}

	sim, patternID, found, err := s.indexClient.FetchSimilarity(ctx, creativeKey)
	if err != nil {
		return 0, false, fmt.Errorf("fetch similarity from pattern index: %w", err)
	}
	if !found {
		return 0, false, nil
	}

	synced := domain.WinningPattern{
		CreativeKey: creativeKey,
		PatternID:   patternID,
		Similarity:  sim,
		Source:      SourceIndex,
	}
	if err := s.patternRepo.Upsert(ctx, &synced); err != nil {
		logger.Warn("failed to persist synced pattern", "creative_key", creativeKey, "error", err)
	}
	s.fillCache(ctx, creativeKey, sim)

	return sim, true, nil
}

func (s *similarityService) GetAllPatterns(ctx context.Context) ([]domain.WinningPattern, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all patterns")
		return nil, fmt.Errorf("context error: %w", err)
	}

	patterns, err := s.patternRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all patterns", err)
		return nil, err
	}

	return patterns, nil
}

// UpsertPattern records an operator-entered similarity for a creative.
func (s *similarityService) UpsertPattern(ctx context.Context, pattern *domain.WinningPattern) (*domain.WinningPattern, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when upserting pattern")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if pattern.CreativeKey == "" {
		logger.Error("Invalid pattern data: creative key is required")
		return nil, errors.New("creative key is required")
	}

	if pattern.Similarity < 0 || pattern.Similarity > 1 {
		logger.Error("Invalid pattern data: similarity out of range", pattern.Similarity)
		return nil, errors.New("similarity must be between 0 and 1")
	}

	if pattern.Source == "" {
		pattern.Source = SourceManual
	}
	if pattern.Source != SourceManual && pattern.Source != SourceIndex {
		logger.Error("Invalid pattern source", pattern.Source)
		return nil, errors.New("invalid pattern source")
	}

	if err := s.patternRepo.Upsert(ctx, pattern); err != nil {
		logger.Error("failed to upsert pattern", err)
		return nil, fmt.Errorf("failed to upsert pattern: %w", err)
	}

	s.dropCache(ctx, pattern.CreativeKey)

	logger.Info("pattern upserted", "creative_key", pattern.CreativeKey, "similarity", pattern.Similarity)

	return pattern, nil
}

func (s *similarityService) DeletePattern(ctx context.Context, creativeKey string) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting pattern")
		return fmt.Errorf("context error: %w", err)
	}

	if creativeKey == "" {
		logger.Error("Invalid creative key when deleting pattern")
		return errors.New("creative key is required")
	}

	if err := s.patternRepo.DeleteByCreativeKey(ctx, creativeKey); err != nil {
		logger.Error("failed to delete pattern", err)
		return fmt.Errorf("failed to delete pattern: %w", err)
	}

	s.dropCache(ctx, creativeKey)

	logger.Info("pattern deleted", "creative_key", creativeKey)

	return nil
}

// RefreshCreative re-reads one creative from the remote index. The pattern
// index calls this through the webhook when a creative is re-scored.
func (s *similarityService) RefreshCreative(ctx context.Context, creativeKey string) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when refreshing creative")
		return fmt.Errorf("context error: %w", err)
	}

	if creativeKey == "" {
		logger.Error("Invalid creative key when refreshing creative")
		return errors.New("creative key is required")
	}

	s.dropCache(ctx, creativeKey)

	if s.indexClient == nil {
		return nil
	}

	sim, patternID, found, err := s.indexClient.FetchSimilarity(ctx, creativeKey)
	if err != nil {
		logger.Error("failed to refresh creative from pattern index", err)
		return fmt.Errorf("failed to refresh creative: %w", err)
	}

	if !found {
		// the index no longer scores this creative; drop the stale row
		if err := s.patternRepo.DeleteByCreativeKey(ctx, creativeKey); err != nil {
			logger.Warn("failed to drop stale pattern", "creative_key", creativeKey, "error", err)
		}
		logger.Info("creative no longer scored by pattern index", "creative_key", creativeKey)
		return nil
	}

	refreshed := domain.WinningPattern{
		CreativeKey: creativeKey,
		PatternID:   patternID,
		Similarity:  sim,
		Source:      SourceIndex,
	}
	if err := s.patternRepo.Upsert(ctx, &refreshed); err != nil {
		logger.Error("failed to persist refreshed pattern", err)
		return fmt.Errorf("failed to persist refreshed pattern: %w", err)
	}
	s.fillCache(ctx, creativeKey, sim)

	logger.Info("creative refreshed from pattern index", "creative_key", creativeKey, "similarity", sim)

	return nil
}

func (s *similarityService) fillCache(ctx context.Context, creativeKey string, sim float64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSimilarity(ctx, creativeKey, sim, cacheTTL); err != nil {
		logger.Warn("similarity cache write failed", "creative_key", creativeKey, "error", err)
	}
}

func (s *similarityService) dropCache(ctx context.Context, creativeKey string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSimilarity(ctx, creativeKey); err != nil {
		logger.Warn("similarity cache invalidation failed", "creative_key", creativeKey, "error", err)
	}
}
