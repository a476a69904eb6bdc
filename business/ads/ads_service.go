package ads

import (
	"adPulse/domain"
	"adPulse/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// AdRepository contract interface
type AdRepository interface {
	Create(ctx context.Context, ad *domain.Ad) error
	FindByID(ctx context.Context, id uint64) (domain.Ad, error)
	FindByExternalID(ctx context.Context, externalID string) (domain.Ad, error)
	FindByPool(ctx context.Context, poolID uint64) ([]domain.Ad, error)
	Update(ctx context.Context, ad *domain.Ad) error
	Delete(ctx context.Context, id uint64) error
}

// SnapshotRepository contract interface. Snapshots are append-only; a new
// reading never rewrites an old one.
type SnapshotRepository interface {
	Save(ctx context.Context, snap *domain.AdSnapshot) error
	SaveBatch(ctx context.Context, snaps []domain.AdSnapshot) error
	LatestByPool(ctx context.Context, poolID uint64) ([]domain.AdSnapshot, error)
	HistoryByAd(ctx context.Context, poolID uint64, adID string, limit int) ([]domain.AdSnapshot, error)
}

type adsService struct {
	adRepo   AdRepository
	snapRepo SnapshotRepository
	validate *validator.Validate
}

func NewAdsService(adRepo AdRepository, snapRepo SnapshotRepository, validate *validator.Validate) *adsService {
	return &adsService{
		adRepo:   adRepo,
		snapRepo: snapRepo,
		validate: validate,
	}
}

const (
	StatusActive  = "active"
	StatusPaused  = "paused"
	StatusRetired = "retired"
)

var validStatuses = map[string]bool{
	StatusActive:  true,
	StatusPaused:  true,
	StatusRetired: true,
}

// RejectedSnapshot reports one reading that could not be ingested.
type RejectedSnapshot struct {
	AdID   string `json:"ad_id"`
	Reason string `json:"reason"`
}

func (s *adsService) RegisterAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when registering ad")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := s.validate.Var(ad.ExternalID, "required"); err != nil {
		logger.Error("Invalid ad data: external id is required")
		return nil, errors.New("external id is required")
	}

	if ad.PoolID == 0 {
		logger.Error("Invalid ad data: pool id is required")
		return nil, errors.New("pool id is required")
	}

	if ad.AdName == "" {
		logger.Error("Invalid ad data: ad name is required")
		return nil, errors.New("ad name is required")
	}

	// Check if external id already exists
	existing, err := s.adRepo.FindByExternalID(ctx, ad.ExternalID)
	if err == nil && existing.ID > 0 {
		logger.Error("Ad external id already exists")
		return nil, errors.New("ad external id already exists")
	}

	if ad.Status == "" {
		ad.Status = StatusActive
	}
	if !validStatuses[ad.Status] {
		logger.Error("Invalid ad status", ad.Status)
		return nil, errors.New("invalid ad status")
	}

	if ad.LaunchedAt.IsZero() {
		ad.LaunchedAt = time.Now()
	}

	if err := s.adRepo.Create(ctx, ad); err != nil {
		logger.Error("failed to register ad", err)
		return nil, fmt.Errorf("failed to register ad: %w", err)
	}

	logger.Info("ad registered successfully", "external_id", ad.ExternalID, "pool_id", ad.PoolID)

	return ad, nil
}

func (s *adsService) GetAdByID(ctx context.Context, id uint64) (domain.Ad, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get ad by id")
		return domain.Ad{}, fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("Invalid ad id")
		return domain.Ad{}, errors.New("invalid ad id")
	}

	ad, err := s.adRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find ad", err)
		return domain.Ad{}, err
	}

	return ad, nil
}

func (s *adsService) GetAdsByPool(ctx context.Context, poolID uint64) ([]domain.Ad, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get ads by pool")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if poolID == 0 {
		logger.Error("Invalid pool id")
		return nil, errors.New("invalid pool id")
	}

	adsInPool, err := s.adRepo.FindByPool(ctx, poolID)
	if err != nil {
		logger.Error("Failed to find ads in pool", err)
		return nil, err
	}

	return adsInPool, nil
}

func (s *adsService) UpdateAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating ad")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if ad.ID == 0 {
		logger.Error("Invalid ad data: ID is required")
		return nil, errors.New("ad ID is required")
	}

	if ad.Status != "" && !validStatuses[ad.Status] {
		logger.Error("Invalid ad status", ad.Status)
		return nil, errors.New("invalid ad status")
	}

	// Verify ad exists
	_, err := s.adRepo.FindByID(ctx, ad.ID)
	if err != nil {
		logger.Error("ad not found", err)
		return nil, errors.New("ad not found")
	}

	if err := s.adRepo.Update(ctx, ad); err != nil {
		logger.Error("failed to update ad", err)
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}

	updatedAd, err := s.adRepo.FindByID(ctx, ad.ID)
	if err != nil {
		logger.Error("failed to fetch updated ad", err)
		return nil, fmt.Errorf("failed to fetch updated ad: %w", err)
	}

	logger.Info("ad updated successfully")

	return &updatedAd, nil
}

func (s *adsService) DeleteAd(ctx context.Context, id uint64) error {
	if id == 0 {
		logger.Error("Invalid ad id when deleting ad")
		return errors.New("invalid ad id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting ad")
		return fmt.Errorf("context error: %w", err)
	}

	// Verify ad exists
	_, err := s.adRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("ad not found", err)
		return errors.New("ad not found")
	}

	if err := s.adRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete ad", err)
		return fmt.Errorf("failed to delete ad: %w", err)
	}

	logger.Info("ad deleted successfully")

	return nil
}

// IngestSnapshot validates one reading against the ad registry and appends it.
// PoolID and AgeHours are filled from the registered ad when the feed leaves
// them empty.
func (s *adsService) IngestSnapshot(ctx context.Context, snap *domain.AdSnapshot) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when ingesting snapshot")
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.checkSnapshot(ctx, snap); err != nil {
		return err
	}

	if err := s.snapRepo.Save(ctx, snap); err != nil {
		logger.Error("failed to save snapshot", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// IngestBatch appends every valid reading and reports the rejects. A bad row
// never blocks the rest of the feed.
func (s *adsService) IngestBatch(ctx context.Context, snaps []domain.AdSnapshot) (int, []RejectedSnapshot, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when ingesting snapshot batch")
		return 0, nil, fmt.Errorf("context error: %w", err)
	}

	if len(snaps) == 0 {
		return 0, nil, errors.New("snapshot batch is empty")
	}

	accepted := make([]domain.AdSnapshot, 0, len(snaps))
	rejected := []RejectedSnapshot{}

	for i := range snaps {
		if err := s.checkSnapshot(ctx, &snaps[i]); err != nil {
			rejected = append(rejected, RejectedSnapshot{
				AdID:   snaps[i].AdID,
				Reason: err.Error(),
			})
			continue
		}
		accepted = append(accepted, snaps[i])
	}

	if len(accepted) == 0 {
		return 0, rejected, errors.New("no valid snapshots in batch")
	}

	if err := s.snapRepo.SaveBatch(ctx, accepted); err != nil {
		logger.Error("failed to save snapshot batch", err)
		return 0, rejected, fmt.Errorf("failed to save snapshot batch: %w", err)
	}

	logger.Info("snapshot batch ingested", "accepted", len(accepted), "rejected", len(rejected))

	return len(accepted), rejected, nil
}

func (s *adsService) GetLatestSnapshots(ctx context.Context, poolID uint64) ([]domain.AdSnapshot, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get latest snapshots")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if poolID == 0 {
		logger.Error("Invalid pool id")
		return nil, errors.New("invalid pool id")
	}

	snaps, err := s.snapRepo.LatestByPool(ctx, poolID)
	if err != nil {
		logger.Error("Failed to find latest snapshots", err)
		return nil, err
	}

	return snaps, nil
}

func (s *adsService) GetSnapshotHistory(ctx context.Context, poolID uint64, adID string, limit int) ([]domain.AdSnapshot, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get snapshot history")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}

	snaps, err := s.snapRepo.HistoryByAd(ctx, poolID, adID, limit)
	if err != nil {
		logger.Error("Failed to find snapshot history", err)
		return nil, err
	}

	return snaps, nil
}

// checkSnapshot is the ingestion gate: the ad must be registered, the counts
// must be sane, and registry fields backfill whatever the feed omitted.
func (s *adsService) checkSnapshot(ctx context.Context, snap *domain.AdSnapshot) error {
	if err := s.validate.Var(snap.AdID, "required"); err != nil {
		return errors.New("ad id is required")
	}

	ad, err := s.adRepo.FindByExternalID(ctx, snap.AdID)
	if err != nil {
		return fmt.Errorf("ad %s is not registered", snap.AdID)
	}

	if snap.PoolID == 0 {
		snap.PoolID = ad.PoolID
	}
	if snap.PoolID != ad.PoolID {
		return fmt.Errorf("ad %s belongs to pool %d, not pool %d", snap.AdID, ad.PoolID, snap.PoolID)
	}

	if snap.Impressions < 0 {
		return errors.New("impressions cannot be negative")
	}
	if snap.Clicks < 0 {
		return errors.New("clicks cannot be negative")
	}
	if snap.Clicks > snap.Impressions {
		return errors.New("clicks cannot exceed impressions")
	}
	if snap.Spend < 0 {
		return errors.New("spend cannot be negative")
	}
	if snap.PipelineValue < 0 {
		return errors.New("pipeline value cannot be negative")
	}
	if snap.CashRevenue < 0 {
		return errors.New("cash revenue cannot be negative")
	}
	if snap.AgeHours < 0 {
		return errors.New("age hours cannot be negative")
	}

	if snap.AgeHours == 0 && !ad.LaunchedAt.IsZero() {
		snap.AgeHours = time.Since(ad.LaunchedAt).Hours()
	}
	if snap.LastUpdated.IsZero() {
		snap.LastUpdated = time.Now()
	}

	return nil
}
