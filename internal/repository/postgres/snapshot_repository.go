package postgres

import (
	"adPulse/business/ads"
	"adPulse/business/allocator"
	"adPulse/domain"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type SnapshotRepository struct {
	DB *gorm.DB
}

var _ ads.SnapshotRepository = (*SnapshotRepository)(nil)
var _ allocator.SnapshotSource = (*SnapshotRepository)(nil)

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{DB: db}
}

func (r *SnapshotRepository) Save(ctx context.Context, snap *domain.AdSnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(snap).Error; err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) SaveBatch(ctx context.Context, snaps []domain.AdSnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(snaps) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).CreateInBatches(snaps, 100).Error; err != nil {
		return fmt.Errorf("failed to save snapshot batch: %w", err)
	}

	return nil
}

// LatestByPool returns the newest reading per ad in the pool. Snapshot ids are
// monotonic, so max id per ad is the latest capture.
func (r *SnapshotRepository) LatestByPool(ctx context.Context, poolID uint64) ([]domain.AdSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	latestIDs := r.DB.Model(&domain.AdSnapshot{}).
		Select("MAX(id)").
		Where("pool_id = ?", poolID).
		Group("ad_id")

	var snaps []domain.AdSnapshot
	err := r.DB.WithContext(ctx).
		Where("id IN (?)", latestIDs).
		Order("ad_id").
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find latest snapshots: %w", err)
	}

	return snaps, nil
}

func (r *SnapshotRepository) HistoryByAd(ctx context.Context, poolID uint64, adID string, limit int) ([]domain.AdSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var snaps []domain.AdSnapshot
	err := r.DB.WithContext(ctx).
		Where("pool_id = ? AND ad_id = ?", poolID, adID).
		Order("captured_at DESC").
		Limit(limit).
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshot history: %w", err)
	}

	return snaps, nil
}
