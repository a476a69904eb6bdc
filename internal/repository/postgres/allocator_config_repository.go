package postgres

import (
	"adPulse/business/allocator"
	"adPulse/domain"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AllocatorConfigRepository struct {
	DB *gorm.DB
}

var _ allocator.ConfigRepository = (*AllocatorConfigRepository)(nil)

func NewAllocatorConfigRepository(db *gorm.DB) *AllocatorConfigRepository {
	return &AllocatorConfigRepository{DB: db}
}

func (r *AllocatorConfigRepository) GetConfig(ctx context.Context, poolID uint64) (domain.AllocatorConfig, bool, error) {
	var cfg domain.AllocatorConfig

	err := r.DB.WithContext(ctx).
		Where("pool_id = ?", poolID).
		First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		return domain.AllocatorConfig{}, false, nil
	}
	if err != nil {
		return domain.AllocatorConfig{}, false, err
	}

	return cfg, true, nil
}

func (r *AllocatorConfigRepository) UpsertConfig(ctx context.Context, cfg domain.AllocatorConfig) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "pool_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"decay_constant",
				"max_budget_change_pct",
				"temperature",
				"ctr_ceiling",
				"roas_ceiling",
				"early_phase_hours",
				"mature_phase_hours",
				"mature_ctr_weight",
				"updated_at",
			}),
		}).
		Create(&cfg).Error
}
