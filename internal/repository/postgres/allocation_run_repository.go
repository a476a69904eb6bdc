package postgres

import (
	"adPulse/business/allocator"
	"adPulse/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type AllocationRunRepository struct {
	DB *gorm.DB
}

var _ allocator.RunRepository = (*AllocationRunRepository)(nil)

func NewAllocationRunRepository(db *gorm.DB) *AllocationRunRepository {
	return &AllocationRunRepository{DB: db}
}

func (r *AllocationRunRepository) SaveRun(ctx context.Context, run *domain.AllocationRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save allocation run: %w", err)
	}

	return nil
}

func (r *AllocationRunRepository) FindByRunID(ctx context.Context, runID string) (domain.AllocationRun, error) {
	if err := ctx.Err(); err != nil {
		return domain.AllocationRun{}, fmt.Errorf("context error: %w", err)
	}

	var run domain.AllocationRun

	err := r.DB.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AllocationRun{}, errors.New("allocation run not found")
		}
		return domain.AllocationRun{}, fmt.Errorf("failed to find allocation run: %w", err)
	}

	return run, nil
}

func (r *AllocationRunRepository) FindByPool(ctx context.Context, poolID uint64, limit int) ([]domain.AllocationRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var runs []domain.AllocationRun
	err := r.DB.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find allocation runs: %w", err)
	}

	return runs, nil
}
