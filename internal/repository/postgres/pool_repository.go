package postgres

import (
	"adPulse/business/allocator"
	"adPulse/business/pools"
	"adPulse/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PoolRepository struct {
	DB *gorm.DB
}

var _ pools.PoolRepository = (*PoolRepository)(nil)
var _ pools.BudgetRepository = (*PoolRepository)(nil)
var _ allocator.PoolRepository = (*PoolRepository)(nil)

func NewPoolRepository(db *gorm.DB) *PoolRepository {
	return &PoolRepository{
		DB: db,
	}
}

func (r *PoolRepository) Create(ctx context.Context, pool *domain.Pool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(pool).Error; err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	return nil
}

func (r *PoolRepository) FindByID(ctx context.Context, id uint64) (domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Pool{}, fmt.Errorf("context error: %w", err)
	}

	var pool domain.Pool

	err := r.DB.WithContext(ctx).First(&pool, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Pool{}, errors.New("pool not found")
		}
		return domain.Pool{}, fmt.Errorf("failed to find pool: %w", err)
	}

	return pool, nil
}

func (r *PoolRepository) FindAll(ctx context.Context) ([]domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var allPools []domain.Pool
	err := r.DB.WithContext(ctx).Find(&allPools).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pools: %w", err)
	}

	return allPools, nil
}

func (r *PoolRepository) FindActive(ctx context.Context) ([]domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var activePools []domain.Pool
	err := r.DB.WithContext(ctx).Where("status = ?", "active").Find(&activePools).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active pools: %w", err)
	}

	return activePools, nil
}

func (r *PoolRepository) Update(ctx context.Context, pool *domain.Pool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var existingPool domain.Pool
	if err := r.DB.WithContext(ctx).First(&existingPool, pool.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("pool not found")
		}
		return fmt.Errorf("failed to find pool: %w", err)
	}

	updateData := map[string]interface{}{
		"campaign_id":  pool.CampaignID,
		"pool_name":    pool.PoolName,
		"total_budget": pool.TotalBudget,
		"status":       pool.Status,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Pool{}).Where("id = ?", pool.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update pool: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("pool not found or already deleted")
	}

	return nil
}

func (r *PoolRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Pool{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete pool: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("pool not found or already deleted")
	}

	return nil
}

// GetCurrentBudgets returns the live per-ad spend levels, keyed by external
// ad id. Ads with no row yet are simply absent from the map.
func (r *PoolRepository) GetCurrentBudgets(ctx context.Context, poolID uint64) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.AdBudget
	err := r.DB.WithContext(ctx).Where("pool_id = ?", poolID).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ad budgets: %w", err)
	}

	budgets := make(map[string]float64, len(rows))
	for _, row := range rows {
		budgets[row.AdID] = row.Budget
	}

	return budgets, nil
}

// GetBudgets satisfies the pool service's budget contract with the same rows.
func (r *PoolRepository) GetBudgets(ctx context.Context, poolID uint64) (map[string]float64, error) {
	return r.GetCurrentBudgets(ctx, poolID)
}

// ApplyBudgets upserts the live spend level for every ad in one run.
func (r *PoolRepository) ApplyBudgets(ctx context.Context, poolID uint64, budgets []domain.AdBudget) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(budgets) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pool_id"}, {Name: "ad_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"budget", "updated_at"}),
		}).
		Create(&budgets).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ad budgets: %w", err)
	}

	return nil
}
