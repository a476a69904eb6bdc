package pools

import (
	"adPulse/business/allocator"
	"adPulse/domain"
	"adPulse/pkg/logger"
	"context"
	"errors"
	"fmt"
)

// PoolRepository contract interface
type PoolRepository interface {
	Create(ctx context.Context, pool *domain.Pool) error
	FindByID(ctx context.Context, id uint64) (domain.Pool, error)
	FindAll(ctx context.Context) ([]domain.Pool, error)
	FindActive(ctx context.Context) ([]domain.Pool, error)
	Update(ctx context.Context, pool *domain.Pool) error
	Delete(ctx context.Context, id uint64) error
}

// BudgetRepository holds the live per-ad spend levels inside a pool.
type BudgetRepository interface {
	GetBudgets(ctx context.Context, poolID uint64) (map[string]float64, error)
	ApplyBudgets(ctx context.Context, poolID uint64, budgets []domain.AdBudget) error
}

type poolService struct {
	poolRepo   PoolRepository
	budgetRepo BudgetRepository
}

// applying runs is the allocator's publisher contract
var _ allocator.Publisher = (*poolService)(nil)

func NewPoolService(poolRepo PoolRepository, budgetRepo BudgetRepository) *poolService {
	return &poolService{
		poolRepo:   poolRepo,
		budgetRepo: budgetRepo,
	}
}

const (
	StatusActive = "active"
	StatusPaused = "paused"
)

func (s *poolService) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all pools")
		return nil, fmt.Errorf("context error: %w", err)
	}

	pools, err := s.poolRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all pools", err)
		return nil, err
	}

	return pools, nil
}

func (s *poolService) GetPoolByID(ctx context.Context, id uint64) (domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get pool by id")
		return domain.Pool{}, fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("Invalid pool id")
		return domain.Pool{}, errors.New("invalid pool id")
	}

	pool, err := s.poolRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find pool", err)
		return domain.Pool{}, err
	}

	return pool, nil
}

func (s *poolService) CreatePool(ctx context.Context, pool *domain.Pool) (*domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create pool")
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if pool.PoolName == "" {
		logger.Error("Invalid pool data: pool name is required")
		return nil, errors.New("pool name is required")
	}

	if pool.TotalBudget <= 0 {
		logger.Error("Invalid pool data: total budget must be greater than 0")
		return nil, errors.New("total budget must be greater than 0")
	}

	if pool.Status == "" {
		pool.Status = StatusActive
	}
	if pool.Status != StatusActive && pool.Status != StatusPaused {
		logger.Error("Invalid pool status", pool.Status)
		return nil, errors.New("invalid pool status")
	}

	if err := s.poolRepo.Create(ctx, pool); err != nil {
		logger.Error("failed to create new pool", err)
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	logger.Info("pool created successfully", "pool_name", pool.PoolName, "total_budget", pool.TotalBudget)

	return pool, nil
}

func (s *poolService) UpdatePool(ctx context.Context, pool *domain.Pool) (*domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating pool")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if pool.ID == 0 {
		logger.Error("Invalid pool data: ID is required")
		return nil, errors.New("pool ID is required")
	}

	if pool.TotalBudget <= 0 {
		logger.Error("Invalid pool data: total budget must be greater than 0")
		return nil, errors.New("total budget must be greater than 0")
	}

	if pool.Status != "" && pool.Status != StatusActive && pool.Status != StatusPaused {
		logger.Error("Invalid pool status", pool.Status)
		return nil, errors.New("invalid pool status")
	}

	// Verify pool exists
	_, err := s.poolRepo.FindByID(ctx, pool.ID)
	if err != nil {
		logger.Error("pool not found", err)
		return nil, errors.New("pool not found")
	}

	if err := s.poolRepo.Update(ctx, pool); err != nil {
		logger.Error("failed to update pool", err)
		return nil, fmt.Errorf("failed to update pool: %w", err)
	}

	updatedPool, err := s.poolRepo.FindByID(ctx, pool.ID)
	if err != nil {
		logger.Error("failed to fetch updated pool", err)
		return nil, fmt.Errorf("failed to fetch updated pool: %w", err)
	}

	logger.Info("pool updated successfully")

	return &updatedPool, nil
}

func (s *poolService) DeletePool(ctx context.Context, id uint64) error {
	if id == 0 {
		logger.Error("Invalid pool id when deleting pool")
		return errors.New("invalid pool id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting pool")
		return fmt.Errorf("context error: %w", err)
	}

	// Verify pool exists
	_, err := s.poolRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("pool not found", err)
		return errors.New("pool not found")
	}

	if err := s.poolRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete pool", err)
		return fmt.Errorf("failed to delete pool: %w", err)
	}

	logger.Info("pool deleted successfully")

	return nil
}

func (s *poolService) GetCurrentBudgets(ctx context.Context, poolID uint64) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get current budgets")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if poolID == 0 {
		logger.Error("Invalid pool id")
		return nil, errors.New("invalid pool id")
	}

	budgets, err := s.budgetRepo.GetBudgets(ctx, poolID)
	if err != nil {
		logger.Error("Failed to get current budgets", err)
		return nil, err
	}

	return budgets, nil
}

// Publish writes a finished run's recommended budgets as the pool's live spend
// levels. The next allocation cycle reads these rows back as its baseline.
func (s *poolService) Publish(ctx context.Context, poolID uint64, recs []domain.BudgetRecommendation) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when publishing budgets")
		return fmt.Errorf("context error: %w", err)
	}

	if len(recs) == 0 {
		return nil
	}

	rows := make([]domain.AdBudget, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, domain.AdBudget{
			PoolID: poolID,
			AdID:   rec.AdID,
			Budget: rec.RecommendedBudget,
		})
	}

	if err := s.budgetRepo.ApplyBudgets(ctx, poolID, rows); err != nil {
		logger.Error("failed to apply budgets", err)
		return fmt.Errorf("failed to apply budgets: %w", err)
	}

	logger.Info("budgets applied", "pool_id", poolID, "ads", len(rows))

	return nil
}
