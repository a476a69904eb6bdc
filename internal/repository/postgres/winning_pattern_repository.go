package postgres

import (
	"adPulse/business/similarity"
	"adPulse/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WinningPatternRepository struct {
	DB *gorm.DB
}

var _ similarity.PatternRepository = (*WinningPatternRepository)(nil)

func NewWinningPatternRepository(db *gorm.DB) *WinningPatternRepository {
	return &WinningPatternRepository{DB: db}
}

func (r *WinningPatternRepository) FindByCreativeKey(ctx context.Context, creativeKey string) (domain.WinningPattern, error) {
	if err := ctx.Err(); err != nil {
		return domain.WinningPattern{}, fmt.Errorf("context error: %w", err)
	}

	var pattern domain.WinningPattern

	err := r.DB.WithContext(ctx).Where("creative_key = ?", creativeKey).First(&pattern).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WinningPattern{}, errors.New("pattern not found")
		}
		return domain.WinningPattern{}, fmt.Errorf("failed to find pattern: %w", err)
	}

	return pattern, nil
}

func (r *WinningPatternRepository) FindAll(ctx context.Context) ([]domain.WinningPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var patterns []domain.WinningPattern
	err := r.DB.WithContext(ctx).Order("synced_at DESC").Find(&patterns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find patterns: %w", err)
	}

	return patterns, nil
}

func (r *WinningPatternRepository) Upsert(ctx context.Context, pattern *domain.WinningPattern) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "creative_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"pattern_id",
				"similarity",
				"source",
				"synced_at",
			}),
		}).
		Create(pattern).Error
	if err != nil {
		return fmt.Errorf("failed to upsert pattern: %w", err)
	}

	return nil
}

func (r *WinningPatternRepository) DeleteByCreativeKey(ctx context.Context, creativeKey string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("creative_key = ?", creativeKey).Delete(&domain.WinningPattern{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete pattern: %w", result.Error)
	}

	return nil
}
