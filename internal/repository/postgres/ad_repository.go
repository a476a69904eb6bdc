package postgres

import (
	"adPulse/business/ads"
	"adPulse/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type AdRepository struct {
	DB *gorm.DB
}

var _ ads.AdRepository = (*AdRepository)(nil)

func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{
		DB: db,
	}
}

func (r *AdRepository) Create(ctx context.Context, ad *domain.Ad) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(ad).Error; err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}

	return nil
}

func (r *AdRepository) FindByID(ctx context.Context, id uint64) (domain.Ad, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ad{}, fmt.Errorf("context error: %w", err)
	}

	var ad domain.Ad

	err := r.DB.WithContext(ctx).First(&ad, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ad{}, errors.New("ad not found")
		}
		return domain.Ad{}, fmt.Errorf("failed to find ad: %w", err)
	}

	return ad, nil
}

func (r *AdRepository) FindByExternalID(ctx context.Context, externalID string) (domain.Ad, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ad{}, fmt.Errorf("context error: %w", err)
	}

	var ad domain.Ad

	err := r.DB.WithContext(ctx).Where("external_id = ?", externalID).First(&ad).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ad{}, errors.New("ad not found")
		}
		return domain.Ad{}, fmt.Errorf("failed to find ad: %w", err)
	}

	return ad, nil
}

func (r *AdRepository) FindByPool(ctx context.Context, poolID uint64) ([]domain.Ad, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var adsInPool []domain.Ad
	err := r.DB.WithContext(ctx).Where("pool_id = ?", poolID).Find(&adsInPool).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ads in pool: %w", err)
	}

	return adsInPool, nil
}

func (r *AdRepository) Update(ctx context.Context, ad *domain.Ad) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var existingAd domain.Ad
	if err := r.DB.WithContext(ctx).First(&existingAd, ad.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("ad not found")
		}
		return fmt.Errorf("failed to find ad: %w", err)
	}

	updateData := map[string]interface{}{
		"ad_name":      ad.AdName,
		"channel":      ad.Channel,
		"creative_key": ad.CreativeKey,
		"status":       ad.Status,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Ad{}).Where("id = ?", ad.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update ad: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("ad not found or already deleted")
	}

	return nil
}

func (r *AdRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Ad{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete ad: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("ad not found or already deleted")
	}

	return nil
}
