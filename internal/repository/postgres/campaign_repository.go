package postgres

import (
	"adPulse/business/campaigns"
	"adPulse/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	DB *gorm.DB
}

var _ campaigns.CampaignRepository = (*CampaignRepository)(nil)

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{
		DB: db,
	}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(campaign).Error; err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id uint64) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, fmt.Errorf("context error: %w", err)
	}

	var campaign domain.Campaign

	err := r.DB.WithContext(ctx).First(&campaign, "campaign_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Campaign{}, errors.New("campaign not found")
		}
		return domain.Campaign{}, fmt.Errorf("failed to find campaign: %w", err)
	}

	return campaign, nil
}

func (r *CampaignRepository) FindAll(ctx context.Context) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var allCampaigns []domain.Campaign
	err := r.DB.WithContext(ctx).Find(&allCampaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find campaigns: %w", err)
	}

	return allCampaigns, nil
}

func (r *CampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var existingCampaign domain.Campaign
	if err := r.DB.WithContext(ctx).First(&existingCampaign, "campaign_id = ?", campaign.CampaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("campaign not found")
		}
		return fmt.Errorf("failed to find campaign: %w", err)
	}

	updateData := map[string]interface{}{
		"campaign_name": campaign.CampaignName,
		"objective":     campaign.Objective,
		"status":        campaign.Status,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Campaign{}).Where("campaign_id = ?", campaign.CampaignID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update campaign: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("campaign not found or already deleted")
	}

	return nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("campaign_id = ?", id).Delete(&domain.Campaign{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete campaign: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("campaign not found or already deleted")
	}

	return nil
}
