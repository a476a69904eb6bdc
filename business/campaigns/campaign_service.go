package campaigns

import (
	"adPulse/domain"
	"adPulse/pkg/logger"
	"context"
	"errors"
	"fmt"
)

// CampaignRepository contract interface
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	FindByID(ctx context.Context, id uint64) (domain.Campaign, error)
	FindAll(ctx context.Context) ([]domain.Campaign, error)
	Update(ctx context.Context, campaign *domain.Campaign) error
	Delete(ctx context.Context, id uint64) error
}

type campaignService struct {
	campaignRepo CampaignRepository
}

func NewCampaignService(campaignRepo CampaignRepository) *campaignService {
	return &campaignService{
		campaignRepo: campaignRepo,
	}
}

func (s *campaignService) GetAllCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all campaigns")
		return nil, fmt.Errorf("context error: %w", err)
	}

	campaigns, err := s.campaignRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all campaigns", err)
		return nil, err
	}

	return campaigns, nil
}

func (s *campaignService) GetCampaignByID(ctx context.Context, id uint64) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get campaign by id")
		return domain.Campaign{}, fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("Invalid campaign id")
		return domain.Campaign{}, errors.New("invalid campaign id")
	}

	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find campaign", err)
		return domain.Campaign{}, err
	}

	return campaign, nil
}

func (s *campaignService) CreateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create campaign")
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if campaign.CampaignName == "" {
		logger.Error("Invalid campaign data: campaign name is required")
		return nil, errors.New("campaign name is required")
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		logger.Error("failed to create new campaign", err)
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	logger.Info("campaign created successfully")

	return campaign, nil
}

func (s *campaignService) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating campaign")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if campaign.CampaignID == 0 {
		logger.Error("Invalid campaign data: ID is required")
		return nil, errors.New("campaign ID is required")
	}

	// Validation
	if campaign.CampaignName == "" {
		logger.Error("Invalid campaign data: campaign name is required")
		return nil, errors.New("campaign name is required")
	}

	// Verify campaign exists
	_, err := s.campaignRepo.FindByID(ctx, campaign.CampaignID)
	if err != nil {
		logger.Error("campaign not found", err)
		return nil, errors.New("campaign not found")
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		logger.Error("failed to update campaign", err)
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	// Get updated campaign from database
	updatedCampaign, err := s.campaignRepo.FindByID(ctx, campaign.CampaignID)
	if err != nil {
		logger.Error("failed to fetch updated campaign", err)
		return nil, fmt.Errorf("failed to fetch updated campaign: %w", err)
	}

	logger.Info("campaign updated successfully")

	return &updatedCampaign, nil
}

func (s *campaignService) DeleteCampaign(ctx context.Context, id uint64) error {
	if id == 0 {
		logger.Error("Invalid campaign id when deleting campaign")
		return errors.New("invalid campaign id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting campaign")
		return fmt.Errorf("context error: %w", err)
	}

	// Verify campaign exists
	_, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("campaign not found", err)
		return errors.New("campaign not found")
	}

	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete campaign", err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	logger.Info("campaign deleted successfully")

	return nil
}
