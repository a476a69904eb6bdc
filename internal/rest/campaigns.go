package rest

import (
	"adPulse/domain"
	"adPulse/pkg/logger"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CampaignService interface {
	GetAllCampaigns(ctx context.Context) ([]domain.Campaign, error)
	GetCampaignByID(ctx context.Context, id uint64) (domain.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error)
	DeleteCampaign(ctx context.Context, id uint64) error
}

type CampaignHandler struct {
	campaignService CampaignService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCampaignHandler(campaignService CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type CreateCampaignRequest struct {
	CampaignName string `json:"campaign_name" validate:"required"`
	Objective    string `json:"objective"`
	Status       string `json:"status"`
}

type UpdateCampaignRequest struct {
	CampaignName string `json:"campaign_name" validate:"required"`
	Objective    string `json:"objective"`
	Status       string `json:"status"`
}

func (h *CampaignHandler) GetAllCampaigns(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaigns, err := h.campaignService.GetAllCampaigns(ctx)
	if err != nil {
		logger.Error("Failed to find all campaigns", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully get all campaigns",
		"campaigns": campaigns,
	})
}

func (h *CampaignHandler) GetCampaignByID(c echo.Context) error {
	campaignIDStr := c.Param("id")

	campaignID, err := strconv.ParseUint(campaignIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid campaign id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid campaign id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaign, err := h.campaignService.GetCampaignByID(ctx, campaignID)
	if err != nil {
		logger.Error("Failed to find campaign", err)
		// Check if campaign not found
		if err.Error() == "campaign not found" || err.Error() == "invalid campaign id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get campaign",
		"campaign": campaign,
	})
}

func (h *CampaignHandler) CreateCampaign(c echo.Context) error {
	var req CreateCampaignRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate campaign request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaign := &domain.Campaign{
		CampaignName: req.CampaignName,
		Objective:    req.Objective,
		Status:       req.Status,
	}

	newCampaign, err := h.campaignService.CreateCampaign(ctx, campaign)
	if err != nil {
		logger.Error("Failed to create campaign", err)
		// Check if it's a validation error
		if err.Error() == "campaign name is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "campaign successfully created",
		"campaign": newCampaign,
	})
}

func (h *CampaignHandler) UpdateCampaign(c echo.Context) error {
	campaignIDStr := c.Param("id")

	campaignID, err := strconv.ParseUint(campaignIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid campaign id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid campaign id"})
	}

	var req UpdateCampaignRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate campaign request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaign := &domain.Campaign{
		CampaignID:   campaignID,
		CampaignName: req.CampaignName,
		Objective:    req.Objective,
		Status:       req.Status,
	}

	updatedCampaign, err := h.campaignService.UpdateCampaign(ctx, campaign)
	if err != nil {
		logger.Error("Failed to update campaign", err)
		// Check if campaign not found
		if err.Error() == "campaign not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		// Check if it's a validation error
		if err.Error() == "campaign ID is required" || err.Error() == "campaign name is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully update campaign",
		"campaign": updatedCampaign,
	})
}

func (h *CampaignHandler) DeleteCampaign(c echo.Context) error {
	campaignIDStr := c.Param("id")

	campaignID, err := strconv.ParseUint(campaignIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid campaign id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid campaign id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err = h.campaignService.DeleteCampaign(ctx, campaignID)
	if err != nil {
		logger.Error("Failed to delete campaign", err)
		// Check if campaign not found
		if err.Error() == "campaign not found" || err.Error() == "invalid campaign id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "campaign successfully deleted",
		"campaign_id": campaignID,
	})
}
