package rest

import (
	"adPulse/business/ads"
	"adPulse/domain"
	"adPulse/pkg/logger"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AdsService interface {
	RegisterAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error)
	GetAdByID(ctx context.Context, id uint64) (domain.Ad, error)
	GetAdsByPool(ctx context.Context, poolID uint64) ([]domain.Ad, error)
	UpdateAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error)
	DeleteAd(ctx context.Context, id uint64) error
	IngestSnapshot(ctx context.Context, snap *domain.AdSnapshot) error
	IngestBatch(ctx context.Context, snaps []domain.AdSnapshot) (int, []ads.RejectedSnapshot, error)
	GetLatestSnapshots(ctx context.Context, poolID uint64) ([]domain.AdSnapshot, error)
	GetSnapshotHistory(ctx context.Context, poolID uint64, adID string, limit int) ([]domain.AdSnapshot, error)
}

type AdsHandler struct {
	adsService AdsService
	validator  *validator.Validate
	timeout    time.Duration
}

func NewAdsHandler(adsService AdsService) *AdsHandler {
	return &AdsHandler{
		adsService: adsService,
		validator:  validator.New(),
		timeout:    10 * time.Second,
	}
}

type RegisterAdRequest struct {
	ExternalID  string    `json:"external_id" validate:"required"`
	PoolID      uint64    `json:"pool_id" validate:"required"`
	CampaignID  uint64    `json:"campaign_id"`
	AdName      string    `json:"ad_name" validate:"required"`
	Channel     string    `json:"channel"`
	CreativeKey string    `json:"creative_key"`
	Status      string    `json:"status" validate:"omitempty,oneof=active paused retired"`
	LaunchedAt  time.Time `json:"launched_at"`
}

type UpdateAdRequest struct {
	AdName      string `json:"ad_name,omitempty"`
	Channel     string `json:"channel,omitempty"`
	CreativeKey string `json:"creative_key,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active paused retired"`
}

type SnapshotRequest struct {
	AdID          string    `json:"ad_id" validate:"required"`
	PoolID        uint64    `json:"pool_id"`
	Impressions   int64     `json:"impressions"`
	Clicks        int64     `json:"clicks"`
	Spend         float64   `json:"spend"`
	PipelineValue float64   `json:"pipeline_value"`
	CashRevenue   float64   `json:"cash_revenue"`
	AgeHours      float64   `json:"age_hours"`
	LastUpdated   time.Time `json:"last_updated"`
}

type IngestBatchRequest struct {
	Snapshots []SnapshotRequest `json:"snapshots" validate:"required,min=1,dive"`
}

func (r SnapshotRequest) toDomain() domain.AdSnapshot {
	return domain.AdSnapshot{
		AdID:          r.AdID,
		PoolID:        r.PoolID,
		Impressions:   r.Impressions,
		Clicks:        r.Clicks,
		Spend:         r.Spend,
		PipelineValue: r.PipelineValue,
		CashRevenue:   r.CashRevenue,
		AgeHours:      r.AgeHours,
		LastUpdated:   r.LastUpdated,
	}
}

func (h *AdsHandler) RegisterAd(c echo.Context) error {
	var req RegisterAdRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate ad request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	ad := &domain.Ad{
		ExternalID:  req.ExternalID,
		PoolID:      req.PoolID,
		CampaignID:  req.CampaignID,
		AdName:      req.AdName,
		Channel:     req.Channel,
		CreativeKey: req.CreativeKey,
		Status:      req.Status,
		LaunchedAt:  req.LaunchedAt,
	}

	newAd, err := h.adsService.RegisterAd(ctx, ad)
	if err != nil {
		logger.Error("Failed to register ad", err)
		// Check if it's a validation error
		if err.Error() == "external id is required" ||
			err.Error() == "pool id is required" ||
			err.Error() == "ad name is required" ||
			err.Error() == "ad external id already exists" ||
			err.Error() == "invalid ad status" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "ad successfully registered",
		"ad":      newAd,
	})
}

func (h *AdsHandler) GetAdByID(c echo.Context) error {
	adIDStr := c.Param("id")

	adID, err := strconv.ParseUint(adIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid ad id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid ad id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	ad, err := h.adsService.GetAdByID(ctx, adID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find ad by id",
		"ad":      ad,
	})
}

func (h *AdsHandler) GetAdsByPool(c echo.Context) error {
	poolIDStr := c.Param("id")

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid pool id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	adsInPool, err := h.adsService.GetAdsByPool(ctx, poolID)
	if err != nil {
		logger.Error("Failed to find ads in pool", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get ads in pool",
		"ads":     adsInPool,
	})
}

func (h *AdsHandler) UpdateAd(c echo.Context) error {
	adIDStr := c.Param("id")

	adID, err := strconv.ParseUint(adIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid ad id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid ad id"})
	}

	var req UpdateAdRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate ad request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	ad := &domain.Ad{
		ID:          adID,
		AdName:      req.AdName,
		Channel:     req.Channel,
		CreativeKey: req.CreativeKey,
		Status:      req.Status,
	}

	updatedAd, err := h.adsService.UpdateAd(ctx, ad)
	if err != nil {
		logger.Error("Failed to update ad", err)
		// Check if ad not found
		if err.Error() == "ad not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if err.Error() == "ad ID is required" || err.Error() == "invalid ad status" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update ad",
		"ad":      updatedAd,
	})
}

func (h *AdsHandler) DeleteAd(c echo.Context) error {
	adIDStr := c.Param("id")

	adID, err := strconv.ParseUint(adIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid ad id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid ad id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err = h.adsService.DeleteAd(ctx, adID)
	if err != nil {
		logger.Error("Failed to delete ad", err)
		if err.Error() == "ad not found" || err.Error() == "invalid ad id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "ad successfully deleted",
		"ad_id":   adID,
	})
}

// IngestSnapshot appends one performance reading for a registered ad.
func (h *AdsHandler) IngestSnapshot(c echo.Context) error {
	var req SnapshotRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate snapshot request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snap := req.toDomain()
	if err := h.adsService.IngestSnapshot(ctx, &snap); err != nil {
		logger.Error("Failed to ingest snapshot", err)
		if strings.Contains(err.Error(), "failed to save snapshot") {
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
		// everything else is a bad reading
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "snapshot ingested",
		"ad_id":   snap.AdID,
	})
}

// IngestBatch appends a feed of readings; bad rows are reported, not fatal.
func (h *AdsHandler) IngestBatch(c echo.Context) error {
	var req IngestBatchRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate batch request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snaps := make([]domain.AdSnapshot, 0, len(req.Snapshots))
	for _, r := range req.Snapshots {
		snaps = append(snaps, r.toDomain())
	}

	accepted, rejected, err := h.adsService.IngestBatch(ctx, snaps)
	if err != nil {
		logger.Error("Failed to ingest snapshot batch", err)
		if err.Error() == "snapshot batch is empty" || err.Error() == "no valid snapshots in batch" {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"message":  err.Error(),
				"rejected": rejected,
			})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "snapshot batch ingested",
		"accepted": accepted,
		"rejected": rejected,
	})
}

func (h *AdsHandler) GetLatestSnapshots(c echo.Context) error {
	poolIDStr := c.Param("id")

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid pool id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snaps, err := h.adsService.GetLatestSnapshots(ctx, poolID)
	if err != nil {
		logger.Error("Failed to get latest snapshots", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully get latest snapshots",
		"snapshots": snaps,
	})
}

func (h *AdsHandler) GetSnapshotHistory(c echo.Context) error {
	poolIDStr := c.Param("id")

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid pool id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	adID := c.Param("ad_id")
	if adID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "ad id is required"})
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snaps, err := h.adsService.GetSnapshotHistory(ctx, poolID, adID, limit)
	if err != nil {
		logger.Error("Failed to get snapshot history", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully get snapshot history",
		"ad_id":     adID,
		"snapshots": snaps,
	})
}
