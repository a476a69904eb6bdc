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

type PoolService interface {
	GetAllPools(ctx context.Context) ([]domain.Pool, error)
	GetPoolByID(ctx context.Context, id uint64) (domain.Pool, error)
	CreatePool(ctx context.Context, pool *domain.Pool) (*domain.Pool, error)
	UpdatePool(ctx context.Context, pool *domain.Pool) (*domain.Pool, error)
	DeletePool(ctx context.Context, id uint64) error
	GetCurrentBudgets(ctx context.Context, poolID uint64) (map[string]float64, error)
}

type PoolHandler struct {
	poolService PoolService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewPoolHandler(poolService PoolService) *PoolHandler {
	return &PoolHandler{
		poolService: poolService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type CreatePoolRequest struct {
	CampaignID  uint64  `json:"campaign_id"`
	PoolName    string  `json:"pool_name" validate:"required"`
	TotalBudget float64 `json:"total_budget" validate:"required,gt=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=active paused"`
}

type UpdatePoolRequest struct {
	CampaignID  uint64  `json:"campaign_id"`
	PoolName    string  `json:"pool_name" validate:"required"`
	TotalBudget float64 `json:"total_budget" validate:"required,gt=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=active paused"`
}

func (h *PoolHandler) GetAllPools(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pools, err := h.poolService.GetAllPools(ctx)
	if err != nil {
		logger.Error("Failed to find all pools", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get all pools",
		"pools":   pools,
	})
}

func (h *PoolHandler) GetPoolByID(c echo.Context) error {
	poolIDStr := c.Param("id")

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid pool id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pool, err := h.poolService.GetPoolByID(ctx, poolID)
	if err != nil {
		logger.Error("Failed to find pool", err)
		// Check if pool not found
		if err.Error() == "pool not found" || err.Error() == "invalid pool id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get pool",
		"pool":    pool,
	})
}

func (h *PoolHandler) CreatePool(c echo.Context) error {
	var req CreatePoolRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate pool request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pool := &domain.Pool{
		CampaignID:  req.CampaignID,
		PoolName:    req.PoolName,
		TotalBudget: req.TotalBudget,
		Status:      req.Status,
	}

	newPool, err := h.poolService.CreatePool(ctx, pool)
	if err != nil {
		logger.Error("Failed to create pool", err)
		// Check if it's a validation error
		if err.Error() == "pool name is required" ||
			err.Error() == "total budget must be greater than 0" ||
			err.Error() == "invalid pool status" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "pool successfully created",
		"pool":    newPool,
	})
}

func (h *PoolHandler) UpdatePool(c echo.Context) error {
	poolIDStr := c.Param("id")

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid pool id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	var req UpdatePoolRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate pool request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pool := &domain.Pool{
		ID:          poolID,
		CampaignID:  req.CampaignID,
		PoolName:    req.PoolName,
		TotalBudget: req.TotalBudget,
		Status:      req.Status,
	}

	updatedPool, err := h.poolService.UpdatePool(ctx, pool)
	if err != nil {
		logger.Error("Failed to update pool", err)
		// Check if pool not found
		if err.Error() == "pool not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		// Check if it's a validation error
		if err.Error() == "pool ID is required" ||
			err.Error() == "total budget must be greater than 0" ||
			err.Error() == "invalid pool status" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update pool",
		"pool":    updatedPool,
	})
}

func (h *PoolHandler) DeletePool(c echo.Context) error {
	poolIDStr := c.Param("id")

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid pool id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err = h.poolService.DeletePool(ctx, poolID)
	if err != nil {
		logger.Error("Failed to delete pool", err)
		// Check if pool not found
		if err.Error() == "pool not found" || err.Error() == "invalid pool id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "pool successfully deleted",
		"pool_id": poolID,
	})
}

// GetCurrentBudgets returns the live per-ad spend levels the next allocation
// cycle will treat as its baseline.
func (h *PoolHandler) GetCurrentBudgets(c echo.Context) error {
	poolIDStr := c.Param("id")

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		logger.Error("Invalid pool id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	budgets, err := h.poolService.GetCurrentBudgets(ctx, poolID)
	if err != nil {
		logger.Error("Failed to get current budgets", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get current budgets",
		"pool_id": poolID,
		"budgets": budgets,
	})
}
