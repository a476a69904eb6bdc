package rest

import (
	"adPulse/business/allocator"
	"adPulse/domain"
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// AllocatorConfigService merges pool rows over the baked-in defaults.
type AllocatorConfigService interface {
	GetConfig(ctx context.Context, poolID uint64) (allocator.Config, error)
	UpsertConfig(ctx context.Context, cfg domain.AllocatorConfig) error
}

type AllocationAdminHandler struct {
	cfgRepo    allocator.ConfigRepository
	cfgService AllocatorConfigService
}

func NewAllocationAdminHandler(
	cfgRepo allocator.ConfigRepository,
	cfgService AllocatorConfigService,
) *AllocationAdminHandler {
	return &AllocationAdminHandler{
		cfgRepo:    cfgRepo,
		cfgService: cfgService,
	}
}

// GET /api/v1/admin/allocator/config?pool_id=7
// Returns the stored row only; pool_id=0 is the global defaults row.
func (h *AllocationAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()
	poolIDStr := c.QueryParam("pool_id")

	if poolIDStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "pool_id is required",
		})
	}

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid pool_id",
		})
	}

	cfg, ok, err := h.cfgRepo.GetConfig(ctx, poolID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "config not found",
		})
	}

	return c.JSON(http.StatusOK, cfg)
}

// GET /api/v1/admin/allocator/config/effective?pool_id=7
// Returns what a run for this pool would actually use: pool row, then the
// global row, then baked-in defaults.
func (h *AllocationAdminHandler) GetEffectiveConfig(c echo.Context) error {
	ctx := c.Request().Context()
	poolIDStr := c.QueryParam("pool_id")

	if poolIDStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "pool_id is required",
		})
	}

	poolID, err := strconv.ParseUint(poolIDStr, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid pool_id",
		})
	}

	cfg, err := h.cfgService.GetConfig(ctx, poolID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"pool_id": poolID,
		"config":  cfg,
	})
}

// PUT /api/v1/admin/allocator/config
// body: AllocatorConfig JSON; pool_id 0 writes the global defaults row
func (h *AllocationAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()

	var body domain.AllocatorConfig
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}

	if err := h.cfgService.UpsertConfig(ctx, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
