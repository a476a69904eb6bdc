package rest

import (
	"adPulse/domain"
	"adPulse/pkg/logger"
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PatternService interface {
	GetAllPatterns(ctx context.Context) ([]domain.WinningPattern, error)
	UpsertPattern(ctx context.Context, pattern *domain.WinningPattern) (*domain.WinningPattern, error)
	DeletePattern(ctx context.Context, creativeKey string) error
	RefreshCreative(ctx context.Context, creativeKey string) error
}

type PatternHandler struct {
	patternService PatternService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewPatternHandler(patternService PatternService) *PatternHandler {
	return &PatternHandler{
		patternService: patternService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type UpsertPatternRequest struct {
	CreativeKey string  `json:"creative_key" validate:"required"`
	PatternID   string  `json:"pattern_id"`
	Similarity  float64 `json:"similarity" validate:"gte=0,lte=1"`
	Source      string  `json:"source" validate:"omitempty,oneof=index manual"`
}

// GET /api/v1/admin/patterns
func (h *PatternHandler) GetAllPatterns(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	patterns, err := h.patternService.GetAllPatterns(ctx)
	if err != nil {
		logger.Error("Failed to find all patterns", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all patterns",
		"patterns": patterns,
	})
}

// PUT /api/v1/admin/patterns
func (h *PatternHandler) UpsertPattern(c echo.Context) error {
	var req UpsertPatternRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate pattern request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pattern := &domain.WinningPattern{
		CreativeKey: req.CreativeKey,
		PatternID:   req.PatternID,
		Similarity:  req.Similarity,
		Source:      req.Source,
	}

	saved, err := h.patternService.UpsertPattern(ctx, pattern)
	if err != nil {
		logger.Error("Failed to upsert pattern", err)
		// Check if it's a validation error
		if err.Error() == "creative key is required" ||
			err.Error() == "similarity must be between 0 and 1" ||
			err.Error() == "invalid pattern source" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "pattern successfully upserted",
		"pattern": saved,
	})
}

// DELETE /api/v1/admin/patterns/:creative_key
func (h *PatternHandler) DeletePattern(c echo.Context) error {
	creativeKey := c.Param("creative_key")
	if creativeKey == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "creative key is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.patternService.DeletePattern(ctx, creativeKey); err != nil {
		logger.Error("Failed to delete pattern", err)
		if err.Error() == "creative key is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "pattern successfully deleted",
		"creative_key": creativeKey,
	})
}

type (
	PatternWebhookController struct {
		patternService    PatternService
		verificationToken string
		validate          *validator.Validate
	}

	PatternWebhookRequest struct {
		CreativeKey string `json:"creative_key" validate:"required"`
		Event       string `json:"event"`
	}
)

func NewPatternWebhookController(patternService PatternService, verificationToken string) *PatternWebhookController {
	return &PatternWebhookController{
		patternService:    patternService,
		verificationToken: verificationToken,
		validate:          validator.New(),
	}
}

// POST /api/v1/webhook/patterns
// The pattern index calls this when a creative's similarity changes; the
// handler drops the cached value and re-syncs the local row.
func (ctrl PatternWebhookController) HandleWebhook(c echo.Context) error {
	token := c.Request().Header.Get("x-webhook-token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(ctrl.verificationToken)) != 1 {
		logger.Warn("pattern webhook rejected: bad verification token")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid webhook token"})
	}

	var request PatternWebhookRequest
	if err := c.Bind(&request); err != nil {
		logger.Error("Failed to bind webhook request", err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("Invalid request"))
	}

	if err := ctrl.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}

	logger.Info("pattern webhook received", "creative_key", request.CreativeKey, "event", request.Event)

	if err := ctrl.patternService.RefreshCreative(c.Request().Context(), request.CreativeKey); err != nil {
		logger.Error("Failed to refresh creative from webhook", err)
		return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(http.StatusOK))
}
