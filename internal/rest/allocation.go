package rest

import (
	"adPulse/business/allocator"
	"adPulse/domain"
	"adPulse/pkg/metrics"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	AllocationHandler struct {
		validate         *validator.Validate
		allocatorService AllocatorService
	}

	AllocatorService interface {
		RunPool(ctx context.Context, poolID uint64, triggeredBy string) (allocator.RunOutput, error)
		RunActivePools(ctx context.Context, triggeredBy string) ([]allocator.PoolRunOutcome, error)
		Preview(ctx context.Context, poolID uint64, input allocator.AllocationInput) (allocator.AllocationResult, error)
		DebugPool(ctx context.Context, poolID uint64) (allocator.AllocationResult, error)
		GetRun(ctx context.Context, runID string) (domain.AllocationRun, error)
		ListRuns(ctx context.Context, poolID uint64, limit int) ([]domain.AllocationRun, error)
	}

	PreviewRequest struct {
		TotalBudget    float64             `json:"total_budget"`
		Snapshots      []domain.AdSnapshot `json:"snapshots"`
		CurrentBudgets map[string]float64  `json:"current_budgets"`
		Similarities   map[string]float64  `json:"similarities"`
	}

	// PoolRunSummary is the wire shape of one pool's outcome in a sweep; the
	// error field is a string so failed pools still marshal.
	PoolRunSummary struct {
		PoolID            uint64  `json:"pool_id"`
		PoolName          string  `json:"pool_name"`
		RunID             string  `json:"run_id,omitempty"`
		Ads               int     `json:"ads"`
		TotalBudget       float64 `json:"total_budget"`
		UnallocatedBudget float64 `json:"unallocated_budget"`
		Degenerate        bool    `json:"degenerate"`
		Error             string  `json:"error,omitempty"`
	}
)

func NewAllocationHandler(svc AllocatorService) *AllocationHandler {
	return &AllocationHandler{
		validate:         validator.New(),
		allocatorService: svc,
	}
}

// badAllocationInput reports whether the failure came from the caller's batch
// rather than from storage or the scorer itself.
func badAllocationInput(err error) bool {
	return errors.Is(err, allocator.ErrInvalidSnapshot) ||
		errors.Is(err, allocator.ErrEmptyBatch) ||
		errors.Is(err, allocator.ErrNonPositiveBudget)
}

// POST /api/v1/pools/:id/allocations/run
func (h *AllocationHandler) RunPool(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.AllocationRunLatency.Observe(time.Since(start).Seconds())
	}()

	poolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	out, err := h.allocatorService.RunPool(c.Request().Context(), poolID, "api")
	if err != nil {
		if badAllocationInput(err) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(out.Run))
}

// POST /api/v1/allocations/run
func (h *AllocationHandler) RunAll(c echo.Context) error {
	outcomes, err := h.allocatorService.RunActivePools(c.Request().Context(), "api")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	summaries := make([]PoolRunSummary, 0, len(outcomes))
	for _, out := range outcomes {
		s := PoolRunSummary{
			PoolID:            out.PoolID,
			PoolName:          out.PoolName,
			RunID:             out.RunID,
			Ads:               out.Ads,
			TotalBudget:       out.TotalBudget,
			UnallocatedBudget: out.UnallocatedBudget,
			Degenerate:        out.Degenerate,
		}
		if out.Err != nil {
			s.Error = out.Err.Error()
		}
		summaries = append(summaries, s)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summaries))
}

// POST /api/v1/pools/:id/allocations/preview
// Scores a caller-supplied batch without persisting or publishing anything.
func (h *AllocationHandler) Preview(c echo.Context) error {
	metrics.AllocationPreviewRequests.Inc()

	poolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	result, err := h.allocatorService.Preview(c.Request().Context(), poolID, allocator.AllocationInput{
		Snapshots:      req.Snapshots,
		TotalBudget:    req.TotalBudget,
		CurrentBudgets: req.CurrentBudgets,
		Similarities:   req.Similarities,
	})
	if err != nil {
		if badAllocationInput(err) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/pools/:id/allocations/debug
// Full score breakdowns for the pool's latest snapshots, nothing persisted.
func (h *AllocationHandler) Debug(c echo.Context) error {
	poolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	result, err := h.allocatorService.DebugPool(c.Request().Context(), poolID)
	if err != nil {
		if badAllocationInput(err) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/allocations/runs/:run_id
func (h *AllocationHandler) GetRun(c echo.Context) error {
	runID := c.Param("run_id")
	if runID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "run id is required"})
	}

	run, err := h.allocatorService.GetRun(c.Request().Context(), runID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(run))
}

// GET /api/v1/pools/:id/allocations?limit=20
func (h *AllocationHandler) ListRuns(c echo.Context) error {
	poolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pool id"})
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
	}

	runs, err := h.allocatorService.ListRuns(c.Request().Context(), poolID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(runs))
}
