package rest

import (
	"adPulse/business/allocator"
	"adPulse/domain"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAllocatorService struct {
	runOut     allocator.RunOutput
	runErr     error
	outcomes   []allocator.PoolRunOutcome
	sweepErr   error
	previewOut allocator.AllocationResult
	previewErr error
	run        domain.AllocationRun
	getErr     error
	runs       []domain.AllocationRun
	listErr    error

	gotPoolID      uint64
	gotTriggeredBy string
	gotLimit       int
	gotInput       allocator.AllocationInput
}

func (s *stubAllocatorService) RunPool(_ context.Context, poolID uint64, triggeredBy string) (allocator.RunOutput, error) {
	s.gotPoolID = poolID
	s.gotTriggeredBy = triggeredBy
	return s.runOut, s.runErr
}

func (s *stubAllocatorService) RunActivePools(_ context.Context, triggeredBy string) ([]allocator.PoolRunOutcome, error) {
	s.gotTriggeredBy = triggeredBy
	return s.outcomes, s.sweepErr
}

func (s *stubAllocatorService) Preview(_ context.Context, poolID uint64, input allocator.AllocationInput) (allocator.AllocationResult, error) {
	s.gotPoolID = poolID
	s.gotInput = input
	return s.previewOut, s.previewErr
}

func (s *stubAllocatorService) DebugPool(_ context.Context, poolID uint64) (allocator.AllocationResult, error) {
	s.gotPoolID = poolID
	return s.previewOut, s.previewErr
}

func (s *stubAllocatorService) GetRun(_ context.Context, runID string) (domain.AllocationRun, error) {
	return s.run, s.getErr
}

func (s *stubAllocatorService) ListRuns(_ context.Context, poolID uint64, limit int) ([]domain.AllocationRun, error) {
	s.gotPoolID = poolID
	s.gotLimit = limit
	return s.runs, s.listErr
}

func newAllocationContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRunPoolRejectsBadPoolID(t *testing.T) {
	stub := &stubAllocatorService{}
	handler := NewAllocationHandler(stub)

	c, rec := newAllocationContext(http.MethodPost, "/", "")
	c.SetPath("/api/v1/pools/:id/allocations/run")
	c.SetParamNames("id")
	c.SetParamValues("not-a-number")

	require.NoError(t, handler.RunPool(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid pool id")
}

func TestRunPoolTriggersServiceWithAPISource(t *testing.T) {
	stub := &stubAllocatorService{
		runOut: allocator.RunOutput{
			Run: domain.AllocationRun{RunID: "run_20250811_pool7", PoolID: 7},
		},
	}
	handler := NewAllocationHandler(stub)

	c, rec := newAllocationContext(http.MethodPost, "/", "")
	c.SetPath("/api/v1/pools/:id/allocations/run")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, handler.RunPool(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(7), stub.gotPoolID)
	assert.Equal(t, "api", stub.gotTriggeredBy)
	assert.Contains(t, rec.Body.String(), "run_20250811_pool7")
}

func TestRunPoolMapsAllocatorErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"empty batch", allocator.ErrEmptyBatch, http.StatusBadRequest},
		{"non positive budget", allocator.ErrNonPositiveBudget, http.StatusBadRequest},
		{"pool missing", errors.New("pool not found"), http.StatusNotFound},
		{"storage failure", errors.New("failed to save allocation run"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAllocatorService{runErr: tc.err}
			handler := NewAllocationHandler(stub)

			c, rec := newAllocationContext(http.MethodPost, "/", "")
			c.SetPath("/api/v1/pools/:id/allocations/run")
			c.SetParamNames("id")
			c.SetParamValues("7")

			require.NoError(t, handler.RunPool(c))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestRunAllReportsFailedPoolsInline(t *testing.T) {
	stub := &stubAllocatorService{
		outcomes: []allocator.PoolRunOutcome{
			{PoolID: 1, PoolName: "spring promo", RunID: "run_a", Ads: 3, TotalBudget: 300},
			{PoolID: 2, PoolName: "retargeting", Err: errors.New("no snapshots for pool")},
		},
	}
	handler := NewAllocationHandler(stub)

	c, rec := newAllocationContext(http.MethodPost, "/", "")
	c.SetPath("/api/v1/allocations/run")

	require.NoError(t, handler.RunAll(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "run_a")
	assert.Contains(t, body, "retargeting")
	// only the failed pool carries an error string
	assert.Equal(t, 1, strings.Count(body, "no snapshots for pool"))
}

func TestPreviewForwardsCallerBatch(t *testing.T) {
	stub := &stubAllocatorService{
		previewOut: allocator.AllocationResult{
			Recommendations: []domain.BudgetRecommendation{{AdID: "ad_a", RecommendedBudget: 250}},
		},
	}
	handler := NewAllocationHandler(stub)

	body := `{
		"total_budget": 250,
		"snapshots": [{"pool_id": 7, "ad_id": "ad_a", "impressions": 9000, "clicks": 180, "spend": 120, "pipeline_value": 480, "age_hours": 30}],
		"current_budgets": {"ad_a": 100}
	}`
	c, rec := newAllocationContext(http.MethodPost, "/", body)
	c.SetPath("/api/v1/pools/:id/allocations/preview")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, handler.Preview(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 250.0, stub.gotInput.TotalBudget)
	require.Len(t, stub.gotInput.Snapshots, 1)
	assert.Equal(t, "ad_a", stub.gotInput.Snapshots[0].AdID)
	assert.Equal(t, 100.0, stub.gotInput.CurrentBudgets["ad_a"])
}

func TestPreviewMapsBadBatchToBadRequest(t *testing.T) {
	stub := &stubAllocatorService{previewErr: allocator.ErrNonPositiveBudget}
	handler := NewAllocationHandler(stub)

	c, rec := newAllocationContext(http.MethodPost, "/", `{"total_budget": 0, "snapshots": []}`)
	c.SetPath("/api/v1/pools/:id/allocations/preview")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, handler.Preview(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "total budget must be positive")
}

func TestGetRunNotFound(t *testing.T) {
	stub := &stubAllocatorService{getErr: errors.New("allocation run not found")}
	handler := NewAllocationHandler(stub)

	c, rec := newAllocationContext(http.MethodGet, "/", "")
	c.SetPath("/api/v1/allocations/runs/:run_id")
	c.SetParamNames("run_id")
	c.SetParamValues("run_missing")

	require.NoError(t, handler.GetRun(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRunsPassesLimitThrough(t *testing.T) {
	stub := &stubAllocatorService{runs: []domain.AllocationRun{{RunID: "run_a"}}}
	handler := NewAllocationHandler(stub)

	c, rec := newAllocationContext(http.MethodGet, "/?limit=5", "")
	c.SetPath("/api/v1/pools/:id/allocations")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, handler.ListRuns(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), stub.gotPoolID)
	assert.Equal(t, 5, stub.gotLimit)
}

func TestListRunsRejectsBadLimit(t *testing.T) {
	stub := &stubAllocatorService{}
	handler := NewAllocationHandler(stub)

	c, rec := newAllocationContext(http.MethodGet, "/?limit=lots", "")
	c.SetPath("/api/v1/pools/:id/allocations")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, handler.ListRuns(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
