package allocator

import (
	"adPulse/domain"
	"adPulse/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ---- Repository interfaces ----

// SnapshotSource supplies the latest performance reading per ad in a pool.
type SnapshotSource interface {
	LatestByPool(ctx context.Context, poolID uint64) ([]domain.AdSnapshot, error)
}

type PoolRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Pool, error)
	FindActive(ctx context.Context) ([]domain.Pool, error)
	GetCurrentBudgets(ctx context.Context, poolID uint64) (map[string]float64, error)
}

type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.AllocationRun) error
	FindByRunID(ctx context.Context, runID string) (domain.AllocationRun, error)
	FindByPool(ctx context.Context, poolID uint64, limit int) ([]domain.AllocationRun, error)
}

// Publisher applies a finished run to the live ad platform. The in-repo
// implementation only records budgets locally; platform API semantics live
// with the real publishing collaborator.
type Publisher interface {
	Publish(ctx context.Context, poolID uint64, recs []domain.BudgetRecommendation) error
}

// ---- Usecase / Service ----

type AllocatorService struct {
	snapshotSrc SnapshotSource
	poolRepo    PoolRepository
	runRepo     RunRepository
	simProvider SimilarityProvider
	cfgRepo     ConfigRepository
	publisher   Publisher
	defaultCfg  Config
}

func NewAllocatorService(
	snapshotSrc SnapshotSource,
	poolRepo PoolRepository,
	runRepo RunRepository,
	simProvider SimilarityProvider,
	cfgRepo ConfigRepository,
	publisher Publisher,
	defaultCfg Config,
) *AllocatorService {
	return &AllocatorService{
		snapshotSrc: snapshotSrc,
		poolRepo:    poolRepo,
		runRepo:     runRepo,
		simProvider: simProvider,
		cfgRepo:     cfgRepo,
		publisher:   publisher,
		defaultCfg:  defaultCfg,
	}
}

// RunOutput pairs the persisted run row with the structured result that
// produced it.
type RunOutput struct {
	Run    domain.AllocationRun
	Result AllocationResult
}

// PoolRunOutcome is one pool's result within a sweep, for logs and digests.
type PoolRunOutcome struct {
	PoolID            uint64
	PoolName          string
	RunID             string
	Ads               int
	TotalBudget       float64
	UnallocatedBudget float64
	Degenerate        bool
	Err               error
}

// RunPool executes one refresh cycle for a pool: fetch the latest snapshots
// and current budgets, allocate, persist the run, hand the result to the
// publisher.
func (s *AllocatorService) RunPool(ctx context.Context, poolID uint64, triggeredBy string) (RunOutput, error) {
	if err := ctx.Err(); err != nil {
		return RunOutput{}, fmt.Errorf("context error: %w", err)
	}

	poolLabel := strconv.FormatUint(poolID, 10)

	pool, err := s.poolRepo.FindByID(ctx, poolID)
	if err != nil {
		AllocationRunsTotal.WithLabelValues(poolLabel, "error", triggeredBy).Inc()
		return RunOutput{}, fmt.Errorf("load pool %d: %w", poolID, err)
	}

	snaps, err := s.snapshotSrc.LatestByPool(ctx, poolID)
	if err != nil {
		AllocationRunsTotal.WithLabelValues(poolLabel, "error", triggeredBy).Inc()
		return RunOutput{}, fmt.Errorf("load snapshots for pool %d: %w", poolID, err)
	}

	current, err := s.poolRepo.GetCurrentBudgets(ctx, poolID)
	if err != nil {
		AllocationRunsTotal.WithLabelValues(poolLabel, "error", triggeredBy).Inc()
		return RunOutput{}, fmt.Errorf("load current budgets for pool %d: %w", poolID, err)
	}

	cfg := s.loadConfig(ctx, poolID)
	sims := s.lookupSimilarities(ctx, snaps)

	result, err := Allocate(AllocationInput{
		Snapshots:      snaps,
		TotalBudget:    pool.TotalBudget,
		CurrentBudgets: current,
		Similarities:   sims,
	}, cfg)
	if err != nil {
		AllocationRunsTotal.WithLabelValues(poolLabel, "error", triggeredBy).Inc()
		return RunOutput{}, fmt.Errorf("allocate pool %d: %w", poolID, err)
	}

	tid := TraceIDFromContext(ctx)

	if result.Degenerate {
		logger.Warn("allocation_degenerate",
			"trace_id", tid,
			"pool_id", poolID,
			"ads", len(result.Recommendations),
		)
	}

	run, err := buildRun(poolID, pool.TotalBudget, result, triggeredBy)
	if err != nil {
		AllocationRunsTotal.WithLabelValues(poolLabel, "error", triggeredBy).Inc()
		return RunOutput{}, err
	}

	if err := s.runRepo.SaveRun(ctx, &run); err != nil {
		AllocationRunsTotal.WithLabelValues(poolLabel, "error", triggeredBy).Inc()
		return RunOutput{}, fmt.Errorf("save allocation run: %w", err)
	}

	// publishing failure never rolls back a persisted run; the next cycle
	// re-reads whatever budgets actually took effect
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, poolID, result.Recommendations); err != nil {
			logger.Error("allocation_publish_failed",
				"trace_id", tid,
				"pool_id", poolID,
				"run_id", run.RunID,
				"error", err,
			)
		}
	}

	logger.Debug("allocation_run",
		"trace_id", tid,
		"pool_id", poolID,
		"run_id", run.RunID,
		"ads", len(result.Recommendations),
		"skipped", len(result.Skipped),
		"total_budget", pool.TotalBudget,
		"unallocated", result.UnallocatedBudget,
		"degenerate", result.Degenerate,
	)

	AllocationRunsTotal.WithLabelValues(poolLabel, "ok", triggeredBy).Inc()
	if len(result.Skipped) > 0 {
		SnapshotsSkippedTotal.WithLabelValues(poolLabel).Add(float64(len(result.Skipped)))
	}
	UnallocatedBudgetGauge.WithLabelValues(poolLabel).Set(result.UnallocatedBudget)

	return RunOutput{Run: run, Result: result}, nil
}

// RunActivePools executes a refresh cycle for every active pool. Pools fail
// independently; one bad pool never blocks the rest.
func (s *AllocatorService) RunActivePools(ctx context.Context, triggeredBy string) ([]PoolRunOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	pools, err := s.poolRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active pools: %w", err)
	}

	outcomes := make([]PoolRunOutcome, 0, len(pools))
	for _, pool := range pools {
		out, err := s.RunPool(ctx, pool.ID, triggeredBy)
		outcome := PoolRunOutcome{
			PoolID:      pool.ID,
			PoolName:    pool.PoolName,
			TotalBudget: pool.TotalBudget,
			Err:         err,
		}
		if err != nil {
			logger.Error("allocation_pool_failed", "pool_id", pool.ID, "error", err)
		} else {
			outcome.RunID = out.Run.RunID
			outcome.Ads = len(out.Result.Recommendations)
			outcome.UnallocatedBudget = out.Result.UnallocatedBudget
			outcome.Degenerate = out.Result.Degenerate
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// Preview computes recommendations for caller-supplied snapshots without
// touching storage. When the caller leaves Similarities nil the provider is
// consulted; a non-nil empty map means "no boosts".
func (s *AllocatorService) Preview(ctx context.Context, poolID uint64, input AllocationInput) (AllocationResult, error) {
	if err := ctx.Err(); err != nil {
		return AllocationResult{}, fmt.Errorf("context error: %w", err)
	}

	cfg := s.loadConfig(ctx, poolID)

	if input.Similarities == nil {
		input.Similarities = s.lookupSimilarities(ctx, input.Snapshots)
	}

	return Allocate(input, cfg)
}

// DebugPool scores a pool's latest snapshots with full breakdowns, without
// persisting or publishing anything.
func (s *AllocatorService) DebugPool(ctx context.Context, poolID uint64) (AllocationResult, error) {
	if err := ctx.Err(); err != nil {
		return AllocationResult{}, fmt.Errorf("context error: %w", err)
	}

	pool, err := s.poolRepo.FindByID(ctx, poolID)
	if err != nil {
		return AllocationResult{}, fmt.Errorf("load pool %d: %w", poolID, err)
	}

	snaps, err := s.snapshotSrc.LatestByPool(ctx, poolID)
	if err != nil {
		return AllocationResult{}, fmt.Errorf("load snapshots for pool %d: %w", poolID, err)
	}

	current, err := s.poolRepo.GetCurrentBudgets(ctx, poolID)
	if err != nil {
		return AllocationResult{}, fmt.Errorf("load current budgets for pool %d: %w", poolID, err)
	}

	tid := TraceIDFromContext(ctx)
	logger.Debug("allocation_debug",
		"trace_id", tid,
		"pool_id", poolID,
		"candidate_count", len(snaps),
	)

	return Allocate(AllocationInput{
		Snapshots:      snaps,
		TotalBudget:    pool.TotalBudget,
		CurrentBudgets: current,
		Similarities:   s.lookupSimilarities(ctx, snaps),
	}, s.loadConfig(ctx, poolID))
}

// GetRun returns one persisted allocation run by its public run id.
func (s *AllocatorService) GetRun(ctx context.Context, runID string) (domain.AllocationRun, error) {
	if err := ctx.Err(); err != nil {
		return domain.AllocationRun{}, fmt.Errorf("context error: %w", err)
	}

	return s.runRepo.FindByRunID(ctx, runID)
}

// ListRuns returns a pool's most recent allocation runs, newest first.
func (s *AllocatorService) ListRuns(ctx context.Context, poolID uint64, limit int) ([]domain.AllocationRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = 20
	}

	return s.runRepo.FindByPool(ctx, poolID, limit)
}

// GetConfig exposes the effective config for a pool (admin surface).
func (s *AllocatorService) GetConfig(ctx context.Context, poolID uint64) (Config, error) {
	if err := ctx.Err(); err != nil {
		return Config{}, fmt.Errorf("context error: %w", err)
	}

	return s.loadConfig(ctx, poolID), nil
}

// UpsertConfig stores a per-pool tunables row (admin surface).
func (s *AllocatorService) UpsertConfig(ctx context.Context, cfg domain.AllocatorConfig) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if s.cfgRepo == nil {
		return fmt.Errorf("no allocator config repository configured")
	}

	return s.cfgRepo.UpsertConfig(ctx, cfg)
}

// lookupSimilarities resolves creative similarity per ad. Provider errors are
// logged and skipped so a broken index never blocks an allocation cycle.
func (s *AllocatorService) lookupSimilarities(ctx context.Context, snaps []domain.AdSnapshot) map[string]float64 {
	if s.simProvider == nil {
		return nil
	}

	out := make(map[string]float64, len(snaps))
	for _, snap := range snaps {
		sim, ok, err := s.simProvider.Lookup(ctx, snap.AdID)
		if err != nil {
			logger.Warn("similarity_lookup_failed", "ad_id", snap.AdID, "error", err)
			continue
		}
		if ok {
			out[snap.AdID] = sim
		}
	}

	return out
}

// buildRun freezes a result into its persistence row.
func buildRun(poolID uint64, totalBudget float64, result AllocationResult, triggeredBy string) (domain.AllocationRun, error) {
	recsRaw, err := json.Marshal(result.Recommendations)
	if err != nil {
		return domain.AllocationRun{}, fmt.Errorf("marshal recommendations: %w", err)
	}

	sk := result.Skipped
	if sk == nil {
		sk = []domain.SkippedAd{}
	}
	skippedRaw, err := json.Marshal(sk)
	if err != nil {
		return domain.AllocationRun{}, fmt.Errorf("marshal skipped ads: %w", err)
	}

	return domain.AllocationRun{
		RunID:             uuid.NewString(),
		PoolID:            poolID,
		TotalBudget:       totalBudget,
		UnallocatedBudget: result.UnallocatedBudget,
		Degenerate:        result.Degenerate,
		Recommendations:   datatypes.JSON(recsRaw),
		Skipped:           datatypes.JSON(skippedRaw),
		TriggeredBy:       triggeredBy,
	}, nil
}
