//go:build !integration

package allocator

import (
	"errors"
	"math"
	"strings"
	"testing"

	"adPulse/domain"
)

// three mature ads with ROAS 5x / 3x / 1x competing for $300
func threeAdBatch() []domain.AdSnapshot {
	return []domain.AdSnapshot{
		{AdID: "winner", AgeHours: 96, Impressions: 10000, Clicks: 100, Spend: 100, PipelineValue: 500},
		{AdID: "middle", AgeHours: 96, Impressions: 10000, Clicks: 100, Spend: 100, PipelineValue: 300},
		{AdID: "loser", AgeHours: 96, Impressions: 10000, Clicks: 100, Spend: 100, PipelineValue: 100},
	}
}

func recByID(t *testing.T, recs []domain.BudgetRecommendation, id string) domain.BudgetRecommendation {
	t.Helper()
	for _, rec := range recs {
		if rec.AdID == id {
			return rec
		}
	}
	t.Fatalf("no recommendation for ad %q", id)
	return domain.BudgetRecommendation{}
}

func TestAllocateBudgetInvariant(t *testing.T) {
	cfg := DefaultConfig()

	result, err := Allocate(AllocationInput{
		Snapshots:   threeAdBatch(),
		TotalBudget: 300,
	}, cfg)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	sum := result.UnallocatedBudget
	for _, rec := range result.Recommendations {
		sum += rec.RecommendedBudget
		if rec.RecommendedBudget < 0 {
			t.Errorf("ad %s: negative budget %v", rec.AdID, rec.RecommendedBudget)
		}
		if rec.Breakdown.FinalScore > 0 && rec.RecommendedBudget <= 0 {
			t.Errorf("ad %s: positive score %v got zero budget", rec.AdID, rec.Breakdown.FinalScore)
		}
	}
	if math.Abs(sum-300) > 0.01 {
		t.Errorf("recommended + unallocated = %v, want 300", sum)
	}
}

func TestAllocateOrderingFollowsScores(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBudgetChangePct = 0 // uncapped, so the raw ordering is visible

	result, err := Allocate(AllocationInput{
		Snapshots:   threeAdBatch(),
		TotalBudget: 300,
	}, cfg)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	winner := recByID(t, result.Recommendations, "winner")
	middle := recByID(t, result.Recommendations, "middle")
	loser := recByID(t, result.Recommendations, "loser")

	if !(winner.RecommendedBudget > middle.RecommendedBudget) ||
		!(middle.RecommendedBudget > loser.RecommendedBudget) {
		t.Errorf("budgets not strictly ordered: %v > %v > %v expected",
			winner.RecommendedBudget, middle.RecommendedBudget, loser.RecommendedBudget)
	}
	if loser.RecommendedBudget <= 0 {
		t.Errorf("loser budget = %v, softmax must not zero anyone out", loser.RecommendedBudget)
	}

	total := winner.RecommendedBudget + middle.RecommendedBudget + loser.RecommendedBudget
	if math.Abs(total-300) > 0.01 {
		t.Errorf("budgets sum to %v, want 300.00", total)
	}
}

func TestAllocateChangeRateBound(t *testing.T) {
	cfg := DefaultConfig() // 0.5 cap

	result, err := Allocate(AllocationInput{
		Snapshots:   threeAdBatch(),
		TotalBudget: 300,
		CurrentBudgets: map[string]float64{
			"winner": 40, "middle": 120, "loser": 140,
		},
	}, cfg)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	for _, rec := range result.Recommendations {
		if math.Abs(rec.ChangePercentage) > 50+1e-9 {
			t.Errorf("ad %s: change %v%% exceeds the 50%% cap", rec.AdID, rec.ChangePercentage)
		}
	}

	sum := result.UnallocatedBudget
	for _, rec := range result.Recommendations {
		sum += rec.RecommendedBudget
	}
	if math.Abs(sum-300) > 0.01 {
		t.Errorf("recommended + unallocated = %v, want 300", sum)
	}
}

func TestAllocateSingleAdScenario(t *testing.T) {
	cfg := DefaultConfig()

	result, err := Allocate(AllocationInput{
		Snapshots: []domain.AdSnapshot{
			{AdID: "solo", AgeHours: 12, Impressions: 2000, Clicks: 80, Spend: 50, PipelineValue: 150},
		},
		TotalBudget:    250,
		CurrentBudgets: map[string]float64{"solo": 100},
	}, cfg)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	rec := result.Recommendations[0]
	if rec.RecommendedBudget > 150+1e-9 {
		t.Errorf("budget = %v, want at most 150 (current 100, 50%% cap)", rec.RecommendedBudget)
	}
	if rec.ChangePercentage > 50+1e-9 {
		t.Errorf("change = %v%%, want at most 50%%", rec.ChangePercentage)
	}
	if math.Abs(rec.RecommendedBudget+result.UnallocatedBudget-250) > 0.01 {
		t.Errorf("budget %v + unallocated %v do not account for 250",
			rec.RecommendedBudget, result.UnallocatedBudget)
	}
	if !strings.Contains(rec.Reason, "cap") {
		t.Errorf("reason does not mention the cap: %q", rec.Reason)
	}
}

func TestAllocateDNABoostLiftsBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBudgetChangePct = 0

	base := AllocationInput{
		Snapshots:   threeAdBatch(),
		TotalBudget: 300,
	}

	plain, err := Allocate(base, cfg)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	boosted, err := Allocate(AllocationInput{
		Snapshots:    threeAdBatch(),
		TotalBudget:  300,
		Similarities: map[string]float64{"middle": 0.95},
	}, cfg)
	if err != nil {
		t.Fatalf("allocate with similarity: %v", err)
	}

	before := recByID(t, plain.Recommendations, "middle")
	after := recByID(t, boosted.Recommendations, "middle")

	if math.Abs(after.Breakdown.DNABoost-1.19) > 1e-9 {
		t.Errorf("dna boost = %v, want 1.19 for similarity 0.95", after.Breakdown.DNABoost)
	}
	if after.RecommendedBudget <= before.RecommendedBudget {
		t.Errorf("boosted budget %v not above unboosted %v",
			after.RecommendedBudget, before.RecommendedBudget)
	}
	if !strings.Contains(after.Reason, "winning pattern") {
		t.Errorf("reason does not mention the pattern match: %q", after.Reason)
	}

	unboosted := recByID(t, boosted.Recommendations, "winner")
	if unboosted.Breakdown.DNABoost != 1.0 {
		t.Errorf("ad without a similarity entry got boost %v", unboosted.Breakdown.DNABoost)
	}
}

func TestAllocateErrorKinds(t *testing.T) {
	cfg := DefaultConfig()

	_, err := Allocate(AllocationInput{Snapshots: threeAdBatch(), TotalBudget: 0}, cfg)
	if !errors.Is(err, ErrNonPositiveBudget) {
		t.Errorf("zero budget: err = %v, want ErrNonPositiveBudget", err)
	}

	_, err = Allocate(AllocationInput{Snapshots: threeAdBatch(), TotalBudget: -50}, cfg)
	if !errors.Is(err, ErrNonPositiveBudget) {
		t.Errorf("negative budget: err = %v, want ErrNonPositiveBudget", err)
	}

	_, err = Allocate(AllocationInput{TotalBudget: 100}, cfg)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("no snapshots: err = %v, want ErrEmptyBatch", err)
	}
}

func TestAllocateInvalidSnapshotPolicies(t *testing.T) {
	bad := domain.AdSnapshot{AdID: "bad", AgeHours: 10, Impressions: 100, Clicks: 500, Spend: 10}
	good := threeAdBatch()

	failCfg := DefaultConfig()
	failCfg.InvalidPolicy = FailBatch

	_, err := Allocate(AllocationInput{
		Snapshots:   append([]domain.AdSnapshot{bad}, good...),
		TotalBudget: 300,
	}, failCfg)
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("fail policy: err = %v, want ErrInvalidSnapshot", err)
	}

	skipCfg := DefaultConfig()
	skipCfg.InvalidPolicy = SkipAndReport

	result, err := Allocate(AllocationInput{
		Snapshots:   append([]domain.AdSnapshot{bad}, good...),
		TotalBudget: 300,
	}, skipCfg)
	if err != nil {
		t.Fatalf("skip policy: %v", err)
	}

	if len(result.Skipped) != 1 || result.Skipped[0].AdID != "bad" {
		t.Fatalf("skipped = %+v, want the one bad ad reported", result.Skipped)
	}
	if !strings.Contains(result.Skipped[0].Reason, "clicks") {
		t.Errorf("skip reason does not name the field: %q", result.Skipped[0].Reason)
	}
	if len(result.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want the 3 valid ads", len(result.Recommendations))
	}

	// the full budget still lands on the valid ads
	sum := result.UnallocatedBudget
	for _, rec := range result.Recommendations {
		sum += rec.RecommendedBudget
	}
	if math.Abs(sum-300) > 0.01 {
		t.Errorf("recommended + unallocated = %v, want 300", sum)
	}
}

func TestAllocateAllInvalidUnderSkipPolicy(t *testing.T) {
	cfg := DefaultConfig()

	result, err := Allocate(AllocationInput{
		Snapshots: []domain.AdSnapshot{
			{AdID: "x", Impressions: -1},
			{AdID: "y", Spend: -3},
		},
		TotalBudget: 100,
	}, cfg)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("err = %v, want ErrEmptyBatch", err)
	}
	if len(result.Skipped) != 2 {
		t.Errorf("skipped = %+v, want both ads reported", result.Skipped)
	}
}

func TestAllocateDegenerateBatchSplitsEqually(t *testing.T) {
	cfg := DefaultConfig()

	result, err := Allocate(AllocationInput{
		Snapshots: []domain.AdSnapshot{
			{AdID: "a", AgeHours: 1},
			{AdID: "b", AgeHours: 2},
			{AdID: "c", AgeHours: 3},
		},
		TotalBudget: 300,
	}, cfg)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	if !result.Degenerate {
		t.Fatal("batch with no impressions and no spend not flagged degenerate")
	}
	for _, rec := range result.Recommendations {
		if math.Abs(rec.RecommendedBudget-100) > 0.01 {
			t.Errorf("ad %s budget = %v, want equal split of 100", rec.AdID, rec.RecommendedBudget)
		}
		if !strings.Contains(rec.Reason, "equally") {
			t.Errorf("ad %s reason does not explain the fallback: %q", rec.AdID, rec.Reason)
		}
	}
}

func TestAllocateConfidenceAttachedAndBounded(t *testing.T) {
	cfg := DefaultConfig()

	result, err := Allocate(AllocationInput{
		Snapshots:   threeAdBatch(),
		TotalBudget: 300,
	}, cfg)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	for _, rec := range result.Recommendations {
		if rec.Confidence < 0 || rec.Confidence > 1 {
			t.Errorf("ad %s confidence = %v, outside [0,1]", rec.AdID, rec.Confidence)
		}
		if rec.Reason == "" {
			t.Errorf("ad %s has no reason text", rec.AdID)
		}
	}
}
