package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ScoreBreakdown carries every intermediate of one ad's scoring pass so that
// debug endpoints and run history can show how a recommendation was reached.
type ScoreBreakdown struct {
	AdID           string  `json:"ad_id"`
	CTRWeight      float64 `json:"ctr_weight"`
	ROASWeight     float64 `json:"roas_weight"`      // 1 - ctr_weight
	NormalizedCTR  float64 `json:"normalized_ctr"`   // 0–1
	NormalizedROAS float64 `json:"normalized_roas"`  // 0–1
	BlendedScore   float64 `json:"blended_score"`
	DecayFactor    float64 `json:"decay_factor"`     // (0,1]
	DNABoost       float64 `json:"dna_boost"`        // 1.0–1.2
	FinalScore     float64 `json:"final_score"`      // blended × decay × boost
}

type BudgetRecommendation struct {
	AdID              string         `json:"ad_id"`
	CurrentBudget     float64        `json:"current_budget"`
	RecommendedBudget float64        `json:"recommended_budget"`
	ChangePercentage  float64        `json:"change_percentage"`
	Confidence        float64        `json:"confidence"`
	Reason            string         `json:"reason"`
	Breakdown         ScoreBreakdown `json:"breakdown"`
}

// SkippedAd records an ad dropped from a batch under the skip policy, with the
// validation failure that excluded it.
type SkippedAd struct {
	AdID   string `json:"ad_id"`
	Reason string `json:"reason"`
}

// CREATE TABLE public.allocation_runs (
//     id                  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     run_id              TEXT UNIQUE NOT NULL,
//     pool_id             BIGINT NOT NULL,
//     total_budget        NUMERIC,
//     unallocated_budget  NUMERIC,
//     degenerate          BOOLEAN DEFAULT FALSE,
//     recommendations     JSONB,
//     skipped             JSONB,
//     triggered_by        TEXT,
//     created_at          TIMESTAMPTZ DEFAULT NOW()
// );

type AllocationRun struct {
	ID                uint64         `gorm:"primaryKey;autoIncrement" json:"-"`
	RunID             string         `gorm:"column:run_id;uniqueIndex;not null" json:"run_id"`
	PoolID            uint64         `gorm:"column:pool_id;not null;index" json:"pool_id"`
	TotalBudget       float64        `gorm:"column:total_budget;type:numeric" json:"total_budget"`
	UnallocatedBudget float64        `gorm:"column:unallocated_budget;type:numeric" json:"unallocated_budget"`
	Degenerate        bool           `gorm:"column:degenerate;default:false" json:"degenerate"`
	Recommendations   datatypes.JSON `gorm:"column:recommendations;type:jsonb" json:"recommendations"`
	Skipped           datatypes.JSON `gorm:"column:skipped;type:jsonb" json:"skipped"`
	TriggeredBy       string         `gorm:"column:triggered_by" json:"triggered_by"` // api | cron
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AllocationRun) TableName() string {
	return "allocation_runs"
}
