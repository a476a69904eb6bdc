package domain

import "time"

// AllocatorConfig is the per-pool tunables row. PoolID 0 holds the global
// defaults; a pool-specific row overrides them wholesale.
type AllocatorConfig struct {
	PoolID uint64 `json:"pool_id" gorm:"column:pool_id;primaryKey"`

	DecayConstant      float64 `json:"decay_constant" gorm:"column:decay_constant"`
	MaxBudgetChangePct float64 `json:"max_budget_change_pct" gorm:"column:max_budget_change_pct"`
	Temperature        float64 `json:"temperature" gorm:"column:temperature"`

	// normalization ceilings for the two raw signals
	CTRCeiling  float64 `json:"ctr_ceiling" gorm:"column:ctr_ceiling"`
	ROASCeiling float64 `json:"roas_ceiling" gorm:"column:roas_ceiling"`

	// ctr-weight ramp: flat 1.0 until EarlyPhaseHours, down to MatureCTRWeight
	// at MaturePhaseHours, flat after
	EarlyPhaseHours  float64 `json:"early_phase_hours" gorm:"column:early_phase_hours"`
	MaturePhaseHours float64 `json:"mature_phase_hours" gorm:"column:mature_phase_hours"`
	MatureCTRWeight  float64 `json:"mature_ctr_weight" gorm:"column:mature_ctr_weight"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}
