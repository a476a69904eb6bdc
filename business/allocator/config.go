package allocator

import (
	"adPulse/domain"
	"context"
)

// InvalidPolicy selects what a batch does with snapshots that fail validation.
type InvalidPolicy int

const (
	// FailBatch rejects the whole batch on the first invalid snapshot.
	FailBatch InvalidPolicy = iota
	// SkipAndReport drops invalid snapshots, reports each one, and allocates
	// the full budget across the rest.
	SkipAndReport
)

type Config struct {
	// exp(-DecayConstant * impressions) fatigue discount
	DecayConstant float64

	// per-cycle budget movement cap, as a fraction of current budget
	MaxBudgetChangePct float64

	// softmax temperature; lower = sharper winner separation
	Temperature float64

	// reference ceilings the raw signals are rescaled against
	CTRCeiling  float64
	ROASCeiling float64

	// ctr-weight ramp: flat 1.0 until EarlyPhaseHours, linear descent to
	// MatureCTRWeight at MaturePhaseHours, flat after
	EarlyPhaseHours  float64
	MaturePhaseHours float64
	MatureCTRWeight  float64

	InvalidPolicy InvalidPolicy
}

const (
	defaultDecayConstant      = 0.00005
	defaultMaxBudgetChangePct = 0.5
	defaultTemperature        = 0.25
	defaultCTRCeiling         = 0.05
	defaultROASCeiling        = 4.0
	defaultEarlyPhaseHours    = 6.0
	defaultMaturePhaseHours   = 72.0
	defaultMatureCTRWeight    = 0.25
)

func DefaultConfig() Config {
	return Config{
		DecayConstant:      defaultDecayConstant,
		MaxBudgetChangePct: defaultMaxBudgetChangePct,
		Temperature:        defaultTemperature,

		CTRCeiling:  defaultCTRCeiling,
		ROASCeiling: defaultROASCeiling,

		EarlyPhaseHours:  defaultEarlyPhaseHours,
		MaturePhaseHours: defaultMaturePhaseHours,
		MatureCTRWeight:  defaultMatureCTRWeight,

		InvalidPolicy: SkipAndReport,
	}
}

// read per-pool allocator config from DB.
type ConfigRepository interface {
	GetConfig(ctx context.Context, poolID uint64) (domain.AllocatorConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.AllocatorConfig) error
}
