package allocator

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultsFile is the YAML shape for overriding built-in tunables. Pointer
// fields so absent keys keep their base values.
type defaultsFile struct {
	DecayConstant      *float64 `yaml:"decay_constant"`
	MaxBudgetChangePct *float64 `yaml:"max_budget_change_pct"`
	Temperature        *float64 `yaml:"temperature"`
	CTRCeiling         *float64 `yaml:"ctr_ceiling"`
	ROASCeiling        *float64 `yaml:"roas_ceiling"`
	EarlyPhaseHours    *float64 `yaml:"early_phase_hours"`
	MaturePhaseHours   *float64 `yaml:"mature_phase_hours"`
	MatureCTRWeight    *float64 `yaml:"mature_ctr_weight"`
}

// LoadDefaultsFile layers a YAML tunables file over base. Per-pool DB rows
// still win over both at run time.
func LoadDefaultsFile(path string, base Config) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read allocator defaults file: %w", err)
	}

	var f defaultsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return base, fmt.Errorf("parse allocator defaults file: %w", err)
	}

	cfg := base
	if f.DecayConstant != nil {
		cfg.DecayConstant = *f.DecayConstant
	}
	if f.MaxBudgetChangePct != nil {
		cfg.MaxBudgetChangePct = *f.MaxBudgetChangePct
	}
	if f.Temperature != nil {
		cfg.Temperature = *f.Temperature
	}
	if f.CTRCeiling != nil {
		cfg.CTRCeiling = *f.CTRCeiling
	}
	if f.ROASCeiling != nil {
		cfg.ROASCeiling = *f.ROASCeiling
	}
	if f.EarlyPhaseHours != nil {
		cfg.EarlyPhaseHours = *f.EarlyPhaseHours
	}
	if f.MaturePhaseHours != nil {
		cfg.MaturePhaseHours = *f.MaturePhaseHours
	}
	if f.MatureCTRWeight != nil {
		cfg.MatureCTRWeight = *f.MatureCTRWeight
	}

	return cfg, nil
}

// loadConfig reads the pool's allocator config from the repo, falling back to
// the global row (pool 0), then to the service defaults.
func (s *AllocatorService) loadConfig(ctx context.Context, poolID uint64) Config {
	if s.cfgRepo == nil {
		return s.defaultCfg
	}

	dbCfg, ok, err := s.cfgRepo.GetConfig(ctx, poolID)
	if err != nil || !ok {
		dbCfg, ok, err = s.cfgRepo.GetConfig(ctx, 0)
		if err != nil || !ok {
			return s.defaultCfg
		}
	}

	// start from defaults so zero-valued DB columns keep sane fallbacks
	cfg := s.defaultCfg

	if dbCfg.DecayConstant > 0 {
		cfg.DecayConstant = dbCfg.DecayConstant
	}
	if dbCfg.MaxBudgetChangePct > 0 {
		cfg.MaxBudgetChangePct = dbCfg.MaxBudgetChangePct
	}
	if dbCfg.Temperature > 0 {
		cfg.Temperature = dbCfg.Temperature
	}
	if dbCfg.CTRCeiling > 0 {
		cfg.CTRCeiling = dbCfg.CTRCeiling
	}
	if dbCfg.ROASCeiling > 0 {
		cfg.ROASCeiling = dbCfg.ROASCeiling
	}
	if dbCfg.EarlyPhaseHours > 0 {
		cfg.EarlyPhaseHours = dbCfg.EarlyPhaseHours
	}
	if dbCfg.MaturePhaseHours > 0 {
		cfg.MaturePhaseHours = dbCfg.MaturePhaseHours
	}
	if dbCfg.MatureCTRWeight > 0 {
		cfg.MatureCTRWeight = dbCfg.MatureCTRWeight
	}

	return cfg
}
