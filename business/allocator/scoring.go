package allocator

import "adPulse/domain"

// ---- Phase-weighted blending ----

// ctrWeight returns how much CTR matters at a given ad age. Young ads have no
// attribution data worth trusting, so CTR carries the whole score through the
// early phase; the weight then descends linearly until ROAS dominates in the
// mature phase. The ROAS weight is always the complement.
func ctrWeight(ageHours float64, cfg Config) float64 {
	if ageHours <= cfg.EarlyPhaseHours {
		return 1.0
	}
	if ageHours >= cfg.MaturePhaseHours {
		return cfg.MatureCTRWeight
	}

	span := cfg.MaturePhaseHours - cfg.EarlyPhaseHours
	frac := (ageHours - cfg.EarlyPhaseHours) / span

	return 1.0 - frac*(1.0-cfg.MatureCTRWeight)
}

// normalizeSignal rescales a raw metric against its reference ceiling so both
// signals sit on a comparable 0–1 scale before blending.
func normalizeSignal(raw, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}

	v := raw / ceiling
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// blendScore computes the phase-weighted mix of normalized CTR and normalized
// pipeline ROAS for one snapshot.
func blendScore(snap domain.AdSnapshot, cfg Config) domain.ScoreBreakdown {
	w := ctrWeight(snap.AgeHours, cfg)
	normCTR := normalizeSignal(snap.CTR(), cfg.CTRCeiling)
	normROAS := normalizeSignal(snap.ROAS(), cfg.ROASCeiling)

	return domain.ScoreBreakdown{
		AdID:           snap.AdID,
		CTRWeight:      w,
		ROASWeight:     1 - w,
		NormalizedCTR:  normCTR,
		NormalizedROAS: normROAS,
		BlendedScore:   w*normCTR + (1-w)*normROAS,
	}
}
