package allocator

import (
	"fmt"

	"adPulse/domain"
)

// validateSnapshot rejects impossible readings explicitly instead of silently
// clamping them.
func validateSnapshot(snap domain.AdSnapshot) error {
	if snap.AdID == "" {
		return fmt.Errorf("%w: missing ad id", ErrInvalidSnapshot)
	}
	if snap.Impressions < 0 {
		return fmt.Errorf("%w: ad %s: negative impressions (%d)", ErrInvalidSnapshot, snap.AdID, snap.Impressions)
	}
	if snap.Clicks < 0 {
		return fmt.Errorf("%w: ad %s: negative clicks (%d)", ErrInvalidSnapshot, snap.AdID, snap.Clicks)
	}
	if snap.Clicks > snap.Impressions {
		return fmt.Errorf("%w: ad %s: clicks (%d) exceed impressions (%d)", ErrInvalidSnapshot, snap.AdID, snap.Clicks, snap.Impressions)
	}
	if snap.Spend < 0 {
		return fmt.Errorf("%w: ad %s: negative spend (%.2f)", ErrInvalidSnapshot, snap.AdID, snap.Spend)
	}
	if snap.PipelineValue < 0 {
		return fmt.Errorf("%w: ad %s: negative pipeline value (%.2f)", ErrInvalidSnapshot, snap.AdID, snap.PipelineValue)
	}
	if snap.CashRevenue < 0 {
		return fmt.Errorf("%w: ad %s: negative cash revenue (%.2f)", ErrInvalidSnapshot, snap.AdID, snap.CashRevenue)
	}
	if snap.AgeHours < 0 {
		return fmt.Errorf("%w: ad %s: negative age (%.1fh)", ErrInvalidSnapshot, snap.AdID, snap.AgeHours)
	}

	return nil
}
