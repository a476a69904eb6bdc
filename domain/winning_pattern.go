package domain

import "time"

// WinningPattern is the locally materialized similarity of one creative
// against the strongest known winning creative, synced from the remote
// pattern index or upserted by an operator.
type WinningPattern struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreativeKey string    `gorm:"column:creative_key;uniqueIndex;not null" json:"creative_key"`
	PatternID   string    `gorm:"column:pattern_id" json:"pattern_id"`
	Similarity  float64   `gorm:"column:similarity;not null" json:"similarity"` // 0–1
	Source      string    `gorm:"column:source;default:index" json:"source"`    // index | manual
	SyncedAt    time.Time `gorm:"column:synced_at;autoUpdateTime" json:"synced_at"`
}

func (WinningPattern) TableName() string {
	return "winning_patterns"
}
