package domain

import (
	"time"

	"gorm.io/gorm"
)

// CREATE TABLE public.ads (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     pool_id         BIGINT NOT NULL,
//     campaign_id     BIGINT,
//     external_id     TEXT UNIQUE NOT NULL,
//     ad_name         TEXT,
//     channel         TEXT,
//     creative_key    TEXT,
//     status          TEXT DEFAULT 'active',
//     launched_at     TIMESTAMPTZ,
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ
// );

type Ad struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	PoolID      uint64    `gorm:"column:pool_id;not null;index"`
	CampaignID  uint64    `gorm:"column:campaign_id;default:0"`
	ExternalID  string    `gorm:"column:external_id;unique;not null"`
	AdName      string    `gorm:"column:ad_name;type:text"`
	Channel     string    `gorm:"column:channel;type:text"`
	CreativeKey string    `gorm:"column:creative_key;type:text"`
	Status      string    `gorm:"column:status;default:active"`
	LaunchedAt  time.Time `gorm:"column:launched_at"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Ad) TableName() string {
	return "ads"
}

// AdSnapshot is one immutable performance reading for a live ad. PipelineValue is
// attributed-but-unrealized revenue; CashRevenue is what has already landed.
type AdSnapshot struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	PoolID        uint64    `gorm:"column:pool_id;index" json:"pool_id"`
	AdID          string    `gorm:"column:ad_id;not null" json:"ad_id"`
	Impressions   int64     `gorm:"column:impressions" json:"impressions"`
	Clicks        int64     `gorm:"column:clicks" json:"clicks"`
	Spend         float64   `gorm:"column:spend;type:numeric" json:"spend"`
	PipelineValue float64   `gorm:"column:pipeline_value;type:numeric" json:"pipeline_value"`
	CashRevenue   float64   `gorm:"column:cash_revenue;type:numeric" json:"cash_revenue"`
	AgeHours      float64   `gorm:"column:age_hours;type:numeric" json:"age_hours"`
	LastUpdated   time.Time `gorm:"column:last_updated" json:"last_updated"`
	CapturedAt    time.Time `gorm:"column:captured_at;autoCreateTime" json:"captured_at"`
}

func (AdSnapshot) TableName() string {
	return "ad_snapshots"
}

// CTR is clicks per impression, 0 while the ad has no impressions.
func (s AdSnapshot) CTR() float64 {
	if s.Impressions == 0 {
		return 0
	}
	return float64(s.Clicks) / float64(s.Impressions)
}

// ROAS is pipeline value per unit spend, 0 while nothing has been spent.
func (s AdSnapshot) ROAS() float64 {
	if s.Spend == 0 {
		return 0
	}
	return s.PipelineValue / s.Spend
}
