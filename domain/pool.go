package domain

import (
	"time"

	"gorm.io/gorm"
)

// CREATE TABLE public.pools (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     campaign_id     BIGINT,
//     pool_name       TEXT NOT NULL,
//     total_budget    NUMERIC NOT NULL,
//     status          TEXT DEFAULT 'active',
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ
// );

type Pool struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	CampaignID  uint64    `gorm:"column:campaign_id;index"`
	PoolName    string    `gorm:"column:pool_name;type:text;not null"`
	TotalBudget float64   `gorm:"column:total_budget;type:numeric;not null"`
	Status      string    `gorm:"column:status;default:active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Pool) TableName() string {
	return "pools"
}

// AdBudget is the live spend level for one ad inside a pool. Applying an
// allocation run upserts these rows; the next run reads them back as the
// current budgets the rate limiter protects.
type AdBudget struct {
	PoolID    uint64    `gorm:"column:pool_id;primaryKey" json:"pool_id"`
	AdID      string    `gorm:"column:ad_id;primaryKey" json:"ad_id"`
	Budget    float64   `gorm:"column:budget;type:numeric" json:"budget"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AdBudget) TableName() string {
	return "ad_budgets"
}
