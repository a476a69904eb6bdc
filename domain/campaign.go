package domain

import (
	"time"
)

// CREATE TABLE public.campaigns (
//     campaign_id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     campaign_name   TEXT NOT NULL,
//     objective       TEXT,
//     status          TEXT DEFAULT 'active',
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Campaign struct {
	CampaignID   uint64    `gorm:"primaryKey;column:campaign_id;autoIncrement"`
	CampaignName string    `gorm:"column:campaign_name;type:text;not null"`
	Objective    string    `gorm:"column:objective;type:text"`
	Status       string    `gorm:"column:status;default:active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
