package model

import (
	"time"

	"github.com/google/uuid"
)

// ClickStats buckets clicks per banner instance per hour. Monthly totals are
// aggregated with SUM over the buckets.
type ClickStats struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	BannerInstanceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_instance_hour" json:"banner_instance_id"`
	Hour             time.Time `gorm:"not null;uniqueIndex:idx_instance_hour" json:"hour"`
	Clicks           int64     `gorm:"not null;default:0" json:"clicks"`
}

func (ClickStats) TableName() string { return "click_stats" }

// HourBucket truncates t to the bucket boundary used by the stats table.
func HourBucket(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}
