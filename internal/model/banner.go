package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review statuses for a banner instance submitted for the ad program.
const (
	ReviewUnreviewed = "unreviewed"
	ReviewPassed     = "passed"
	ReviewFailed     = "failed"
)

// Banner is an admin-curated template image that users customize.
type Banner struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Link         string    `gorm:"size:500;not null" json:"link"`
	ImageURL     string    `gorm:"size:500" json:"image_url"`
	ThumbnailURL string    `gorm:"size:500" json:"thumbnail_url"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Locales []BannerLocale `gorm:"foreignKey:BannerID;constraint:OnDelete:CASCADE" json:"locales,omitempty"`
}

// BannerLocale tags a banner as available in a locale ("de", "en-us", ...).
type BannerLocale struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BannerID uint   `gorm:"index;not null" json:"banner_id"`
	Locale   string `gorm:"size:32;not null" json:"locale"`
}

func (BannerLocale) TableName() string { return "banner_locales" }

// BannerInstance is a user's customized rendering of a banner. Processed
// stays false until the deferred image job finishes (or immediately flips
// when no custom image was requested).
type BannerInstance struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BannerID       uint      `gorm:"index;not null" json:"banner_id"`
	Banner         Banner    `gorm:"constraint:OnDelete:CASCADE" json:"banner"`
	UserID         string    `gorm:"size:128;index;not null" json:"user_id"`
	Text           string    `gorm:"size:90;not null" json:"text"`
	Locale         string    `gorm:"size:32" json:"locale"`
	CanBeAnAd      bool      `gorm:"not null;default:false" json:"can_be_an_ad"`
	CustomImageURL string    `gorm:"size:500" json:"custom_image_url,omitempty"`
	Processed      bool      `gorm:"not null;default:false" json:"processed"`
	ReviewStatus   string    `gorm:"size:16;not null;default:unreviewed" json:"review_status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *BannerInstance) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
