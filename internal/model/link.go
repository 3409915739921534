package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountLink ties a FacebookUser to a local Account. A link starts out
// pending and only becomes active once the emailed activation code is
// verified. One row per FacebookUser; one active link per Account.
type AccountLink struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FacebookUserID string    `gorm:"size:128;uniqueIndex;not null" json:"facebook_user_id"`
	AccountID      uint      `gorm:"index;not null" json:"account_id"`
	Account        Account   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ActivationCode string    `gorm:"size:255;index" json:"-"`
	IsActive       bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *AccountLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TokenState snapshots the mutable fields an activation code is bound to.
// If any of them change between issuance and verification, the code is dead.
func (l *AccountLink) TokenState() string {
	return fmt.Sprintf("%s:%d:%t", l.FacebookUserID, l.AccountID, l.IsActive)
}
