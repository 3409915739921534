package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UnrankedPosition marks users that the external ranking job has not (or
// deliberately won't) place on the leaderboard.
const UnrankedPosition = -1

// FacebookUser is a user of the platform app. The primary key is the opaque
// id asserted by the platform in a decoded signed request.
type FacebookUser struct {
	ID                  string    `gorm:"size:128;primaryKey" json:"id"`
	FullName            string    `gorm:"size:255" json:"full_name"`
	FirstName           string    `gorm:"size:255" json:"first_name"`
	LastName            string    `gorm:"size:255" json:"last_name"`
	Locale              string    `gorm:"size:32" json:"locale"`
	Country             string    `gorm:"size:16" json:"country"`
	TotalClicks         int64     `gorm:"not null;default:0" json:"total_clicks"`
	LeaderboardPosition int       `gorm:"not null;default:-1" json:"leaderboard_position"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	BannerInstances []BannerInstance `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AccountLink     *AccountLink     `gorm:"foreignKey:FacebookUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Account is a local Affiliates account that a FacebookUser may link to.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Account) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashed)
	return nil
}

func (a *Account) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plain)) == nil
}
