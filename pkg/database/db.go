package database

import (
	"fmt"

	"github.com/badgeworks/affiliates/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a Postgres-backed GORM handle. No package-level singleton:
// the handle is passed explicitly to whoever needs it.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Account{},
		&model.FacebookUser{},
		&model.AccountLink{},
		&model.Banner{},
		&model.BannerLocale{},
		&model.BannerInstance{},
		&model.ClickStats{},
	)
}
