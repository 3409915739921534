package repository

import (
	"context"
	"os"
	"testing"

	"github.com/badgeworks/affiliates/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates a migrated SQLite database for testing.
// A temp file is used instead of :memory: so every connection sees the same
// data.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	f, err := os.CreateTemp("", "affiliates-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp db: %v", err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := gorm.Open(sqlite.Open(f.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.Account{},
		&model.FacebookUser{},
		&model.AccountLink{},
		&model.Banner{},
		&model.BannerLocale{},
		&model.BannerInstance{},
		&model.ClickStats{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, id string) *model.FacebookUser {
	t.Helper()
	user := &model.FacebookUser{ID: id, LeaderboardPosition: model.UnrankedPosition}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("createTestUser: %v", err)
	}
	return user
}

func createTestBanner(t *testing.T, db *gorm.DB, name string, locales ...string) *model.Banner {
	t.Helper()
	banner := &model.Banner{Name: name, Link: "https://example.com/download"}
	for _, locale := range locales {
		banner.Locales = append(banner.Locales, model.BannerLocale{Locale: locale})
	}
	if err := db.Create(banner).Error; err != nil {
		t.Fatalf("createTestBanner: %v", err)
	}
	return banner
}

func createTestInstance(t *testing.T, db *gorm.DB, bannerID uint, userID string) *model.BannerInstance {
	t.Helper()
	instance := &model.BannerInstance{
		BannerID:     bannerID,
		UserID:       userID,
		Text:         "check out firefox",
		ReviewStatus: model.ReviewUnreviewed,
	}
	if err := db.Create(instance).Error; err != nil {
		t.Fatalf("createTestInstance: %v", err)
	}
	return instance
}

func testCtx() context.Context { return context.Background() }
