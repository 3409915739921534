package repository

import (
	"context"
	"strings"

	"github.com/badgeworks/affiliates/internal/model"
	"gorm.io/gorm"
)

type BannerRepository interface {
	Create(ctx context.Context, banner *model.Banner) error
	FindByID(ctx context.Context, id uint) (*model.Banner, error)
	// FilterByLocale lists banners tagged with the given locale, falling back
	// to its bare language ("de-at" also matches "de"). Empty locale matches
	// everything. Regional variants never produce duplicate rows.
	FilterByLocale(ctx context.Context, locale string, limit int) ([]*model.Banner, error)
	// AvailableInLocale reports whether one banner passes the same filter.
	AvailableInLocale(ctx context.Context, bannerID uint, locale string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type bannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(ctx context.Context, banner *model.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *bannerRepository) FindByID(ctx context.Context, id uint) (*model.Banner, error) {
	var banner model.Banner
	if err := r.db.WithContext(ctx).
		Preload("Locales").
		Where("id = ?", id).
		First(&banner).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *bannerRepository) FilterByLocale(ctx context.Context, locale string, limit int) ([]*model.Banner, error) {
	q := localeFilter(r.db.WithContext(ctx), locale).Distinct("banners.*")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var banners []*model.Banner
	if err := q.Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *bannerRepository) AvailableInLocale(ctx context.Context, bannerID uint, locale string) (bool, error) {
	var count int64
	err := localeFilter(r.db.WithContext(ctx), locale).
		Distinct("banners.id").
		Where("banners.id = ?", bannerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bannerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Banner{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func localeFilter(db *gorm.DB, locale string) *gorm.DB {
	q := db.Model(&model.Banner{})
	if locale == "" {
		return q
	}

	locale = strings.ToLower(locale)
	lang, _, _ := strings.Cut(locale, "-")
	return q.
		Joins("JOIN banner_locales ON banner_locales.banner_id = banners.id").
		Where("banner_locales.locale LIKE ? OR banner_locales.locale LIKE ?",
			"%"+locale+"%", "%"+lang+"%")
}
