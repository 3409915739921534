package repository

import (
	"context"
	"time"

	"github.com/badgeworks/affiliates/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsRepository interface {
	// RecordClick bumps the hourly bucket for an instance (creating the
	// bucket row on first click) and the owner's running total in one
	// transaction, so the two counters can't drift apart.
	RecordClick(ctx context.Context, instanceID uuid.UUID, userID string, at time.Time) error
	TotalForMonth(ctx context.Context, userID string, year int, month time.Month) (int64, error)
	TotalForUser(ctx context.Context, userID string) (int64, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) RecordClick(ctx context.Context, instanceID uuid.UUID, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bucket := model.ClickStats{
			BannerInstanceID: instanceID,
			Hour:             model.HourBucket(at),
			Clicks:           1,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "banner_instance_id"}, {Name: "hour"}},
			DoUpdates: clause.Assignments(map[string]any{"clicks": gorm.Expr("click_stats.clicks + 1")}),
		}).Create(&bucket).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.FacebookUser{}).
			Where("id = ?", userID).
			UpdateColumn("total_clicks", gorm.Expr("total_clicks + 1")).Error
	})
}

func (r *statsRepository) TotalForMonth(ctx context.Context, userID string, year int, month time.Month) (int64, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return r.sumClicks(ctx, userID, func(q *gorm.DB) *gorm.DB {
		return q.Where("click_stats.hour >= ? AND click_stats.hour < ?", start, end)
	})
}

func (r *statsRepository) TotalForUser(ctx context.Context, userID string) (int64, error) {
	return r.sumClicks(ctx, userID, func(q *gorm.DB) *gorm.DB { return q })
}

func (r *statsRepository) sumClicks(ctx context.Context, userID string, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var total *int64
	q := r.db.WithContext(ctx).Model(&model.ClickStats{}).
		Joins("JOIN banner_instances ON banner_instances.id = click_stats.banner_instance_id").
		Where("banner_instances.user_id = ?", userID).
		Select("SUM(click_stats.clicks)")
	if err := scope(q).Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		// SUM over zero rows is NULL.
		return 0, nil
	}
	return *total, nil
}
