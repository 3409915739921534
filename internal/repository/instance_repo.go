package repository

import (
	"context"

	"github.com/badgeworks/affiliates/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstanceRepository interface {
	Create(ctx context.Context, instance *model.BannerInstance) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BannerInstance, error)
	// FindByIDForUser scopes the lookup to the owner, for share/delete.
	FindByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*model.BannerInstance, error)
	ListByUser(ctx context.Context, userID string) ([]*model.BannerInstance, error)
	// ListProcessedByUser backs the banner list page: only instances whose
	// image work has finished.
	ListProcessedByUser(ctx context.Context, userID string) ([]*model.BannerInstance, error)
	ListPassedByUser(ctx context.Context, userID string) ([]*model.BannerInstance, error)
	Save(ctx context.Context, instance *model.BannerInstance) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkProcessed(ctx context.Context, id uuid.UUID, customImageURL string) error
}

type instanceRepository struct {
	db *gorm.DB
}

func NewInstanceRepository(db *gorm.DB) InstanceRepository {
	return &instanceRepository{db: db}
}

func (r *instanceRepository) Create(ctx context.Context, instance *model.BannerInstance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

func (r *instanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BannerInstance, error) {
	var instance model.BannerInstance
	if err := r.db.WithContext(ctx).
		Preload("Banner").
		Where("id = ?", id).
		First(&instance).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *instanceRepository) FindByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*model.BannerInstance, error) {
	var instance model.BannerInstance
	if err := r.db.WithContext(ctx).
		Preload("Banner").
		Where("id = ? AND user_id = ?", id, userID).
		First(&instance).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *instanceRepository) ListByUser(ctx context.Context, userID string) ([]*model.BannerInstance, error) {
	var instances []*model.BannerInstance
	if err := r.db.WithContext(ctx).
		Preload("Banner").
		Where("user_id = ?", userID).
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *instanceRepository) ListProcessedByUser(ctx context.Context, userID string) ([]*model.BannerInstance, error) {
	var instances []*model.BannerInstance
	if err := r.db.WithContext(ctx).
		Preload("Banner").
		Where("user_id = ? AND processed = ?", userID, true).
		Order("created_at DESC").
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *instanceRepository) ListPassedByUser(ctx context.Context, userID string) ([]*model.BannerInstance, error) {
	var instances []*model.BannerInstance
	if err := r.db.WithContext(ctx).
		Preload("Banner").
		Where("user_id = ? AND review_status = ?", userID, model.ReviewPassed).
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *instanceRepository) Save(ctx context.Context, instance *model.BannerInstance) error {
	return r.db.WithContext(ctx).Save(instance).Error
}

func (r *instanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("banner_instance_id = ?", id).Delete(&model.ClickStats{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.BannerInstance{}, "id = ?", id).Error
	})
}

func (r *instanceRepository) MarkProcessed(ctx context.Context, id uuid.UUID, customImageURL string) error {
	updates := map[string]any{"processed": true}
	if customImageURL != "" {
		updates["custom_image_url"] = customImageURL
	}
	return r.db.WithContext(ctx).Model(&model.BannerInstance{}).
		Where("id = ?", id).
		Updates(updates).Error
}
