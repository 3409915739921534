package repository

import (
	"context"
	"errors"

	"github.com/badgeworks/affiliates/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	// GetOrCreate fetches the user for a platform id, creating a blank row on
	// first sight. Reports whether the row was created.
	GetOrCreate(ctx context.Context, id string) (*model.FacebookUser, bool, error)
	FindByID(ctx context.Context, id string) (*model.FacebookUser, error)
	Save(ctx context.Context, user *model.FacebookUser) error
	Delete(ctx context.Context, id string) error
	// TopUsers returns ranked users ordered by leaderboard position, skipping
	// unranked ones. country filters when non-empty.
	TopUsers(ctx context.Context, country string, limit int) ([]*model.FacebookUser, error)
	// IsNew reports whether the user has no processed banner instances yet.
	IsNew(ctx context.Context, id string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetOrCreate(ctx context.Context, id string) (*model.FacebookUser, bool, error) {
	var user model.FacebookUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user = model.FacebookUser{ID: id, LeaderboardPosition: model.UnrankedPosition}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.FacebookUser, error) {
	var user model.FacebookUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *model.FacebookUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Cascade by hand so SQLite test stores behave like Postgres with
		// foreign_keys enforcement off.
		if err := tx.Where("banner_instance_id IN (?)",
			tx.Model(&model.BannerInstance{}).Select("id").Where("user_id = ?", id),
		).Delete(&model.ClickStats{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.BannerInstance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("facebook_user_id = ?", id).Delete(&model.AccountLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.FacebookUser{}, "id = ?", id).Error
	})
}

func (r *userRepository) TopUsers(ctx context.Context, country string, limit int) ([]*model.FacebookUser, error) {
	q := r.db.WithContext(ctx).
		Where("leaderboard_position <> ?", model.UnrankedPosition).
		Order("leaderboard_position ASC")
	if country != "" {
		q = q.Where("country = ?", country)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var users []*model.FacebookUser
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) IsNew(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BannerInstance{}).
		Where("user_id = ? AND processed = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
