package repository

import (
	"context"

	"github.com/badgeworks/affiliates/internal/model"
	"gorm.io/gorm"
)

type LinkRepository interface {
	FindByUser(ctx context.Context, facebookUserID string) (*model.AccountLink, error)
	FindByActivationCode(ctx context.Context, code string) (*model.AccountLink, error)
	// AccountHasActiveLink is the double-linking guard: at most one active
	// link per local account.
	AccountHasActiveLink(ctx context.Context, accountID uint) (bool, error)
	Save(ctx context.Context, link *model.AccountLink) error
	DeleteByUser(ctx context.Context, facebookUserID string) error
}

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) FindByUser(ctx context.Context, facebookUserID string) (*model.AccountLink, error) {
	var link model.AccountLink
	if err := r.db.WithContext(ctx).
		Preload("Account").
		Where("facebook_user_id = ?", facebookUserID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) FindByActivationCode(ctx context.Context, code string) (*model.AccountLink, error) {
	var link model.AccountLink
	if err := r.db.WithContext(ctx).
		Preload("Account").
		Where("activation_code = ?", code).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) AccountHasActiveLink(ctx context.Context, accountID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AccountLink{}).
		Where("account_id = ? AND is_active = ?", accountID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *linkRepository) Save(ctx context.Context, link *model.AccountLink) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *linkRepository) DeleteByUser(ctx context.Context, facebookUserID string) error {
	return r.db.WithContext(ctx).
		Where("facebook_user_id = ?", facebookUserID).
		Delete(&model.AccountLink{}).Error
}
