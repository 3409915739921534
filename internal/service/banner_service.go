package service

import (
	"context"
	"errors"
	"log"

	"github.com/badgeworks/affiliates/internal/dto"
	"github.com/badgeworks/affiliates/internal/model"
	"github.com/badgeworks/affiliates/internal/queue"
	"github.com/badgeworks/affiliates/internal/repository"
	"github.com/badgeworks/affiliates/pkg/apperror"
	"github.com/badgeworks/affiliates/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// ErrBannerUnavailable rejects creates naming a banner that doesn't exist or
// isn't offered in the requester's locale.
var ErrBannerUnavailable = errors.New("banner is not available in this locale")

type BannerService interface {
	ListForLocale(ctx context.Context, locale string, limit int) ([]*model.Banner, error)
	// CreateInstance persists a new instance. accepted reports whether image
	// work was deferred (caller responds 202 and polls) as opposed to the
	// instance being immediately usable (201).
	CreateInstance(ctx context.Context, userID, locale string, req dto.BannerInstanceCreateRequest) (instance *model.BannerInstance, accepted bool, err error)
	GetInstance(ctx context.Context, id uuid.UUID) (*model.BannerInstance, error)
	GetInstanceForUser(ctx context.Context, id uuid.UUID, userID string) (*model.BannerInstance, error)
	ListProcessedForUser(ctx context.Context, userID string) ([]*model.BannerInstance, error)
	DeleteInstance(ctx context.Context, id uuid.UUID, userID string) error
	// FollowLink resolves the instance's target and enqueues a click unless
	// the visitor is the platform's crawler. found=false means the caller
	// should fall back to the default download URL.
	FollowLink(ctx context.Context, id uuid.UUID, isBot bool) (target string, found bool, err error)
}

type bannerService struct {
	bannerRepo   repository.BannerRepository
	instanceRepo repository.InstanceRepository
	tasks        queue.Queue
	imageStorage storage.ImageStorage
	sanitizer    *bluemonday.Policy
}

func NewBannerService(
	bannerRepo repository.BannerRepository,
	instanceRepo repository.InstanceRepository,
	tasks queue.Queue,
	imageStorage storage.ImageStorage,
) BannerService {
	return &bannerService{
		bannerRepo:   bannerRepo,
		instanceRepo: instanceRepo,
		tasks:        tasks,
		imageStorage: imageStorage,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func (s *bannerService) ListForLocale(ctx context.Context, locale string, limit int) ([]*model.Banner, error) {
	return s.bannerRepo.FilterByLocale(ctx, locale, limit)
}

func (s *bannerService) CreateInstance(ctx context.Context, userID, locale string, req dto.BannerInstanceCreateRequest) (*model.BannerInstance, bool, error) {
	available, err := s.bannerRepo.AvailableInLocale(ctx, req.BannerID, locale)
	if err != nil {
		return nil, false, err
	}
	if !available {
		return nil, false, ErrBannerUnavailable
	}

	instance := &model.BannerInstance{
		BannerID:     req.BannerID,
		UserID:       userID,
		Text:         s.sanitizer.Sanitize(req.Text),
		Locale:       locale,
		CanBeAnAd:    req.CanBeAnAd,
		ReviewStatus: model.ReviewUnreviewed,
	}
	if err := s.instanceRepo.Create(ctx, instance); err != nil {
		return nil, false, err
	}

	if req.UseProfileImage {
		task := queue.Task{Type: queue.TaskGenerateInstanceImage, InstanceID: instance.ID.String()}
		if err := s.tasks.Enqueue(ctx, task); err != nil {
			return nil, false, err
		}
		return instance, true, nil
	}

	// No image work needed, the instance is usable right away.
	if err := s.instanceRepo.MarkProcessed(ctx, instance.ID, ""); err != nil {
		return nil, false, err
	}
	instance.Processed = true
	return instance, false, nil
}

func (s *bannerService) GetInstance(ctx context.Context, id uuid.UUID) (*model.BannerInstance, error) {
	instance, err := s.instanceRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	return instance, err
}

func (s *bannerService) GetInstanceForUser(ctx context.Context, id uuid.UUID, userID string) (*model.BannerInstance, error) {
	instance, err := s.instanceRepo.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	return instance, err
}

func (s *bannerService) ListProcessedForUser(ctx context.Context, userID string) ([]*model.BannerInstance, error) {
	return s.instanceRepo.ListProcessedByUser(ctx, userID)
}

func (s *bannerService) DeleteInstance(ctx context.Context, id uuid.UUID, userID string) error {
	instance, err := s.instanceRepo.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if err != nil {
		return err
	}

	if instance.CustomImageURL != "" && s.imageStorage != nil {
		if err := s.imageStorage.DeleteImage(ctx, instance.CustomImageURL); err != nil {
			log.Printf("failed to delete custom image for instance %s: %v", instance.ID, err)
		}
	}
	return s.instanceRepo.Delete(ctx, instance.ID)
}

func (s *bannerService) FollowLink(ctx context.Context, id uuid.UUID, isBot bool) (string, bool, error) {
	instance, err := s.instanceRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if !isBot {
		task := queue.Task{Type: queue.TaskAddClick, InstanceID: instance.ID.String()}
		if err := s.tasks.Enqueue(ctx, task); err != nil {
			// The redirect matters more than the click.
			log.Printf("failed to enqueue click for instance %s: %v", instance.ID, err)
		}
	}
	return instance.Banner.Link, true, nil
}
