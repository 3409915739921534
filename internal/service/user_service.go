package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/badgeworks/affiliates/internal/fbauth"
	"github.com/badgeworks/affiliates/internal/graph"
	"github.com/badgeworks/affiliates/internal/model"
	"github.com/badgeworks/affiliates/internal/queue"
	"github.com/badgeworks/affiliates/internal/repository"
	"github.com/badgeworks/affiliates/pkg/apperror"
	"github.com/badgeworks/affiliates/pkg/mailer"
	"github.com/badgeworks/affiliates/pkg/storage"
	"gorm.io/gorm"
)

type UserService interface {
	// Authenticate resolves a decoded signed request to a local user row,
	// creating it on first contact. Returns nil when the payload carries no
	// user id (app not yet authorized).
	Authenticate(ctx context.Context, payload *fbauth.Payload) (*model.FacebookUser, bool, error)
	Get(ctx context.Context, id string) (*model.FacebookUser, error)
	IsNew(ctx context.Context, id string) (bool, error)
	// Purge deletes the user and everything hanging off them. Best-effort
	// side channels (admin email for ad-approved banners, stored image
	// deletes) run first and never block the purge.
	Purge(ctx context.Context, id string) error
	// RefreshFromGraph updates cached profile fields from the platform graph.
	// Fetch or parse failures are logged and leave the local copy untouched.
	RefreshFromGraph(ctx context.Context, id string) error
}

type userService struct {
	userRepo     repository.UserRepository
	instanceRepo repository.InstanceRepository
	tasks        queue.Queue
	graph        *graph.Client
	imageStorage storage.ImageStorage
	mail         mailer.Mailer
	adminEmail   string
}

func NewUserService(
	userRepo repository.UserRepository,
	instanceRepo repository.InstanceRepository,
	tasks queue.Queue,
	graphClient *graph.Client,
	imageStorage storage.ImageStorage,
	mail mailer.Mailer,
	adminEmail string,
) UserService {
	return &userService{
		userRepo:     userRepo,
		instanceRepo: instanceRepo,
		tasks:        tasks,
		graph:        graphClient,
		imageStorage: imageStorage,
		mail:         mail,
		adminEmail:   adminEmail,
	}
}

func (s *userService) Authenticate(ctx context.Context, payload *fbauth.Payload) (*model.FacebookUser, bool, error) {
	if payload == nil || payload.UserID == "" {
		return nil, false, nil
	}

	user, created, err := s.userRepo.GetOrCreate(ctx, payload.UserID)
	if err != nil {
		return nil, false, err
	}

	// Country only travels in the signed request, so refresh it on every
	// entry.
	if payload.User != nil && payload.User.Country != "" {
		user.Country = payload.User.Country
	}
	if payload.User != nil && payload.User.Locale != "" && user.Locale == "" {
		user.Locale = normalizeLocale(payload.User.Locale)
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, false, err
	}

	// Name and locale live in the graph; pick them up out of band.
	if err := s.tasks.Enqueue(ctx, queue.Task{Type: queue.TaskRefreshUserInfo, UserID: user.ID}); err != nil {
		log.Printf("failed to enqueue profile refresh for user %s: %v", user.ID, err)
	}

	return user, created, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.FacebookUser, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	return user, err
}

func (s *userService) IsNew(ctx context.Context, id string) (bool, error) {
	return s.userRepo.IsNew(ctx, id)
}

func (s *userService) Purge(ctx context.Context, id string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.notifyPassedAds(ctx, user); err != nil {
		log.Printf("failed to send de-authorization notice for user %s: %v", user.ID, err)
	}

	instances, err := s.instanceRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, instance := range instances {
		if instance.CustomImageURL == "" || s.imageStorage == nil {
			continue
		}
		if err := s.imageStorage.DeleteImage(ctx, instance.CustomImageURL); err != nil {
			log.Printf("failed to delete custom image for instance %s: %v", instance.ID, err)
		}
	}

	return s.userRepo.Delete(ctx, user.ID)
}

func (s *userService) notifyPassedAds(ctx context.Context, user *model.FacebookUser) error {
	if s.mail == nil {
		return nil
	}

	ads, err := s.instanceRepo.ListPassedByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(ads) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User %s (%s) has de-authorized the app at %s.\n\n",
		user.FullName, user.ID, time.Now().UTC().Format(time.RFC1123))
	b.WriteString("The following ad-approved banner instances will be deleted:\n")
	for _, ad := range ads {
		fmt.Fprintf(&b, "  - %s (%q)\n", ad.ID, ad.Text)
	}

	return s.mail.Send([]string{s.adminEmail},
		"[fb-affiliates-banner] User has de-authorized app", b.String())
}

func (s *userService) RefreshFromGraph(ctx context.Context, id string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	info, err := s.graph.UserInfo(ctx, id)
	if err != nil {
		log.Printf("error retrieving graph information for user %s: %v", id, err)
		return nil
	}

	if info.Locale != "" {
		user.Locale = normalizeLocale(info.Locale)
	}
	if info.Name != "" {
		user.FullName = info.Name
	}
	if info.FirstName != "" {
		user.FirstName = info.FirstName
	}
	if info.LastName != "" {
		user.LastName = info.LastName
	}
	return s.userRepo.Save(ctx, user)
}

// normalizeLocale maps platform locales ("fr_FR") onto the dashed lowercase
// form the banner locale tags use ("fr-fr").
func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(locale, "_", "-"))
}
