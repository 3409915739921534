package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/badgeworks/affiliates/internal/model"
	"github.com/badgeworks/affiliates/internal/repository"
	"github.com/badgeworks/affiliates/internal/token"
	"github.com/badgeworks/affiliates/pkg/mailer"
	"gorm.io/gorm"
)

type LinkService interface {
	// CreateLink starts (or restarts) the pending link between a platform
	// user and the local account behind email. Returns nil, nil for every
	// business rejection — no matching account, account already actively
	// linked, this user's link already active — so callers can't tell the
	// cases apart.
	CreateLink(ctx context.Context, facebookUserID, email string) (*model.AccountLink, error)
	// SendActivationEmail mails the confirmation URL to the linked account.
	SendActivationEmail(link *model.AccountLink) error
	// ActivateLink flips a pending link to active when the code verifies.
	// Returns nil for unknown codes, replays against already-active links,
	// and codes that fail verification.
	ActivateLink(ctx context.Context, code string) (*model.AccountLink, error)
	FindForUser(ctx context.Context, facebookUserID string) (*model.AccountLink, error)
	RemoveLink(ctx context.Context, facebookUserID string) error
}

type linkService struct {
	linkRepo    repository.LinkRepository
	accountRepo repository.AccountRepository
	tokens      *token.Generator
	mail        mailer.Mailer
	siteURL     string
}

func NewLinkService(
	linkRepo repository.LinkRepository,
	accountRepo repository.AccountRepository,
	tokens *token.Generator,
	mail mailer.Mailer,
	siteURL string,
) LinkService {
	return &linkService{
		linkRepo:    linkRepo,
		accountRepo: accountRepo,
		tokens:      tokens,
		mail:        mail,
		siteURL:     siteURL,
	}
}

func (s *linkService) CreateLink(ctx context.Context, facebookUserID, email string) (*model.AccountLink, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	active, err := s.linkRepo.AccountHasActiveLink(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, nil
	}

	link, err := s.linkRepo.FindByUser(ctx, facebookUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		link = &model.AccountLink{FacebookUserID: facebookUserID}
	} else if err != nil {
		return nil, err
	} else if link.IsActive {
		return nil, nil
	}
	link.AccountID = account.ID
	link.Account = *account

	// Even when reusing an old pending link, mint a fresh activation code.
	link.ActivationCode = s.tokens.Generate(link.TokenState())
	if err := s.linkRepo.Save(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *linkService) SendActivationEmail(link *model.AccountLink) error {
	if s.mail == nil {
		return nil
	}

	activationURL := fmt.Sprintf("%s/fb/links/activate/%s", s.siteURL, link.ActivationCode)
	body := fmt.Sprintf(
		"A Facebook user has asked to link their account with your Affiliates account.\n\n"+
			"If that was you, confirm the link by visiting:\n\n    %s\n\n"+
			"If it wasn't, you can safely ignore this email.\n", activationURL)

	return s.mail.Send([]string{link.Account.Email}, "Link your Firefox Affiliates account", body)
}

func (s *linkService) ActivateLink(ctx context.Context, code string) (*model.AccountLink, error) {
	link, err := s.linkRepo.FindByActivationCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Replays after a successful activation are a silent no-op: the token is
	// bound to the pre-activation state, so it would fail verification
	// anyway, but the short-circuit keeps the response uniform.
	if link.IsActive {
		return nil, nil
	}
	if !s.tokens.Verify(code, link.TokenState()) {
		log.Printf("rejected stale or invalid activation code for link %s", link.ID)
		return nil, nil
	}

	link.IsActive = true
	if err := s.linkRepo.Save(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *linkService) FindForUser(ctx context.Context, facebookUserID string) (*model.AccountLink, error) {
	return s.linkRepo.FindByUser(ctx, facebookUserID)
}

func (s *linkService) RemoveLink(ctx context.Context, facebookUserID string) error {
	if _, err := s.linkRepo.FindByUser(ctx, facebookUserID); err != nil {
		return err
	}
	return s.linkRepo.DeleteByUser(ctx, facebookUserID)
}
