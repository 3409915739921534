package service

import (
	"context"
	"log"

	"github.com/badgeworks/affiliates/internal/basket"
)

type NewsletterService interface {
	// Subscribe forwards to the mailing-list API. Failures are logged and
	// swallowed so the endpoint never reveals which emails are registered.
	Subscribe(ctx context.Context, email, format, country, sourceURL string)
}

type newsletterService struct {
	client      basket.Client
	mailingList string
}

func NewNewsletterService(client basket.Client, mailingList string) NewsletterService {
	return &newsletterService{client: client, mailingList: mailingList}
}

func (s *newsletterService) Subscribe(ctx context.Context, email, format, country, sourceURL string) {
	if format == "" {
		format = "html"
	}

	err := s.client.Subscribe(ctx, basket.Subscription{
		Email:     email,
		List:      s.mailingList,
		Format:    format,
		Country:   country,
		SourceURL: sourceURL,
	})
	if err != nil {
		log.Printf("error subscribing email %s to mailing list: %v", email, err)
	}
}
