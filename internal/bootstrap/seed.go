package bootstrap

import (
	"context"
	"log"

	"github.com/badgeworks/affiliates/internal/model"
	"github.com/badgeworks/affiliates/internal/repository"
	"gorm.io/gorm"
)

// SeedDemoData fills an empty development database with a couple of banners
// and a local account so the app is usable right after first boot.
func SeedDemoData(db *gorm.DB) error {
	ctx := context.Background()
	bannerRepo := repository.NewBannerRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	count, err := bannerRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		banners := []model.Banner{
			{
				Name:     "Fast, Flexible, Secure",
				Link:     "https://www.mozilla.org/firefox/",
				ImageURL: "https://example.com/banners/fast-flexible-secure.png",
				Locales: []model.BannerLocale{
					{Locale: "en-us"}, {Locale: "de"}, {Locale: "fr"},
				},
			},
			{
				Name:     "Different by Design",
				Link:     "https://www.mozilla.org/firefox/new/",
				ImageURL: "https://example.com/banners/different-by-design.png",
				Locales: []model.BannerLocale{
					{Locale: "en-us"},
				},
			},
		}
		for i := range banners {
			if err := bannerRepo.Create(ctx, &banners[i]); err != nil {
				return err
			}
		}
		log.Println("seeded demo banners")
	}

	accounts, err := accountRepo.Count(ctx)
	if err != nil {
		return err
	}
	if accounts == 0 {
		account := model.Account{Email: "demo@affiliates.example.com"}
		if err := account.SetPassword("demo1234"); err != nil {
			return err
		}
		if err := accountRepo.Create(ctx, &account); err != nil {
			return err
		}
		log.Println("seeded demo account demo@affiliates.example.com")
	}

	return nil
}
